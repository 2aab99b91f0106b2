package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"pinmap/internal/maps"
	"pinmap/internal/session"
)

const timestampLayout = "2006-01-02 15:04"

func printPage(w io.Writer, view session.PageView) {
	if len(view.Items) == 0 {
		fmt.Fprintln(w, "No saved locations yet.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tADDRESS\tCOORDINATES\tSAVED")
	for _, item := range view.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s, %s\t%s\n",
			item.ID,
			item.Address,
			maps.FormatCoordinate(item.Latitude),
			maps.FormatCoordinate(item.Longitude),
			formatTimestamp(item.CreatedAt),
		)
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "\nPage %d of %d  %s\n", view.CurrentPage, view.TotalPages, formatWindow(view))
}

func printResult(w io.Writer, result maps.GeocodeResult) {
	fmt.Fprintln(w, result.Address)
	fmt.Fprintln(w, maps.FormatCoordinates(result.Lat, result.Lng))
	fmt.Fprintln(w, maps.MapsLink(result.Lat, result.Lng))
}

// formatWindow renders the page buttons with the current page in brackets.
func formatWindow(view session.PageView) string {
	parts := make([]string, 0, len(view.Window))
	for _, button := range view.Window {
		if !button.Ellipsis && button.Page == view.CurrentPage {
			parts = append(parts, "["+button.String()+"]")
			continue
		}
		parts = append(parts, button.String())
	}
	return strings.Join(parts, " ")
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timestampLayout)
}
