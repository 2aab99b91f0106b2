package maps

import (
	"fmt"
	"strconv"
)

// FormatCoordinate renders a coordinate with six decimals.
func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// FormatCoordinates renders a human readable coordinate pair.
func FormatCoordinates(lat, lng float64) string {
	return fmt.Sprintf("Latitude %s, Longitude %s", FormatCoordinate(lat), FormatCoordinate(lng))
}

// MapsLink returns a Google Maps search URL centred on the coordinates.
func MapsLink(lat, lng float64) string {
	return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%s,%s", formatFloat(lat), formatFloat(lng))
}
