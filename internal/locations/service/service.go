package service

import (
	"context"
	"strconv"
	"strings"

	"pinmap/internal/locations/repository"
	"pinmap/internal/locations/transport"
	"pinmap/platform/apperr"
	"pinmap/platform/logger"
	"pinmap/platform/sanitize"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500

	MsgInvalidPayload = "Invalid request payload"
	MsgLoadFailed     = "Failed to load locations"
	MsgSaveFailed     = "Failed to save location"
)

// Service handles location business logic.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new locations service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// List returns a page of saved locations, newest first.
func (s *Service) List(ctx context.Context, req transport.ListLocationsRequest) ([]transport.LocationResponse, error) {
	params := repository.ListParams{
		Limit:  ParseLimit(req.Limit),
		Offset: ParseOffset(req.Offset),
	}

	locations, err := s.repo.List(ctx, params)
	if err != nil {
		s.log.WithContext(ctx).DatabaseError("list locations", err)
		return nil, apperr.Wrap(apperr.KindInternal, MsgLoadFailed, err)
	}

	out := make([]transport.LocationResponse, 0, len(locations))
	for _, loc := range locations {
		out = append(out, toResponse(loc))
	}
	return out, nil
}

// Create stores a new location. The address is stripped of markup and
// surrounding whitespace before it is persisted.
func (s *Service) Create(ctx context.Context, req transport.CreateLocationRequest) (transport.LocationResponse, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return transport.LocationResponse{}, apperr.BadRequest(MsgInvalidPayload)
	}

	address := sanitize.Address(req.Address)
	if address == "" {
		return transport.LocationResponse{}, apperr.BadRequest(MsgInvalidPayload)
	}

	loc, err := s.repo.Create(ctx, repository.CreateParams{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Address:   address,
	})
	if err != nil {
		s.log.WithContext(ctx).DatabaseError("create location", err)
		return transport.LocationResponse{}, apperr.Wrap(apperr.KindInternal, MsgSaveFailed, err)
	}

	s.log.WithContext(ctx).Info("location saved", "id", loc.ID)
	return toResponse(loc), nil
}

// ParseLimit converts a raw limit query value. Missing, unparsable or
// non-positive values yield DefaultListLimit; larger values are capped at MaxListLimit.
func ParseLimit(raw string) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}

// ParseOffset converts a raw offset query value, never returning less than zero.
func ParseOffset(raw string) int {
	offset, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

func toResponse(loc repository.Location) transport.LocationResponse {
	return transport.LocationResponse{
		ID:        loc.ID,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Address:   loc.Address,
		CreatedAt: loc.CreatedAt,
	}
}
