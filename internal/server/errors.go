package server

import (
	"encoding/csv"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"hisdash/internal/dashboard"
	"hisdash/internal/normalizer"
	"hisdash/internal/source"
)

// ErrInvalidFilter indicates a filter query parameter that cannot be used.
var ErrInvalidFilter = errors.New("invalid filter")

// statusFor maps pipeline errors onto HTTP statuses.
func statusFor(err error) int {
	var parseErr *csv.ParseError

	switch {
	case errors.Is(err, normalizer.ErrMissingColumns),
		errors.Is(err, normalizer.ErrNoRows),
		errors.Is(err, source.ErrEmptyPayload),
		errors.Is(err, source.ErrInvalidSheetURL),
		errors.Is(err, source.ErrEmptySpec),
		errors.Is(err, ErrInvalidFilter),
		errors.As(err, &parseErr):
		return http.StatusBadRequest
	case errors.Is(err, source.ErrSheetNotFound), errors.Is(err, dashboard.ErrUnknownRollup):
		return http.StatusNotFound
	case errors.Is(err, source.ErrSheetPermission):
		return http.StatusForbidden
	case errors.Is(err, dashboard.ErrNoDataset):
		return http.StatusConflict
	case errors.Is(err, source.ErrFetchFailed), errors.Is(err, source.ErrBodyTooLarge):
		return http.StatusBadGateway
	case errors.Is(err, source.ErrNoDatabase):
		return http.StatusServiceUnavailable
	}

	return http.StatusInternalServerError
}

func httpError(err error) *echo.HTTPError {
	return echo.NewHTTPError(statusFor(err), err.Error()).SetInternal(err)
}
