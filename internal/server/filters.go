package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"hisdash/internal/models"
	"hisdash/internal/normalizer"
)

// bindFilters reads the filter query parameters. Dates accept every format the
// normalizer resolves.
func bindFilters(c echo.Context) (models.FilterState, error) {
	var f models.FilterState

	start, err := queryDate(c, "start")
	if err != nil {
		return f, err
	}

	end, err := queryDate(c, "end")
	if err != nil {
		return f, err
	}

	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return f, fmt.Errorf("%w: end is before start", ErrInvalidFilter)
	}

	f.StartDate = start
	f.EndDate = end
	f.Department = query(c, "department")
	f.Doctor = query(c, "doctor")
	f.ServiceGroup = query(c, "group")
	f.ObjectType = query(c, "object_type")
	f.VisitTypeCode = query(c, "visit_type")
	f.DiagnosisCode = query(c, "diagnosis")
	f.TreatmentOutcome = query(c, "outcome")
	f.DischargeStatus = query(c, "discharge_status")
	f.ServiceName = query(c, "service")

	return f, nil
}

func query(c echo.Context, name string) string {
	return strings.TrimSpace(c.QueryParam(name))
}

func queryDate(c echo.Context, name string) (time.Time, error) {
	raw := query(c, name)
	if raw == "" {
		return time.Time{}, nil
	}

	t, ok := normalizer.ResolveDate(raw)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s=%q is not a date", ErrInvalidFilter, name, raw)
	}

	return t, nil
}
