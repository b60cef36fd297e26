package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"hisdash/internal/dashboard"
	"hisdash/internal/models"
	"hisdash/internal/source"
	"hisdash/pkg/metadata"
)

// loadRequest is the JSON form of POST /api/datasets.
type loadRequest struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

type datasetResponse struct {
	Metadata      *metadata.Metadata   `json:"metadata"`
	FilterOptions models.FilterOptions `json:"filterOptions"`
}

func newDatasetResponse(ds *dashboard.Dataset) datasetResponse {
	return datasetResponse{Metadata: ds.Meta, FilterOptions: ds.Options}
}

func (s *Server) health(c echo.Context) error {
	_, err := s.session.Current()

	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"dataset": err == nil,
	})
}

// loadDataset accepts either a multipart upload in field "file" or a JSON spreadsheet link.
func (s *Server) loadDataset(c echo.Context) error {
	var (
		ds  *dashboard.Dataset
		err error
	)

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		ds, err = s.loadUpload(c)
	} else {
		ds, err = s.loadLink(c)
	}

	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, newDatasetResponse(ds))
}

func (s *Server) loadUpload(c echo.Context) (*dashboard.Dataset, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "multipart field \"file\" is required")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "failed to open upload").SetInternal(err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "failed to read upload").SetInternal(err)
	}

	ds, err := s.session.LoadBytes(fh.Filename, content)
	if err != nil {
		return nil, httpError(err)
	}

	return ds, nil
}

func (s *Server) loadLink(c echo.Context) (*dashboard.Dataset, error) {
	var req loadRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if strings.TrimSpace(req.URL) == "" {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "url is required")
	}

	ds, err := s.session.Load(c.Request().Context(), source.Spec{Name: req.Name, URL: strings.TrimSpace(req.URL)})
	if err != nil {
		return nil, httpError(err)
	}

	return ds, nil
}

func (s *Server) currentDataset(c echo.Context) error {
	ds, err := s.session.Current()
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, newDatasetResponse(ds))
}

func (s *Server) dashboard(c echo.Context) error {
	filters, err := bindFilters(c)
	if err != nil {
		return httpError(err)
	}

	snap, err := s.session.Snapshot(filters)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, snap)
}

func (s *Server) filterOptions(c echo.Context) error {
	opts, err := s.session.FilterOptions()
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, opts)
}

func (s *Server) report(c echo.Context) error {
	filters, err := bindFilters(c)
	if err != nil {
		return httpError(err)
	}

	text, err := s.session.Report(filters)
	if err != nil {
		return httpError(err)
	}

	return c.String(http.StatusOK, text)
}

// rollupCSV serves /api/rollups/<name>.csv.
func (s *Server) rollupCSV(c echo.Context) error {
	file := c.Param("file")

	name, ok := strings.CutSuffix(file, ".csv")
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "rollups are served as <name>.csv")
	}

	filters, err := bindFilters(c)
	if err != nil {
		return httpError(err)
	}

	body, err := s.session.ExportCSV(filters, name)
	if err != nil {
		return httpError(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", file))

	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(body))
}
