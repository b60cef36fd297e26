package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"hisdash/internal/models"
)

// Payload kinds.
const (
	KindSheet  = "sheet"
	KindFile   = "file"
	KindUpload = "upload"
	KindQuery  = "query"
)

// ErrEmptySpec indicates a source spec with neither url, file nor query.
var ErrEmptySpec = errors.New("source has no url, file or query")

// Spec names one configured data source. Exactly one of URL, File or Query is used,
// in that order of preference.
type Spec struct {
	Name  string `yaml:"name" json:"name"`
	URL   string `yaml:"url,omitempty" json:"url,omitempty"`
	File  string `yaml:"file,omitempty" json:"file,omitempty"`
	Query string `yaml:"query,omitempty" json:"query,omitempty"`
}

// Payload is a tokenized load together with the bytes it was read from.
type Payload struct {
	Kind    string
	Source  string
	Content []byte
	Table   *models.Table
}

// Client loads payloads from every supported source.
type Client struct {
	scraper  *Scraper
	postgres *PostgresSource
}

// NewClient creates a client with the default scraper and no database.
func NewClient() *Client {
	return &Client{scraper: NewScraper()}
}

// NewClientWithDeps creates a client with injected dependencies. postgres may be nil.
func NewClientWithDeps(scraper *Scraper, postgres *PostgresSource) *Client {
	return &Client{scraper: scraper, postgres: postgres}
}

// LoadURL fetches a spreadsheet link as CSV.
func (c *Client) LoadURL(ctx context.Context, link string) (*Payload, error) {
	exportURL, err := SheetExportURL(link)
	if err != nil {
		return nil, err
	}

	content, err := c.scraper.Fetch(ctx, exportURL)
	if err != nil {
		return nil, err
	}

	return parsePayload(KindSheet, link, content)
}

// LoadFile reads a CSV export from disk.
func (c *Client) LoadFile(path string) (*Payload, error) {
	content, err := ReadLocalFile(path)
	if err != nil {
		return nil, err
	}

	return parsePayload(KindFile, filepath.Base(path), content)
}

// LoadBytes parses an uploaded CSV payload.
func (c *Client) LoadBytes(name string, content []byte) (*Payload, error) {
	return parsePayload(KindUpload, name, content)
}

// LoadQuery runs sql against the configured database.
func (c *Client) LoadQuery(ctx context.Context, sql string) (*Payload, error) {
	if c.postgres == nil {
		return nil, ErrNoDatabase
	}

	table, err := c.postgres.Query(ctx, sql)
	if err != nil {
		return nil, err
	}

	return &Payload{Kind: KindQuery, Source: sql, Content: []byte(sql), Table: table}, nil
}

// LoadSource dispatches on the populated field of spec.
func (c *Client) LoadSource(ctx context.Context, spec Spec) (*Payload, error) {
	var (
		p   *Payload
		err error
	)

	switch {
	case spec.URL != "":
		p, err = c.LoadURL(ctx, spec.URL)
	case spec.File != "":
		p, err = c.LoadFile(spec.File)
	case spec.Query != "":
		p, err = c.LoadQuery(ctx, spec.Query)
	default:
		return nil, fmt.Errorf("%w: %s", ErrEmptySpec, spec.Name)
	}

	if err != nil {
		return nil, err
	}

	if spec.Name != "" {
		p.Source = spec.Name
	}

	return p, nil
}

func parsePayload(kind, name string, content []byte) (*Payload, error) {
	table, err := ParseCSV(DecodeText(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	return &Payload{Kind: kind, Source: name, Content: content, Table: table}, nil
}
