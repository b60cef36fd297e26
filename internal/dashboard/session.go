package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"hisdash/internal/analytics"
	"hisdash/internal/formatter"
	"hisdash/internal/logger"
	"hisdash/internal/models"
	"hisdash/internal/normalizer"
	"hisdash/internal/source"
	"hisdash/pkg/metadata"
)

// Session errors.
var (
	ErrNoDataset     = errors.New("no dataset loaded")
	ErrUnknownRollup = errors.New("unknown rollup")
)

// Dataset is one immutable load: the canonical records and where they came from.
type Dataset struct {
	Records []models.CanonicalRecord
	Meta    *metadata.Metadata
	Options models.FilterOptions
}

// Session serves snapshots of the current dataset. A load replaces the dataset
// wholesale; a rejected load leaves the previous one in place.
type Session struct {
	client    *source.Client
	processor *normalizer.Processor
	opts      analytics.Options
	log       *logger.Logger
	current   atomic.Pointer[Dataset]
}

// NewSession creates an empty session.
func NewSession(client *source.Client, opts analytics.Options, log *logger.Logger) *Session {
	return NewSessionWithProcessor(client, normalizer.NewProcessor(), opts, log)
}

// NewSessionWithProcessor creates an empty session with an injected processor.
func NewSessionWithProcessor(client *source.Client, processor *normalizer.Processor, opts analytics.Options, log *logger.Logger) *Session {
	return &Session{
		client:    client,
		processor: processor,
		opts:      opts,
		log:       log.With("component", "session"),
	}
}

// Load reads the source named by spec and makes it the current dataset.
func (s *Session) Load(ctx context.Context, spec source.Spec) (*Dataset, error) {
	payload, err := s.client.LoadSource(ctx, spec)
	if err != nil {
		s.log.Warn("load failed", "source", spec.Name, "error", err.Error())

		return nil, err
	}

	return s.install(payload)
}

// LoadBytes parses an uploaded payload and makes it the current dataset.
func (s *Session) LoadBytes(name string, content []byte) (*Dataset, error) {
	payload, err := s.client.LoadBytes(name, content)
	if err != nil {
		s.log.Warn("upload rejected", "source", name, "error", err.Error())

		return nil, err
	}

	return s.install(payload)
}

// install makes p the current dataset. A payload whose checksum matches the current
// dataset from the same source is not normalized again.
func (s *Session) install(p *source.Payload) (*Dataset, error) {
	if cur := s.current.Load(); cur != nil && cur.Meta.Source == p.Source && cur.Meta.Kind == p.Kind {
		if err := cur.Meta.Verify(p.Content); err == nil {
			s.log.Info("dataset unchanged", "source", p.Source, "load_id", cur.Meta.LoadID.String())

			return cur, nil
		}
	}

	records, err := s.processor.Process(p.Table)
	if err != nil {
		s.log.Warn("payload rejected", "source", p.Source, "kind", p.Kind, "error", err.Error())

		return nil, fmt.Errorf("load %s: %w", p.Source, err)
	}

	ds := &Dataset{
		Records: records,
		Meta:    metadata.New(p.Source, p.Kind, p.Content, len(records), p.Table.Header),
		Options: analytics.FilterOptions(records),
	}

	s.current.Store(ds)

	s.log.Info("dataset loaded",
		"source", ds.Meta.Source,
		"kind", ds.Meta.Kind,
		"load_id", ds.Meta.LoadID.String(),
		"rows", ds.Meta.Rows,
		"checksum", ds.Meta.Checksum)

	return ds, nil
}

// Current returns the active dataset.
func (s *Session) Current() (*Dataset, error) {
	ds := s.current.Load()
	if ds == nil {
		return nil, ErrNoDataset
	}

	return ds, nil
}

// Snapshot runs the pipeline over the current dataset.
func (s *Session) Snapshot(filters models.FilterState) (Snapshot, error) {
	ds, err := s.Current()
	if err != nil {
		return Snapshot{}, err
	}

	return Compute(ds.Records, filters, s.opts), nil
}

// Report renders the text report for filters.
func (s *Session) Report(filters models.FilterState) (string, error) {
	ds, err := s.Current()
	if err != nil {
		return "", err
	}

	return formatter.FormatReport(Compute(ds.Records, filters, s.opts), ds.Meta), nil
}

// ExportCSV renders the named rollup for filters as CSV.
func (s *Session) ExportCSV(filters models.FilterState, rollup string) (string, error) {
	snap, err := s.Snapshot(filters)
	if err != nil {
		return "", err
	}

	table, ok := snap.Rollups.Table(rollup)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRollup, rollup)
	}

	return formatter.ExportCSV(table), nil
}

// FilterOptions lists the distinct filter values of the current dataset.
func (s *Session) FilterOptions() (models.FilterOptions, error) {
	ds, err := s.Current()
	if err != nil {
		return models.FilterOptions{}, err
	}

	return ds.Options, nil
}
