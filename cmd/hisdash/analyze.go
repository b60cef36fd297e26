package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"hisdash/internal/models"
	"hisdash/internal/normalizer"
	"hisdash/internal/source"
)

var errNoSource = errors.New("give a file path or spreadsheet link, or --query")

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [file|url]",
		Short: "Print the billing report for a HIS export",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			snap, text, err := runAnalyze(cmd, args, asJSON)
			if err != nil {
				return err
			}

			if !asJSON {
				fmt.Fprint(cmd.OutOrStdout(), text)

				return nil
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			return enc.Encode(snap)
		},
	}

	cmd.Flags().Bool("json", false, "Print the dashboard snapshot as JSON instead of the text report")
	addSourceFlags(cmd.Flags())
	addFilterFlags(cmd.Flags())

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, asJSON bool) (models.Snapshot, string, error) {
	cfg, log, err := setup(cmd)
	if err != nil {
		return models.Snapshot{}, "", err
	}

	session, cleanup, err := newSession(cmd.Context(), cfg, log)
	if err != nil {
		return models.Snapshot{}, "", err
	}
	defer cleanup()

	spec, err := sourceSpec(cmd.Flags(), args)
	if err != nil {
		return models.Snapshot{}, "", err
	}

	if _, err := session.Load(cmd.Context(), spec); err != nil {
		return models.Snapshot{}, "", err
	}

	filters, err := filterFlags(cmd.Flags())
	if err != nil {
		return models.Snapshot{}, "", err
	}

	if asJSON {
		snap, err := session.Snapshot(filters)

		return snap, "", err
	}

	text, err := session.Report(filters)

	return models.Snapshot{}, text, err
}

func addSourceFlags(fs *pflag.FlagSet) {
	fs.String("query", "", "SQL query against database.url instead of a file or link")
}

// sourceSpec treats an http(s) argument as a spreadsheet link and anything else as a path.
func sourceSpec(fs *pflag.FlagSet, args []string) (source.Spec, error) {
	query, _ := fs.GetString("query")

	switch {
	case len(args) == 1 && (strings.HasPrefix(args[0], "http://") || strings.HasPrefix(args[0], "https://")):
		return source.Spec{URL: args[0]}, nil
	case len(args) == 1:
		return source.Spec{File: args[0]}, nil
	case query != "":
		return source.Spec{Name: "query", Query: query}, nil
	}

	return source.Spec{}, errNoSource
}

func addFilterFlags(fs *pflag.FlagSet) {
	fs.String("start", "", "First day of the date range")
	fs.String("end", "", "Last day of the date range")
	fs.String("department", "", "Department name")
	fs.String("doctor", "", "Doctor name")
	fs.String("group", "", "Service group name")
	fs.String("object-type", "", "Patient object type")
	fs.String("visit-type", "", "Visit type code")
	fs.String("diagnosis", "", "Diagnosis code")
	fs.String("outcome", "", "Treatment outcome")
	fs.String("discharge-status", "", "Discharge status")
	fs.String("service", "", "Service name substring")
}

func filterFlags(fs *pflag.FlagSet) (models.FilterState, error) {
	get := func(name string) string {
		v, _ := fs.GetString(name)

		return strings.TrimSpace(v)
	}

	start, err := flagDate(get("start"), "start")
	if err != nil {
		return models.FilterState{}, err
	}

	end, err := flagDate(get("end"), "end")
	if err != nil {
		return models.FilterState{}, err
	}

	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return models.FilterState{}, fmt.Errorf("--end %s is before --start %s", get("end"), get("start"))
	}

	return models.FilterState{
		StartDate:        start,
		EndDate:          end,
		Department:       get("department"),
		Doctor:           get("doctor"),
		ServiceGroup:     get("group"),
		ObjectType:       get("object-type"),
		VisitTypeCode:    get("visit-type"),
		DiagnosisCode:    get("diagnosis"),
		TreatmentOutcome: get("outcome"),
		DischargeStatus:  get("discharge-status"),
		ServiceName:      get("service"),
	}, nil
}

func flagDate(raw, name string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}

	t, ok := normalizer.ResolveDate(raw)
	if !ok {
		return time.Time{}, fmt.Errorf("--%s %q is not a date", name, raw)
	}

	return t, nil
}

// writeOutput writes content to path, or to w when path is empty or "-".
func writeOutput(w io.Writer, path, content string) error {
	if path == "" || path == "-" {
		_, err := fmt.Fprint(w, content)

		return err
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
