package main

import (
	"strings"

	"github.com/spf13/cobra"

	"hisdash/internal/models"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file|url]",
		Short: "Write one rollup as CSV",
		Long:  "Write one rollup as CSV. Rollups: " + strings.Join(models.RollupNames, ", "),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rollup, _ := cmd.Flags().GetString("rollup")
			output, _ := cmd.Flags().GetString("output")

			cfg, log, err := setup(cmd)
			if err != nil {
				return err
			}

			session, cleanup, err := newSession(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer cleanup()

			spec, err := sourceSpec(cmd.Flags(), args)
			if err != nil {
				return err
			}

			if _, err := session.Load(cmd.Context(), spec); err != nil {
				return err
			}

			filters, err := filterFlags(cmd.Flags())
			if err != nil {
				return err
			}

			body, err := session.ExportCSV(filters, rollup)
			if err != nil {
				return err
			}

			if body != "" {
				body += "\n"
			}

			if err := writeOutput(cmd.OutOrStdout(), output, body); err != nil {
				return err
			}

			if output != "" && output != "-" {
				log.Info("rollup exported", "rollup", rollup, "output", output)
			}

			return nil
		},
	}

	cmd.Flags().StringP("rollup", "r", models.RollupDepartments, "Rollup to export")
	cmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	addSourceFlags(cmd.Flags())
	addFilterFlags(cmd.Flags())

	return cmd
}
