package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aleister1102/zoneshift/internal/catalog"
	"github.com/spf13/cobra"
)

var (
	zonesJSON    bool
	zonesRefresh bool
)

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "List the timezone catalog with current UTC offsets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if zonesRefresh {
			if err := a.Catalog.Invalidate(cmd.Context()); err != nil {
				return err
			}
		}
		entries, err := a.Engine().Timezones(cmd.Context())
		if err != nil {
			return err
		}
		return writeZones(cmd.OutOrStdout(), entries, zonesJSON)
	},
}

func init() {
	zonesCmd.Flags().BoolVar(&zonesJSON, "json", false, "print JSON instead of labels")
	zonesCmd.Flags().BoolVar(&zonesRefresh, "refresh", false, "drop the cached catalog before listing")
	rootCmd.AddCommand(zonesCmd)
}

func writeZones(w io.Writer, entries []catalog.Entry, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", e.ID, e.Label); err != nil {
			return err
		}
	}
	return nil
}
