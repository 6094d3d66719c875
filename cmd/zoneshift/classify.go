package main

import (
	"fmt"
	"io"

	"github.com/aleister1102/zoneshift/internal/shape"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify VALUE...",
	Short: "Print the shape (timestamp, time, date) of each value",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeShapes(cmd.OutOrStdout(), args)
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func writeShapes(w io.Writer, values []string) error {
	for _, v := range values {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", shape.Classify(v), v); err != nil {
			return err
		}
	}
	return nil
}
