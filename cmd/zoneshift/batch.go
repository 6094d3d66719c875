package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aleister1102/zoneshift/internal/batch"
	"github.com/spf13/cobra"
)

// collectionFlags are shared by the batch and table commands.
type collectionFlags struct {
	direction string
	fields    []string
	tz        string
	partial   bool
	format    formatFlags
}

func (f *collectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.direction, "direction", "d", "to-storage", "to-storage or from-storage")
	cmd.Flags().StringSliceVarP(&f.fields, "fields", "f", nil, "fields to convert (default: each record's date fields)")
	cmd.Flags().StringVar(&f.tz, "tz", "", "display timezone (default: configured display timezone)")
	cmd.Flags().BoolVar(&f.partial, "partial", false, "convert every record it can instead of stopping at the first failure")
	f.format.register(cmd)
}

func (f *collectionFlags) request() (batch.Request, error) {
	direction, err := batch.ParseDirection(f.direction)
	if err != nil {
		return batch.Request{}, err
	}
	req := batch.Request{
		Direction: direction,
		Fields:    f.fields,
		Timezone:  f.tz,
		Partial:   f.partial,
	}
	if spec := f.format.spec(); !spec.IsZero() {
		req.Format = spec
	}
	return req, nil
}

type collectionOutput struct {
	Records   batch.Collection `json:"records"`
	Converted int              `json:"converted"`
	Failures  []failureOutput  `json:"failures,omitempty"`
}

type failureOutput struct {
	Index int    `json:"index"`
	Field string `json:"field"`
	Error string `json:"error"`
}

func newCollectionOutput(records batch.Collection, report *batch.Report) collectionOutput {
	out := collectionOutput{Records: records, Converted: report.Converted}
	for _, f := range report.Failures {
		out.Failures = append(out.Failures, failureOutput{Index: f.Index, Field: f.Field, Error: f.Err.Error()})
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var batchFlags collectionFlags

var batchCmd = &cobra.Command{
	Use:   "batch FILE.json",
	Short: "Convert date fields of every record in a JSON array",
	Long: "Reads a JSON array of objects from FILE (or stdin when FILE is \"-\"), converts the\n" +
		"requested fields and prints the records with a conversion report.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := readRecords(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		req, err := batchFlags.request()
		if err != nil {
			return err
		}
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		conv := batch.NewConverter(a.Engine(), appLogger, batch.WithObserver(a.Metrics))
		out, err := convertRecords(cmd.Context(), conv, records, req)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	batchFlags.register(batchCmd)
	rootCmd.AddCommand(batchCmd)
}

func readRecords(stdin io.Reader, path string) ([]*batch.MapRecord, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	var records []*batch.MapRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode records from %s: %w", path, err)
	}
	return records, nil
}

func convertRecords(ctx context.Context, conv *batch.Converter, records any, req batch.Request) (collectionOutput, error) {
	out, report, err := conv.Convert(ctx, records, req)
	if err != nil {
		return collectionOutput{}, err
	}
	return newCollectionOutput(out, report), nil
}

