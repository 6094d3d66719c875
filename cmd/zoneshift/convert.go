package main

import (
	"fmt"
	"io"
	"time"

	"github.com/aleister1102/zoneshift/internal/batch"
	"github.com/aleister1102/zoneshift/internal/timezone"
	"github.com/spf13/cobra"
)

// formatFlags selects the pattern used to read localized literals and to
// render the result.
type formatFlags struct {
	pattern string
	locale  string
}

func (f *formatFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.pattern, "pattern", "", "CLDR pattern for reading and rendering (default: configured format)")
	cmd.Flags().StringVar(&f.locale, "pattern-locale", "", "locale paired with --pattern")
}

func (f formatFlags) spec() timezone.FormatSpec {
	if f.locale != "" {
		return timezone.FormatWithLocale(f.pattern, f.locale)
	}
	return timezone.Format(f.pattern)
}

var (
	convertTZ      string
	convertFormat  formatFlags
	convertVerbose bool
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a single value to or from the storage timezone",
}

var convertToStorageCmd = &cobra.Command{
	Use:   "to-storage VALUE",
	Short: "Read VALUE in a display timezone and print it in the storage timezone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, batch.ToStorage, args[0])
	},
}

var convertFromStorageCmd = &cobra.Command{
	Use:   "from-storage VALUE",
	Short: "Read VALUE in the storage timezone and print it in a display timezone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, batch.FromStorage, args[0])
	},
}

func init() {
	convertCmd.PersistentFlags().StringVar(&convertTZ, "tz", "", "display timezone for this value (default: configured display timezone)")
	convertCmd.PersistentFlags().BoolVarP(&convertVerbose, "verbose", "v", false, "also print the timezone and the instant")
	convertFormat.register(convertToStorageCmd)
	convertFormat.register(convertFromStorageCmd)

	convertCmd.AddCommand(convertToStorageCmd, convertFromStorageCmd)
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, direction batch.Direction, raw string) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	start := time.Now()
	err = writeConversion(cmd.OutOrStdout(), a.Engine(), direction, argValue(raw), convertTZ, convertFormat.spec(), convertVerbose)
	a.Metrics.ObserveConversion(direction.String(), start, err)
	return err
}

func writeConversion(w io.Writer, e *timezone.Engine, direction batch.Direction, value any, tz string, spec timezone.FormatSpec, verbose bool) error {
	var (
		m   timezone.Moment
		err error
	)
	if direction == batch.FromStorage {
		m, err = e.ConvertFromStorage(value, tz, spec)
	} else {
		m, err = e.ConvertToStorage(value, tz, spec)
	}
	if err != nil {
		return err
	}

	rendered, err := e.Render(m, spec)
	if err != nil {
		return err
	}
	if verbose {
		_, err = fmt.Fprintf(w, "%s\t%s\t%s\n", rendered, m.Timezone(), m.Time().Format(time.RFC3339Nano))
		return err
	}
	_, err = fmt.Fprintln(w, rendered)
	return err
}
