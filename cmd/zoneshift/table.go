package main

import (
	"context"
	"fmt"

	"github.com/aleister1102/zoneshift/internal/batch"
	"github.com/aleister1102/zoneshift/internal/store"
	"github.com/spf13/cobra"
)

var (
	tableDB    string
	tableName  string
	tableWrite bool
	tableFlags collectionFlags
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Convert date columns of a SQLite table",
}

var tableImportCmd = &cobra.Command{
	Use:   "import FILE.json",
	Short: "Insert the records of a JSON array into the table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := readRecords(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		db, err := openTable()
		if err != nil {
			return err
		}
		defer db.Close()

		ids, err := importRecords(cmd.Context(), db, tableName, records)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d records into %s\n", len(ids), tableName)
		return nil
	},
}

var tableConvertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert date columns of every row, writing them back with --write",
	RunE: func(cmd *cobra.Command, _ []string) error {
		req, err := tableFlags.request()
		if err != nil {
			return err
		}
		if len(req.Fields) == 0 {
			req.Fields = store.DateColumns
		}
		db, err := openTable()
		if err != nil {
			return err
		}
		defer db.Close()
		a, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		conv := batch.NewConverter(a.Engine(), appLogger, batch.WithObserver(a.Metrics))
		out, err := convertTable(cmd.Context(), db, conv, tableName, req, tableWrite)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	tableCmd.PersistentFlags().StringVar(&tableDB, "db", "", "SQLite database path (default: store_config.sqlite_db_path)")
	tableCmd.PersistentFlags().StringVar(&tableName, "table", store.DefaultTable, "table name")
	tableConvertCmd.Flags().BoolVar(&tableWrite, "write", false, "write converted values back to the table")
	tableFlags.register(tableConvertCmd)

	tableCmd.AddCommand(tableImportCmd, tableConvertCmd)
	rootCmd.AddCommand(tableCmd)
}

func openTable() (*store.DB, error) {
	path := tableDB
	if path == "" {
		path = globalCfg.StoreConfig.SQLiteDBPath
	}
	return store.NewDB(path, appLogger)
}

func importRecords(ctx context.Context, db *store.DB, table string, records []*batch.MapRecord) ([]int64, error) {
	ids := make([]int64, 0, len(records))
	for i, rec := range records {
		id, err := db.Insert(ctx, table, rec)
		if err != nil {
			return ids, fmt.Errorf("record %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// convertTable converts the rows of table. Rows are written back only when
// write is set; in partial mode failed rows are written unchanged.
func convertTable(ctx context.Context, db *store.DB, conv *batch.Converter, table string, req batch.Request, write bool) (collectionOutput, error) {
	rows, err := db.List(ctx, table, req.Fields)
	if err != nil {
		return collectionOutput{}, err
	}
	out, err := convertRecords(ctx, conv, rows, req)
	if err != nil {
		return collectionOutput{}, err
	}
	if write {
		if err := db.Update(ctx, table, out.Records, req.Fields); err != nil {
			return collectionOutput{}, err
		}
	}
	return out, nil
}
