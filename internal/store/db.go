// Package store keeps records in a SQLite table and exposes its rows as
// batch records so the converter can run over them.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aleister1102/zoneshift/internal/batch"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// DefaultTable is created by InitSchema.
const DefaultTable = "records"

// DateColumns are the date-carrying columns of DefaultTable.
var DateColumns = []string{"timestamp", "datetime", "date", "time"}

// ErrUnknownColumn is returned when a requested field is not a column of the table.
var ErrUnknownColumn = errors.New("unknown column")

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DB wraps the SQL database connection holding record tables.
type DB struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewDB opens the database and ensures the schema is set up. ":memory:"
// opens a private in-memory database.
func NewDB(dataSourceName string, logger zerolog.Logger) (*DB, error) {
	logger = logger.With().Str("component", "RecordStore").Logger()
	logger.Info().Str("db_path", dataSourceName).Msg("Initializing record database connection")

	if dataSourceName != ":memory:" {
		dbDir := filepath.Dir(dataSourceName)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			logger.Error().Err(err).Str("directory", dbDir).Msg("Failed to create record database directory")
			return nil, fmt.Errorf("failed to create record database directory %s: %w", dbDir, err)
		}
	}

	dbInstance, err := sql.Open("sqlite", dataSourceName)
	if err != nil {
		logger.Error().Err(err).Str("db_path", dataSourceName).Msg("Failed to open record database")
		return nil, fmt.Errorf("sql.Open failed for %s: %w", dataSourceName, err)
	}
	// every connection of an in-memory database is a separate database
	dbInstance.SetMaxOpenConns(1)

	db := &DB{
		db:     dbInstance,
		logger: logger,
	}

	if err := db.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	logger.Info().Str("path", dataSourceName).Msg("Database initialized and schema verified.")
	return db, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// InitSchema creates the records table if it doesn't already exist. Date
// columns are TEXT so values round trip exactly as written.
func (d *DB) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL DEFAULT '',
		"timestamp" TEXT,
		"datetime" TEXT,
		"date" TEXT,
		"time" TEXT
	);
	`
	if _, err := d.db.ExecContext(ctx, query); err != nil {
		d.logger.Error().Err(err).Msg("Failed to initialize schema")
		return err
	}
	d.logger.Debug().Msg("Schema initialized (records table ensured)")
	return nil
}

// Columns returns the column names of table in declaration order.
func (d *DB) Columns(ctx context.Context, table string) ([]string, error) {
	if !identifier.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	rows, err := d.db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%q)`, table))
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %s: %w", table, sql.ErrNoRows)
	}
	return cols, nil
}

func (d *DB) checkFields(ctx context.Context, table string, fields []string) error {
	cols, err := d.Columns(ctx, table)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(cols))
	for _, c := range cols {
		known[c] = true
	}
	for _, f := range fields {
		if !known[f] {
			return fmt.Errorf("%s.%s: %w", table, f, ErrUnknownColumn)
		}
	}
	return nil
}

func quoteAll(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = fmt.Sprintf("%q", f)
	}
	return out
}

// Insert adds rec to table and returns the new row id. Every field of rec
// must be a column of table; an "id" field is ignored.
func (d *DB) Insert(ctx context.Context, table string, rec *batch.MapRecord) (int64, error) {
	var (
		cols []string
		args []any
	)
	for _, f := range rec.Fields() {
		if f == "id" {
			continue
		}
		v, _ := rec.Get(f)
		cols = append(cols, f)
		args = append(args, v)
	}
	if err := d.checkFields(ctx, table, cols); err != nil {
		return 0, err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	query := fmt.Sprintf(`INSERT INTO %q (%s) VALUES (%s)`, table, strings.Join(quoteAll(cols), ", "), placeholders)
	result, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		d.logger.Error().Err(err).Str("table", table).Msg("Failed to insert record")
		return 0, fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	_ = rec.Set("id", id)
	return id, nil
}

// List reads id and fields of every row of table. The returned records
// mark fields as their date fields.
func (d *DB) List(ctx context.Context, table string, fields []string) (batch.Collection, error) {
	if err := d.checkFields(ctx, table, fields); err != nil {
		return nil, err
	}

	cols := append([]string{"id"}, fields...)
	query := fmt.Sprintf(`SELECT %s FROM %q ORDER BY id`, strings.Join(quoteAll(cols), ", "), table)
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		d.logger.Error().Err(err).Str("table", table).Msg("Failed to list records")
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	var out batch.Collection
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}

		kv := make([]any, 0, 2*len(cols))
		for i, c := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			kv = append(kv, c, v)
		}
		out = append(out, batch.NewMapRecord(kv...).WithDateFields(fields...))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	d.logger.Debug().Str("table", table).Int("rows", len(out)).Msg("Listed records")
	return out, nil
}

// Update writes fields of every record back to table in one transaction.
// Records are matched on their "id" field.
func (d *DB) Update(ctx context.Context, table string, records batch.Collection, fields []string) error {
	if len(fields) == 0 || len(records) == 0 {
		return nil
	}
	if err := d.checkFields(ctx, table, fields); err != nil {
		return err
	}

	sets := make([]string, len(fields))
	for i, f := range quoteAll(fields) {
		sets[i] = f + " = ?"
	}
	query := fmt.Sprintf(`UPDATE %q SET %s WHERE id = ?`, table, strings.Join(sets, ", "))

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin update of %s: %w", table, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare update of %s: %w", table, err)
	}
	defer stmt.Close()

	for i, rec := range records {
		id, ok := rec.Get("id")
		if !ok || id == nil {
			return fmt.Errorf("record %d of %s has no id", i, table)
		}
		args := make([]any, 0, len(fields)+1)
		for _, f := range fields {
			v, _ := rec.Get(f)
			args = append(args, v)
		}
		args = append(args, id)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			d.logger.Error().Err(err).Str("table", table).Interface("id", id).Msg("Failed to update record")
			return fmt.Errorf("failed to update %s id %v: %w", table, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit update of %s: %w", table, err)
	}
	d.logger.Info().Str("table", table).Int("rows", len(records)).Strs("fields", fields).Msg("Updated records")
	return nil
}
