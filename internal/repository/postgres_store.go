package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-guardian-tools/internal/models"
	"github.com/noah-isme/sma-guardian-tools/pkg/filter"
)

const idColumn = "id"

// PostgresStore serves the record-store contract from PostgreSQL tables that
// carry an "id" primary key plus one column per record field.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Find returns rows of table matching expr.
func (s *PostgresStore) Find(ctx context.Context, table string, expr filter.Expr, opts models.FindOptions) ([]models.Record, error) {
	tableIdent, err := filter.Ident(table)
	if err != nil {
		return nil, err
	}

	columns := "*"
	if len(opts.Fields) > 0 {
		quoted := make([]string, 0, len(opts.Fields)+1)
		quoted = append(quoted, `"`+idColumn+`"`)
		for _, f := range opts.Fields {
			col, err := filter.Ident(f)
			if err != nil {
				return nil, err
			}
			quoted = append(quoted, col)
		}
		columns = strings.Join(quoted, ", ")
	}

	where, args, err := filter.SQL(expr, 1)
	if err != nil {
		return nil, fmt.Errorf("build filter for %s: %w", table, err)
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", columns, tableIdent, where)
	if len(opts.Sort) > 0 {
		terms := make([]string, 0, len(opts.Sort))
		for _, sf := range opts.Sort {
			col, err := filter.Ident(sf.Field)
			if err != nil {
				return nil, err
			}
			dir := "ASC"
			if sf.Direction == models.SortDesc {
				dir = "DESC"
			}
			terms = append(terms, col+" "+dir)
		}
		query += " ORDER BY " + strings.Join(terms, ", ")
	}
	if opts.MaxRecords > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.MaxRecords)
	}

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", table, err)
	}
	defer rows.Close()

	records := make([]models.Record, 0)
	for rows.Next() {
		row := map[string]interface{}{}
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		records = append(records, rowToRecord(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return records, nil
}

// Create inserts one row. A uuid id is generated when fields carry none.
func (s *PostgresStore) Create(ctx context.Context, table string, fields map[string]interface{}) (*models.Record, error) {
	tableIdent, err := filter.Ident(table)
	if err != nil {
		return nil, err
	}

	values := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		values[k] = v
	}
	if _, ok := values[idColumn]; !ok {
		values[idColumn] = uuid.NewString()
	}

	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}
	sort.Strings(names)

	cols := make([]string, 0, len(names))
	placeholders := make([]string, 0, len(names))
	args := make([]interface{}, 0, len(names))
	for i, name := range names {
		col, err := filter.Ident(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, values[name])
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		tableIdent, strings.Join(cols, ", "), strings.Join(placeholders, ", "))

	row := map[string]interface{}{}
	if err := s.db.QueryRowxContext(ctx, query, args...).MapScan(row); err != nil {
		return nil, fmt.Errorf("create %s: %w", table, err)
	}
	rec := rowToRecord(row)
	return &rec, nil
}

func rowToRecord(row map[string]interface{}) models.Record {
	rec := models.Record{Fields: make(map[string]interface{}, len(row))}
	for k, v := range row {
		v = normalizeValue(v)
		if k == idColumn {
			rec.ID = fmt.Sprint(v)
			continue
		}
		rec.Fields[k] = v
	}
	return rec
}

func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format("2006-01-02")
		}
		return t.UTC().Format(time.RFC3339)
	default:
		return v
	}
}
