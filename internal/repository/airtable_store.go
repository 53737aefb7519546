package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mehanizm/airtable"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-guardian-tools/internal/models"
	"github.com/noah-isme/sma-guardian-tools/pkg/config"
	"github.com/noah-isme/sma-guardian-tools/pkg/filter"
)

const airtablePageSize = 100

// AirtableStore queries and creates rows in an Airtable base.
type AirtableStore struct {
	client *airtable.Client
	baseID string
	logger *zap.Logger
}

// NewAirtableStore constructs an AirtableStore. A nil httpClient gets one bounded by timeout.
func NewAirtableStore(cfg config.AirtableConfig, httpClient *http.Client, timeout time.Duration, logger *zap.Logger) (*AirtableStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	client := airtable.NewClient(cfg.APIKey)
	client.SetCustomClient(httpClient)
	if cfg.APIURL != "" {
		if err := client.SetBaseURL(strings.TrimRight(cfg.APIURL, "/") + "/v0"); err != nil {
			return nil, fmt.Errorf("airtable base url: %w", err)
		}
	}
	return &AirtableStore{client: client, baseID: cfg.BaseID, logger: logger}, nil
}

// Find returns every row of table matching expr, following pagination until
// opts.MaxRecords rows are collected or the table is exhausted.
func (s *AirtableStore) Find(ctx context.Context, table string, expr filter.Expr, opts models.FindOptions) ([]models.Record, error) {
	if !filter.ValidField(table) {
		return nil, fmt.Errorf("table %q: %w", table, filter.ErrInvalidField)
	}
	formula, err := filter.Formula(expr)
	if err != nil {
		return nil, fmt.Errorf("build formula for %s: %w", table, err)
	}
	sorts := make([]struct {
		FieldName string
		Direction string
	}, 0, len(opts.Sort))
	for _, sf := range opts.Sort {
		if !filter.ValidField(sf.Field) {
			return nil, fmt.Errorf("sort %s: %w", table, filter.ErrInvalidField)
		}
		dir := models.SortAsc
		if sf.Direction == models.SortDesc {
			dir = models.SortDesc
		}
		sorts = append(sorts, struct {
			FieldName string
			Direction string
		}{FieldName: sf.Field, Direction: string(dir)})
	}

	tbl := s.client.GetTable(s.baseID, table)
	records := make([]models.Record, 0)
	offset := ""
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("find %s: %w", table, err)
		}
		query := tbl.GetRecords().PageSize(pageSize(opts.MaxRecords))
		if formula != "" {
			query = query.WithFilterFormula(formula)
		}
		if len(sorts) > 0 {
			query = query.WithSort(sorts...)
		}
		if len(opts.Fields) > 0 {
			query = query.ReturnFields(opts.Fields...)
		}
		if opts.MaxRecords > 0 {
			query = query.MaxRecords(opts.MaxRecords)
		}
		if offset != "" {
			query = query.WithOffset(offset)
		}

		page, err := query.Do()
		if err != nil {
			return nil, fmt.Errorf("find %s: %w", table, err)
		}
		for _, r := range page.Records {
			records = append(records, toRecord(r))
		}
		offset = page.Offset
		if offset == "" || (opts.MaxRecords > 0 && len(records) >= opts.MaxRecords) {
			break
		}
	}
	if opts.MaxRecords > 0 && len(records) > opts.MaxRecords {
		records = records[:opts.MaxRecords]
	}
	s.logger.Debug("airtable find", zap.String("table", table), zap.Int("count", len(records)))
	return records, nil
}

// Create inserts one row into table and returns it as stored.
func (s *AirtableStore) Create(ctx context.Context, table string, fields map[string]interface{}) (*models.Record, error) {
	if !filter.ValidField(table) {
		return nil, fmt.Errorf("table %q: %w", table, filter.ErrInvalidField)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("create %s: %w", table, err)
	}
	created, err := s.client.GetTable(s.baseID, table).AddRecords(&airtable.Records{
		Records:  []*airtable.Record{{Fields: fields}},
		Typecast: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", table, err)
	}
	if created == nil || len(created.Records) == 0 {
		return nil, fmt.Errorf("create %s: no record returned", table)
	}
	rec := toRecord(created.Records[0])
	return &rec, nil
}

func pageSize(maxRecords int) int {
	if maxRecords > 0 && maxRecords < airtablePageSize {
		return maxRecords
	}
	return airtablePageSize
}

func toRecord(r *airtable.Record) models.Record {
	if r == nil {
		return models.Record{Fields: map[string]interface{}{}}
	}
	fields := r.Fields
	if fields == nil {
		fields = map[string]interface{}{}
	}
	return models.Record{ID: r.ID, Fields: fields}
}
