package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-guardian-tools/internal/models"
	"github.com/noah-isme/sma-guardian-tools/pkg/filter"
)

func newStoreMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresStore(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

func TestPostgresStoreFindScoped(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"id", "student_id", "first_name", "grade", "guardian_id"}).
		AddRow("row-1", "S1", "Jane", int64(5), "G1").
		AddRow("row-2", "S2", "Jack", int64(3), "G1")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "students" WHERE "guardian_id" = $1`)).
		WithArgs("G1").
		WillReturnRows(rows)

	records, err := store.Find(context.Background(), models.TableStudents, filter.Eq("guardian_id", "G1"), models.FindOptions{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "row-1", records[0].ID)
	assert.Equal(t, "Jane", records[0].String("first_name"))
	assert.NotContains(t, records[0].Fields, "id")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreFindSortLimitProjection(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "id", "date", "status" FROM "absences" WHERE (("student_id" = $1 OR "student_id" = $2) AND ("date" >= $3 AND "date" <= $4)) ORDER BY "date" DESC LIMIT 10`)).
		WithArgs("S1", "S2", "2024-01-01", "2024-12-31").
		WillReturnRows(sqlmock.NewRows([]string{"id", "date", "status"}).AddRow("a1", day, "pending"))

	records, err := store.Find(context.Background(), models.TableAbsences,
		filter.And(
			filter.Or(filter.Eq("student_id", "S1"), filter.Eq("student_id", "S2")),
			filter.DateBetween("date", "2024-01-01", "2024-12-31"),
		),
		models.FindOptions{
			MaxRecords: 10,
			Sort:       []models.SortField{{Field: "date", Direction: models.SortDesc}},
			Fields:     []string{"date", "status"},
		})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2024-03-15", records[0].String("date"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreFindEmpty(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "guardians" WHERE "email" = $1 LIMIT 1`)).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}))

	records, err := store.Find(context.Background(), models.TableGuardians, filter.Eq("email", "nobody@example.com"), models.FindOptions{MaxRecords: 1})
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreRejectsBadIdentifiers(t *testing.T) {
	store, _, cleanup := newStoreMock(t)
	defer cleanup()

	_, err := store.Find(context.Background(), `students"; DROP TABLE x; --`, nil, models.FindOptions{})
	assert.ErrorIs(t, err, filter.ErrInvalidField)

	_, err = store.Find(context.Background(), models.TableStudents, nil, models.FindOptions{Sort: []models.SortField{{Field: "date desc, 1"}}})
	assert.ErrorIs(t, err, filter.ErrInvalidField)

	_, err = store.Create(context.Background(), models.TableAbsences, map[string]interface{}{"bad col": "x"})
	assert.ErrorIs(t, err, filter.ErrInvalidField)
}

func TestPostgresStoreCreate(t *testing.T) {
	store, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "absences" ("date", "id", "reason", "reported_by", "status", "student_id") VALUES ($1, $2, $3, $4, $5, $6) RETURNING *`)).
		WithArgs("2024-03-15", sqlmock.AnyArg(), "Doctor appointment", "parent@example.com", "pending", "S1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "date", "reason", "status", "reported_by"}).
			AddRow("new-id", "S1", "2024-03-15", "Doctor appointment", "pending", "parent@example.com"))

	rec, err := store.Create(context.Background(), models.TableAbsences, map[string]interface{}{
		"student_id":  "S1",
		"date":        "2024-03-15",
		"reason":      "Doctor appointment",
		"reported_by": "parent@example.com",
		"status":      "pending",
	})
	require.NoError(t, err)
	assert.Equal(t, "new-id", rec.ID)
	assert.Equal(t, "pending", rec.String("status"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
