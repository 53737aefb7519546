package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/noah-isme/sma-guardian-tools/internal/models"
	"github.com/noah-isme/sma-guardian-tools/pkg/filter"
)

type findCall struct {
	table string
	expr  filter.Expr
	opts  models.FindOptions
}

// memStore evaluates filters in memory so scoping rules are exercised end to end.
type memStore struct {
	mu        sync.Mutex
	tables    map[string][]models.Record
	finds     []findCall
	created   map[string][]map[string]interface{}
	findErr   error
	createErr error
	seq       int
}

func newMemStore() *memStore {
	return &memStore{tables: map[string][]models.Record{}, created: map[string][]map[string]interface{}{}}
}

func (m *memStore) add(table string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.tables[table] = append(m.tables[table], models.Record{ID: fmt.Sprintf("rec%d", m.seq), Fields: fields})
}

func (m *memStore) Find(ctx context.Context, table string, expr filter.Expr, opts models.FindOptions) ([]models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finds = append(m.finds, findCall{table: table, expr: expr, opts: opts})
	if m.findErr != nil {
		return nil, m.findErr
	}
	out := make([]models.Record, 0)
	for _, r := range m.tables[table] {
		ok, err := filter.Match(expr, r.Fields)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r)
		}
	}
	for i := len(opts.Sort) - 1; i >= 0; i-- {
		sf := opts.Sort[i]
		sort.SliceStable(out, func(a, b int) bool {
			if sf.Direction == models.SortDesc {
				return out[a].String(sf.Field) > out[b].String(sf.Field)
			}
			return out[a].String(sf.Field) < out[b].String(sf.Field)
		})
	}
	if opts.MaxRecords > 0 && len(out) > opts.MaxRecords {
		out = out[:opts.MaxRecords]
	}
	return out, nil
}

func (m *memStore) Create(ctx context.Context, table string, fields map[string]interface{}) (*models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.seq++
	rec := models.Record{ID: fmt.Sprintf("rec%d", m.seq), Fields: fields}
	m.tables[table] = append(m.tables[table], rec)
	m.created[table] = append(m.created[table], fields)
	return &rec, nil
}

func (m *memStore) lastFind() findCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.finds[len(m.finds)-1]
}

// seedSchool loads two guardians with disjoint families.
func seedSchool() *memStore {
	s := newMemStore()
	s.add(models.TableGuardians, map[string]interface{}{
		"guardian_id": "G1", "first_name": "Pat", "last_name": "Lee",
		"email": " parent@example.com ", "phone": "+15551234567", "pin": "1234",
	})
	s.add(models.TableGuardians, map[string]interface{}{
		"guardian_id": "G2", "first_name": "Sam", "last_name": "Ortiz",
		"email": "other@example.com", "phone": "+15559876543", "pin": "9999",
	})
	s.add(models.TableStudents, map[string]interface{}{
		"student_id": "S1", "first_name": "Jane", "last_name": "Lee", "grade": float64(4), "class": "4A", "guardian_id": "G1",
	})
	s.add(models.TableStudents, map[string]interface{}{
		"student_id": "S2", "first_name": "Jack", "last_name": "Lee", "grade": "7", "class": "7B", "guardian_id": "G1",
	})
	s.add(models.TableStudents, map[string]interface{}{
		"student_id": "S3", "first_name": "Mia", "last_name": "Ortiz", "grade": float64(10), "class": "10C", "guardian_id": "G2",
	})
	s.add(models.TableAbsences, map[string]interface{}{"student_id": "S1", "date": "2024-02-01", "reason": "Flu", "status": "approved"})
	s.add(models.TableAbsences, map[string]interface{}{"student_id": "S2", "date": "2024-03-15", "reason": "Dentist", "status": "pending"})
	s.add(models.TableAbsences, map[string]interface{}{"student_id": "S1", "date": "2023-11-20", "reason": "Trip", "status": "denied"})
	s.add(models.TableAbsences, map[string]interface{}{"student_id": "S3", "date": "2024-03-20", "reason": "Family", "status": "pending"})
	s.add(models.TableFieldTrips, map[string]interface{}{"trip_id": "T1", "name": "Zoo", "grade_levels": "3-5", "date": "2024-05-01"})
	s.add(models.TableFieldTrips, map[string]interface{}{"trip_id": "T2", "name": "Museum", "grade_levels": "9-12", "date": "2024-05-10"})
	s.add(models.TableFieldTrips, map[string]interface{}{"trip_id": "T3", "name": "Farm", "grade_levels": "6-8", "date": "2024-06-01"})
	return s
}

type metricsStub struct {
	rejections int
	failures   int
	storeCalls []string
}

func (m *metricsStub) IncAuthRejection() { m.rejections++ }
func (m *metricsStub) IncLimiterFailure() { m.failures++ }
func (m *metricsStub) ObserveStoreCall(table, op string, _ time.Duration) {
	m.storeCalls = append(m.storeCalls, table+":"+op)
}
