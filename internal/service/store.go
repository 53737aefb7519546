package service

import (
	"context"
	"time"

	"github.com/noah-isme/sma-guardian-tools/internal/models"
	"github.com/noah-isme/sma-guardian-tools/pkg/filter"
)

// RecordStore is the gateway to the guardian, student, absence, field trip
// and appointment tables. Find returns an empty slice when nothing matches.
type RecordStore interface {
	Find(ctx context.Context, table string, expr filter.Expr, opts models.FindOptions) ([]models.Record, error)
	Create(ctx context.Context, table string, fields map[string]interface{}) (*models.Record, error)
}

type storeObserver interface {
	ObserveStoreCall(table, op string, duration time.Duration)
}

type instrumentedStore struct {
	next     RecordStore
	observer storeObserver
}

// InstrumentStore times every call of store. A nil store stays nil so the
// services can still report a configuration error.
func InstrumentStore(store RecordStore, observer storeObserver) RecordStore {
	if store == nil || observer == nil {
		return store
	}
	return &instrumentedStore{next: store, observer: observer}
}

func (s *instrumentedStore) Find(ctx context.Context, table string, expr filter.Expr, opts models.FindOptions) ([]models.Record, error) {
	start := time.Now()
	records, err := s.next.Find(ctx, table, expr, opts)
	s.observer.ObserveStoreCall(table, "find", time.Since(start))
	return records, err
}

func (s *instrumentedStore) Create(ctx context.Context, table string, fields map[string]interface{}) (*models.Record, error) {
	start := time.Now()
	rec, err := s.next.Create(ctx, table, fields)
	s.observer.ObserveStoreCall(table, "create", time.Since(start))
	return rec, err
}
