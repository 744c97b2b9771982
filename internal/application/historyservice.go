package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/journeydemo/internal/domain/model"
	"github.com/ericfisherdev/journeydemo/internal/domain/port/driven"
)

// HistoryService manages the list of submitted applications, stored
// most-recent-first as a single JSON array.
type HistoryService struct {
	store driven.SettingsStore
	mu    sync.Mutex
	now   func() time.Time
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(store driven.SettingsStore) *HistoryService {
	return &HistoryService{store: store, now: time.Now}
}

// List returns all records, most recent first. Never returns nil on success.
func (s *HistoryService) List(ctx context.Context) ([]model.ApplicationHistoryRecord, error) {
	var records []model.ApplicationHistoryRecord
	if _, err := loadJSON(ctx, s.store, model.NamespaceHistory, model.KeyApplicationLinks, &records); err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	if records == nil {
		records = []model.ApplicationHistoryRecord{}
	}
	return records, nil
}

// Append prepends record, assigning an ID and submission time when missing.
func (s *HistoryService) Append(ctx context.Context, record model.ApplicationHistoryRecord) (model.ApplicationHistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.SubmittedAt.IsZero() {
		record.SubmittedAt = s.now().UTC()
	}

	records, err := s.List(ctx)
	if err != nil {
		return model.ApplicationHistoryRecord{}, err
	}
	records = append([]model.ApplicationHistoryRecord{record}, records...)

	if err := storeJSON(ctx, s.store, model.NamespaceHistory, model.KeyApplicationLinks, records); err != nil {
		return model.ApplicationHistoryRecord{}, fmt.Errorf("saving history: %w", err)
	}
	return record, nil
}

// Replace overwrites the whole list. Records without an ID get one.
func (s *HistoryService) Replace(ctx context.Context, records []model.ApplicationHistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if records == nil {
		records = []model.ApplicationHistoryRecord{}
	}
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.NewString()
		}
	}

	if err := storeJSON(ctx, s.store, model.NamespaceHistory, model.KeyApplicationLinks, records); err != nil {
		return fmt.Errorf("saving history: %w", err)
	}
	return nil
}

// Clear removes every record.
func (s *HistoryService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(ctx, model.NamespaceHistory); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}
