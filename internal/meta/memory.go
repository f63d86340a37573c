package meta

import (
	"context"
	"fmt"
	"sync"

	"github.com/pizdarikihq/teable/internal/models"
	apperrors "github.com/pizdarikihq/teable/pkg/errors"
)

// Memory is an in-process Repository for tests and embedded use. Fields and
// views keep insertion order, matching the stable ordering contract of the
// SQL repository.
type Memory struct {
	mu     sync.RWMutex
	tables map[string]*models.Table
	fields map[string][]models.Field
	views  map[string][]models.View
}

// NewMemory creates an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		tables: make(map[string]*models.Table),
		fields: make(map[string][]models.Field),
		views:  make(map[string][]models.View),
	}
}

// AddTable registers a table with its fields and views.
func (m *Memory) AddTable(table models.Table, fields []models.Field, views []models.View) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := table
	m.tables[table.ID] = &t
	m.fields[table.ID] = append([]models.Field(nil), fields...)
	m.views[table.ID] = append([]models.View(nil), views...)
}

// GetTable retrieves a table definition by id
func (m *Memory) GetTable(ctx context.Context, tableID string) (*models.Table, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tables[tableID]
	if !ok {
		return nil, apperrors.NotFound(fmt.Sprintf("table %s not found", tableID))
	}
	copied := *t
	return &copied, nil
}

// GetFields retrieves a table's fields in insertion order
func (m *Memory) GetFields(ctx context.Context, tableID string) ([]models.Field, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Field(nil), m.fields[tableID]...), nil
}

// GetViews retrieves a table's views in insertion order
func (m *Memory) GetViews(ctx context.Context, tableID string) ([]models.View, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.View(nil), m.views[tableID]...), nil
}
