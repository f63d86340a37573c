package meta

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/pizdarikihq/teable/internal/models"
)

// Cached decorates a Repository with per-table LRU caches. Metadata changes
// rarely relative to record traffic, so the record engine reads through this
// by default; administration flows call Invalidate after altering a table.
type Cached struct {
	inner  Repository
	tables *lru.Cache[string, *models.Table]
	fields *lru.Cache[string, []models.Field]
	views  *lru.Cache[string, []models.View]
}

// NewCached creates a caching decorator holding up to size tables.
func NewCached(inner Repository, size int) (*Cached, error) {
	tables, err := lru.New[string, *models.Table](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create table cache: %w", err)
	}
	fields, err := lru.New[string, []models.Field](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create field cache: %w", err)
	}
	views, err := lru.New[string, []models.View](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create view cache: %w", err)
	}
	return &Cached{inner: inner, tables: tables, fields: fields, views: views}, nil
}

// GetTable retrieves a table definition, from cache when possible.
func (c *Cached) GetTable(ctx context.Context, tableID string) (*models.Table, error) {
	if t, ok := c.tables.Get(tableID); ok {
		return t, nil
	}
	t, err := c.inner.GetTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	c.tables.Add(tableID, t)
	return t, nil
}

// GetFields retrieves a table's fields, from cache when possible.
func (c *Cached) GetFields(ctx context.Context, tableID string) ([]models.Field, error) {
	if f, ok := c.fields.Get(tableID); ok {
		return f, nil
	}
	f, err := c.inner.GetFields(ctx, tableID)
	if err != nil {
		return nil, err
	}
	c.fields.Add(tableID, f)
	return f, nil
}

// GetViews retrieves a table's views, from cache when possible.
func (c *Cached) GetViews(ctx context.Context, tableID string) ([]models.View, error) {
	if v, ok := c.views.Get(tableID); ok {
		return v, nil
	}
	v, err := c.inner.GetViews(ctx, tableID)
	if err != nil {
		return nil, err
	}
	c.views.Add(tableID, v)
	return v, nil
}

// Invalidate drops all cached metadata for one table.
func (c *Cached) Invalidate(tableID string) {
	c.tables.Remove(tableID)
	c.fields.Remove(tableID)
	c.views.Remove(tableID)
}
