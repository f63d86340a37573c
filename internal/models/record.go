package models

import "time"

// Reserved system columns, managed by the engine and never user-editable.
const (
	ColID               = "__id"
	ColVersion          = "__version"
	ColAutoNumber       = "__auto_number"
	ColCreatedTime      = "__created_time"
	ColCreatedBy        = "__created_by"
	ColLastModifiedTime = "__last_modified_time"
	ColLastModifiedBy   = "__last_modified_by"
)

// RowOrderPrefix prefixes every per-view order column.
const RowOrderPrefix = "__row_"

// OrderColumn returns the physical order column for a view.
func OrderColumn(viewID string) string {
	return RowOrderPrefix + viewID
}

// SystemColumns lists every reserved column name.
var SystemColumns = []string{
	ColID,
	ColVersion,
	ColAutoNumber,
	ColCreatedTime,
	ColCreatedBy,
	ColLastModifiedTime,
	ColLastModifiedBy,
}

// Table represents a user-defined logical table backed by one physical table.
type Table struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DBTableName string `json:"db_table_name"`
}

// Field represents a logical field mapped onto one physical column.
// The mapping is immutable once created.
type Field struct {
	ID          string `json:"id"`
	TableID     string `json:"table_id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	DBFieldName string `json:"db_field_name"`
}

// View represents one display ordering of a table. Every view owns exactly
// one physical order column, named by convention from the view id.
type View struct {
	ID      string `json:"id"`
	TableID string `json:"table_id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
}

// OrderColumn returns the view's physical order column.
func (v View) OrderColumn() string {
	return OrderColumn(v.ID)
}

// Record is a logical row read back from a physical table.
type Record struct {
	ID               string             `json:"id"`
	Version          int64              `json:"version"`
	AutoNumber       int64              `json:"auto_number"`
	CreatedTime      time.Time          `json:"created_time"`
	CreatedBy        string             `json:"created_by"`
	LastModifiedTime *time.Time         `json:"last_modified_time,omitempty"`
	LastModifiedBy   string             `json:"last_modified_by,omitempty"`
	Fields           map[string]any     `json:"fields"`
	Orders           map[string]float64 `json:"orders"`
}
