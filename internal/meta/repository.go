// Package meta supplies Table/Field/View definitions and their persisted
// physical name mappings. The record engine treats it as the single naming
// authority: it never invents or validates physical names beyond checking
// they exist here.
package meta

import (
	"context"
	"fmt"

	"github.com/pizdarikihq/teable/internal/database"
	"github.com/pizdarikihq/teable/internal/models"
	"github.com/pizdarikihq/teable/internal/sqlgen"
	apperrors "github.com/pizdarikihq/teable/pkg/errors"
)

// Repository loads table metadata. GetViews returns views in their stable
// persisted order; the first one is the table's implicit default view.
type Repository interface {
	GetTable(ctx context.Context, tableID string) (*models.Table, error)
	GetFields(ctx context.Context, tableID string) ([]models.Field, error)
	GetViews(ctx context.Context, tableID string) ([]models.View, error)
}

// SQLRepository reads metadata from the table_meta / field_meta / view_meta
// tables created by migrations.
type SQLRepository struct {
	client database.Client
}

// NewSQLRepository creates a new SQLRepository
func NewSQLRepository(client database.Client) *SQLRepository {
	return &SQLRepository{client: client}
}

// GetTable retrieves a table definition by id
func (r *SQLRepository) GetTable(ctx context.Context, tableID string) (*models.Table, error) {
	filter := sqlgen.Eq("id", tableID)
	stmt, err := sqlgen.BuildSelect(r.client.Dialect(), sqlgen.SelectSpec{
		Table:      "table_meta",
		Projection: []string{"id", "name", "db_table_name"},
		Filter:     &filter,
		Limit:      1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build table query: %w", err)
	}

	rows, err := r.client.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NotFound(fmt.Sprintf("table %s not found", tableID))
	}

	row := rows[0]
	return &models.Table{
		ID:          asString(row["id"]),
		Name:        asString(row["name"]),
		DBTableName: asString(row["db_table_name"]),
	}, nil
}

// GetFields retrieves all fields of a table in their persisted order
func (r *SQLRepository) GetFields(ctx context.Context, tableID string) ([]models.Field, error) {
	filter := sqlgen.Eq("table_id", tableID)
	stmt, err := sqlgen.BuildSelect(r.client.Dialect(), sqlgen.SelectSpec{
		Table:      "field_meta",
		Projection: []string{"id", "table_id", "name", "type", "db_field_name"},
		Filter:     &filter,
		OrderBy: []sqlgen.SortKey{
			{Column: "field_order"},
			{Column: "id"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build field query: %w", err)
	}

	rows, err := r.client.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get fields: %w", err)
	}

	fields := make([]models.Field, 0, len(rows))
	for _, row := range rows {
		fields = append(fields, models.Field{
			ID:          asString(row["id"]),
			TableID:     asString(row["table_id"]),
			Name:        asString(row["name"]),
			Type:        asString(row["type"]),
			DBFieldName: asString(row["db_field_name"]),
		})
	}
	return fields, nil
}

// GetViews retrieves all views of a table in their persisted order
func (r *SQLRepository) GetViews(ctx context.Context, tableID string) ([]models.View, error) {
	filter := sqlgen.Eq("table_id", tableID)
	stmt, err := sqlgen.BuildSelect(r.client.Dialect(), sqlgen.SelectSpec{
		Table:      "view_meta",
		Projection: []string{"id", "table_id", "name", "type"},
		Filter:     &filter,
		OrderBy: []sqlgen.SortKey{
			{Column: "view_order"},
			{Column: "id"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build view query: %w", err)
	}

	rows, err := r.client.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get views: %w", err)
	}

	views := make([]models.View, 0, len(rows))
	for _, row := range rows {
		views = append(views, models.View{
			ID:      asString(row["id"]),
			TableID: asString(row["table_id"]),
			Name:    asString(row["name"]),
			Type:    asString(row["type"]),
		})
	}
	return views, nil
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
