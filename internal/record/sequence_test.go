package record

import (
	"context"
	"testing"

	"github.com/pizdarikihq/teable/internal/database"
	"github.com/pizdarikihq/teable/internal/sqlgen"
	apperrors "github.com/pizdarikihq/teable/pkg/errors"
)

func TestMaxAllocatorReadsBase(t *testing.T) {
	tests := []struct {
		name string
		base any
		want int64
	}{
		{"empty table", int64(0), 0},
		{"int64", int64(7), 7},
		{"sqlite numeric string", "12", 12},
		{"float", float64(3), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newFakeClient()
			client.queryFn = func(sql string, args []any) ([]database.Row, error) {
				return []database.Row{{"base": tt.base}}, nil
			}
			alloc := NewMaxAllocator(sqlgen.Postgres)
			base, err := alloc.NextBase(context.Background(), client, "visual_tbl1")
			if err != nil {
				t.Fatalf("NextBase failed: %v", err)
			}
			if base != tt.want {
				t.Errorf("base = %d, want %d", base, tt.want)
			}
		})
	}
}

func TestMaxAllocatorIssuesSingleAggregate(t *testing.T) {
	client := newFakeClient()
	client.queryFn = func(sql string, args []any) ([]database.Row, error) {
		return []database.Row{{"base": int64(0)}}, nil
	}
	alloc := NewMaxAllocator(sqlgen.Postgres)
	if _, err := alloc.NextBase(context.Background(), client, "visual_tbl1"); err != nil {
		t.Fatalf("NextBase failed: %v", err)
	}
	if len(client.queries) != 1 {
		t.Fatalf("expected one aggregate read, got %d", len(client.queries))
	}
	want := `SELECT COALESCE(MAX("__auto_number") + 1, 0) AS base FROM "visual_tbl1"`
	if client.queries[0].sql != want {
		t.Errorf("SQL = %s", client.queries[0].sql)
	}
}

func TestMaxAllocatorNoRows(t *testing.T) {
	client := newFakeClient()
	alloc := NewMaxAllocator(sqlgen.Postgres)
	_, err := alloc.NextBase(context.Background(), client, "visual_tbl1")
	if !apperrors.IsKind(err, apperrors.KindStorage) {
		t.Fatalf("expected storage_execution, got %v", err)
	}
}
