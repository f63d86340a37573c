package meta

import (
	"context"
	"testing"

	"github.com/pizdarikihq/teable/internal/database"
	"github.com/pizdarikihq/teable/internal/models"
	"github.com/pizdarikihq/teable/internal/sqlgen"
	apperrors "github.com/pizdarikihq/teable/pkg/errors"
)

type fakeClient struct {
	queries []string
	rows    map[string][]database.Row // keyed by statement prefix
}

func (c *fakeClient) Query(ctx context.Context, sql string, args ...any) ([]database.Row, error) {
	c.queries = append(c.queries, sql)
	for prefix, rows := range c.rows {
		if len(sql) >= len(prefix) && sql[:len(prefix)] == prefix {
			return rows, nil
		}
	}
	return nil, nil
}

func (c *fakeClient) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	return 0, nil
}

func (c *fakeClient) Dialect() sqlgen.Dialect { return sqlgen.Postgres }

func (c *fakeClient) WithinTx(ctx context.Context, fn func(database.Session) error) error {
	return fn(c)
}

func (c *fakeClient) Close() error { return nil }

func TestSQLRepositoryGetTable(t *testing.T) {
	client := &fakeClient{rows: map[string][]database.Row{
		`SELECT "id", "name", "db_table_name" FROM "table_meta"`: {
			{"id": "tbl1", "name": "Tasks", "db_table_name": "visual_tbl1"},
		},
	}}
	repo := NewSQLRepository(client)

	table, err := repo.GetTable(context.Background(), "tbl1")
	if err != nil {
		t.Fatalf("GetTable failed: %v", err)
	}
	if table.DBTableName != "visual_tbl1" {
		t.Errorf("table = %+v", table)
	}
}

func TestSQLRepositoryGetTableNotFound(t *testing.T) {
	repo := NewSQLRepository(&fakeClient{})
	_, err := repo.GetTable(context.Background(), "tblMissing")
	if !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestSQLRepositoryFieldOrdering(t *testing.T) {
	client := &fakeClient{}
	repo := NewSQLRepository(client)

	if _, err := repo.GetFields(context.Background(), "tbl1"); err != nil {
		t.Fatalf("GetFields failed: %v", err)
	}
	want := `SELECT "id", "table_id", "name", "type", "db_field_name" FROM "field_meta" WHERE "table_id" = $1 ORDER BY "field_order" ASC, "id" ASC`
	if client.queries[0] != want {
		t.Errorf("SQL = %s", client.queries[0])
	}
}

type countingRepo struct {
	Repository
	tableLoads int
	viewLoads  int
}

func (r *countingRepo) GetTable(ctx context.Context, tableID string) (*models.Table, error) {
	r.tableLoads++
	return r.Repository.GetTable(ctx, tableID)
}

func (r *countingRepo) GetViews(ctx context.Context, tableID string) ([]models.View, error) {
	r.viewLoads++
	return r.Repository.GetViews(ctx, tableID)
}

func fixtureMemory() *Memory {
	mem := NewMemory()
	mem.AddTable(
		models.Table{ID: "tbl1", Name: "Tasks", DBTableName: "visual_tbl1"},
		[]models.Field{{ID: "fld1", TableID: "tbl1", DBFieldName: "field_1"}},
		[]models.View{{ID: "viw1", TableID: "tbl1"}, {ID: "viw2", TableID: "tbl1"}},
	)
	return mem
}

func TestCachedServesRepeatsFromCache(t *testing.T) {
	counting := &countingRepo{Repository: fixtureMemory()}
	cached, err := NewCached(counting, 8)
	if err != nil {
		t.Fatalf("NewCached failed: %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := cached.GetTable(ctx, "tbl1"); err != nil {
			t.Fatalf("GetTable failed: %v", err)
		}
		if _, err := cached.GetViews(ctx, "tbl1"); err != nil {
			t.Fatalf("GetViews failed: %v", err)
		}
	}
	if counting.tableLoads != 1 || counting.viewLoads != 1 {
		t.Errorf("loads = %d/%d, want 1/1", counting.tableLoads, counting.viewLoads)
	}
}

func TestCachedInvalidateForcesReload(t *testing.T) {
	counting := &countingRepo{Repository: fixtureMemory()}
	cached, err := NewCached(counting, 8)
	if err != nil {
		t.Fatalf("NewCached failed: %v", err)
	}
	ctx := context.Background()

	cached.GetTable(ctx, "tbl1")
	cached.Invalidate("tbl1")
	cached.GetTable(ctx, "tbl1")
	if counting.tableLoads != 2 {
		t.Errorf("table loads = %d, want 2", counting.tableLoads)
	}
}

func TestCachedDoesNotCacheMisses(t *testing.T) {
	counting := &countingRepo{Repository: fixtureMemory()}
	cached, err := NewCached(counting, 8)
	if err != nil {
		t.Fatalf("NewCached failed: %v", err)
	}
	ctx := context.Background()

	if _, err := cached.GetTable(ctx, "tblMissing"); !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
	if _, err := cached.GetTable(ctx, "tblMissing"); !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Fatalf("expected not_found on repeat, got %v", err)
	}
}

func TestMemoryViewOrderIsStable(t *testing.T) {
	mem := fixtureMemory()
	views, err := mem.GetViews(context.Background(), "tbl1")
	if err != nil {
		t.Fatalf("GetViews failed: %v", err)
	}
	if len(views) != 2 || views[0].ID != "viw1" {
		t.Errorf("views = %+v", views)
	}
}
