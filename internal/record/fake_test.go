package record

import (
	"context"
	"fmt"

	"github.com/pizdarikihq/teable/internal/database"
	"github.com/pizdarikihq/teable/internal/meta"
	"github.com/pizdarikihq/teable/internal/models"
	"github.com/pizdarikihq/teable/internal/sqlgen"
)

type executed struct {
	sql  string
	args []any
}

// fakeClient scripts query results and records every statement the engine
// issues, so tests can assert on statement text, arguments, and transaction
// bracketing without a live backend.
type fakeClient struct {
	dialect sqlgen.Dialect
	queryFn func(sql string, args []any) ([]database.Row, error)
	execFn  func(sql string, args []any) (int64, error)

	queries []executed
	execs   []executed
	txCount int
}

func newFakeClient() *fakeClient {
	return &fakeClient{dialect: sqlgen.Postgres}
}

func (c *fakeClient) Query(ctx context.Context, sql string, args ...any) ([]database.Row, error) {
	c.queries = append(c.queries, executed{sql: sql, args: args})
	if c.queryFn == nil {
		return nil, nil
	}
	return c.queryFn(sql, args)
}

func (c *fakeClient) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	c.execs = append(c.execs, executed{sql: sql, args: args})
	if c.execFn == nil {
		return 0, nil
	}
	return c.execFn(sql, args)
}

func (c *fakeClient) Dialect() sqlgen.Dialect {
	return c.dialect
}

func (c *fakeClient) WithinTx(ctx context.Context, fn func(database.Session) error) error {
	c.txCount++
	return fn(c)
}

func (c *fakeClient) Close() error {
	return nil
}

// Fixture: one table with two fields and two views.
const (
	testTableID = "tbl1"
	testTable   = "visual_tbl1"
	fieldA      = "fldA"
	fieldB      = "fldB"
	viewX       = "viwX"
	viewY       = "viwY"
)

func newFixtureRepo() *meta.Memory {
	repo := meta.NewMemory()
	repo.AddTable(
		models.Table{ID: testTableID, Name: "Tasks", DBTableName: testTable},
		[]models.Field{
			{ID: fieldA, TableID: testTableID, Name: "Title", Type: "singleLineText", DBFieldName: "field_a"},
			{ID: fieldB, TableID: testTableID, Name: "Points", Type: "number", DBFieldName: "field_b"},
		},
		[]models.View{
			{ID: viewX, TableID: testTableID, Name: "Grid", Type: "grid"},
			{ID: viewY, TableID: testTableID, Name: "Kanban", Type: "kanban"},
		},
	)
	return repo
}

func newTestService(client *fakeClient) *Service {
	svc := NewService(client, newFixtureRepo())
	var n int
	svc.newID = func() string {
		n++
		return fmt.Sprintf("rec%d", n)
	}
	return svc
}
