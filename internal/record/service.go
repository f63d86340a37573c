// Package record is the dynamic-table record engine. It maps logical
// field/view metadata onto physical columns, allocates per-row ordering and
// system identifiers, drives the sqlgen statement builder, and reshapes raw
// rows into snapshot documents for the realtime sync collaborator.
package record

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pizdarikihq/teable/internal/database"
	"github.com/pizdarikihq/teable/internal/meta"
	"github.com/pizdarikihq/teable/internal/models"
	"github.com/pizdarikihq/teable/internal/sqlgen"
	apperrors "github.com/pizdarikihq/teable/pkg/errors"
	"github.com/pizdarikihq/teable/pkg/logger"
)

const defaultTake = 10

// Service orchestrates record creation and read-back for user-defined
// tables. It holds no persistent state between calls; batch atomicity comes
// from the storage client's transactional scope.
type Service struct {
	client database.Client
	meta   meta.Repository
	seq    SequenceAllocator
	now    func() time.Time
	newID  func() string
}

// NewService creates a new record Service
func NewService(client database.Client, repo meta.Repository) *Service {
	return &Service{
		client: client,
		meta:   repo,
		seq:    NewMaxAllocator(client.Dialect()),
		now:    time.Now,
		newID:  NewRecordID,
	}
}

// NewRecordID generates a globally unique record id.
func NewRecordID() string {
	return "rec" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

// CreateResult reports the outcome of one creation batch.
type CreateResult struct {
	RecordIDs []string `json:"record_ids"`
	Count     int64    `json:"count"`
}

// ListOptions controls a paginated listing.
type ListOptions struct {
	ViewID  string
	Skip    int
	Take    int
	Filter  *sqlgen.Condition // columns are field ids, rewritten here
	OrderBy []FieldSort
}

// FieldSort is one caller-specified sort key, by field id.
type FieldSort struct {
	FieldID string
	Desc    bool
}

// ListResult carries one page of records plus the table's total row count.
type ListResult struct {
	Records []models.Record `json:"records"`
	Total   int64           `json:"total"`
}

// CreateRecords inserts a batch of records atomically. The sequence
// allocator's read and the multi-row insert run in one transaction, so
// concurrent batches against the same table are serialized by the backend
// and auto-numbers never collide.
func (s *Service) CreateRecords(ctx context.Context, tableID string, batch []RecordInput, createdBy string) (*CreateResult, error) {
	if len(batch) == 0 {
		return &CreateResult{RecordIDs: []string{}}, nil
	}

	table, fields, views, err := s.loadMeta(ctx, tableID)
	if err != nil {
		return nil, err
	}

	resolved, err := resolveFields(fields, collectFieldIDs(batch))
	if err != nil {
		return nil, err
	}

	var result CreateResult
	err = s.client.WithinTx(ctx, func(sess database.Session) error {
		base, err := s.seq.NextBase(ctx, sess, table.DBTableName)
		if err != nil {
			return err
		}

		m := buildValueMatrix(batch, resolved, views, base, createdBy, s.now(), s.newID)
		stmt, err := sqlgen.BuildInsert(s.client.Dialect(), table.DBTableName, m.columns, m.rows)
		if err != nil {
			return fmt.Errorf("failed to build insert: %w", err)
		}

		count, err := sess.Exec(ctx, stmt.SQL, stmt.Args...)
		if err != nil {
			return apperrors.Storage(err)
		}
		result = CreateResult{RecordIDs: m.recordIDs, Count: count}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("records created", "table", tableID, "count", result.Count)
	return &result, nil
}

// ListRecords returns one page of records ordered primarily by the resolved
// view's order column, plus the table's unfiltered total.
func (s *Service) ListRecords(ctx context.Context, tableID string, opts ListOptions) (*ListResult, error) {
	table, fields, views, err := s.loadMeta(ctx, tableID)
	if err != nil {
		return nil, err
	}

	view, err := resolveView(views, opts.ViewID, tableID)
	if err != nil {
		return nil, err
	}

	take := opts.Take
	if take <= 0 {
		take = defaultTake
	}

	columnByField := fieldColumnMap(fields)
	filter, err := rewriteFilter(opts.Filter, columnByField)
	if err != nil {
		return nil, err
	}
	orderBy, err := rewriteSorts(opts.OrderBy, columnByField)
	if err != nil {
		return nil, err
	}

	stmt, err := sqlgen.BuildSelect(s.client.Dialect(), sqlgen.SelectSpec{
		Table:       table.DBTableName,
		Filter:      filter,
		OrderColumn: view.OrderColumn(),
		OrderBy:     orderBy,
		Offset:      opts.Skip,
		Limit:       take,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := s.client.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	countStmt, err := sqlgen.BuildCount(s.client.Dialect(), table.DBTableName)
	if err != nil {
		return nil, fmt.Errorf("failed to build count: %w", err)
	}
	countRows, err := s.client.Query(ctx, countStmt.SQL, countStmt.Args...)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	var total int64
	if len(countRows) > 0 {
		if total, err = toInt64(countRows[0]["total"]); err != nil {
			return nil, apperrors.Storage(fmt.Errorf("bad total count value: %w", err))
		}
	}

	resolved := resolveAllFields(fields)
	records := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, rowToRecord(row, resolved, views))
	}
	return &ListResult{Records: records, Total: total}, nil
}

// GetRecordIDs returns just the record ids of one page, in view order.
// The realtime sync collaborator uses this to page through document ids
// without pulling full rows.
func (s *Service) GetRecordIDs(ctx context.Context, tableID string, opts ListOptions) ([]string, error) {
	table, fields, views, err := s.loadMeta(ctx, tableID)
	if err != nil {
		return nil, err
	}

	view, err := resolveView(views, opts.ViewID, tableID)
	if err != nil {
		return nil, err
	}

	take := opts.Take
	if take <= 0 {
		take = defaultTake
	}

	columnByField := fieldColumnMap(fields)
	filter, err := rewriteFilter(opts.Filter, columnByField)
	if err != nil {
		return nil, err
	}
	orderBy, err := rewriteSorts(opts.OrderBy, columnByField)
	if err != nil {
		return nil, err
	}

	stmt, err := sqlgen.BuildSelect(s.client.Dialect(), sqlgen.SelectSpec{
		Table:       table.DBTableName,
		Projection:  []string{models.ColID},
		Filter:      filter,
		OrderColumn: view.OrderColumn(),
		OrderBy:     orderBy,
		Offset:      opts.Skip,
		Limit:       take,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := s.client.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, toString(row[models.ColID]))
	}
	return ids, nil
}

// GetSnapshots bulk-fetches sync snapshots in the caller's id order.
// projection, when non-empty, limits the field maps to those field ids;
// unknown projection ids are ignored, matching the permissive read contract.
func (s *Service) GetSnapshots(ctx context.Context, tableID string, recordIDs []string, projection []string) ([]models.RecordSnapshot, error) {
	return s.GetSnapshotsIn(ctx, s.client, tableID, recordIDs, projection)
}

// GetSnapshotsIn is GetSnapshots composed into an externally supplied
// transactional scope.
func (s *Service) GetSnapshotsIn(ctx context.Context, sess database.Session, tableID string, recordIDs []string, projection []string) ([]models.RecordSnapshot, error) {
	if len(recordIDs) == 0 {
		return []models.RecordSnapshot{}, nil
	}

	table, fields, views, err := s.loadMeta(ctx, tableID)
	if err != nil {
		return nil, err
	}

	resolved := resolveAllFields(fields)
	if len(projection) > 0 {
		keep := make(map[string]bool, len(projection))
		for _, id := range projection {
			keep[id] = true
		}
		subset := make([]ResolvedField, 0, len(projection))
		for _, f := range resolved {
			if keep[f.ID] {
				subset = append(subset, f)
			}
		}
		resolved = subset
	}

	columns := make([]string, 0, len(resolved)+len(views)+2)
	columns = append(columns, models.ColID, models.ColVersion)
	for _, f := range resolved {
		columns = append(columns, f.Column)
	}
	for _, v := range views {
		columns = append(columns, v.OrderColumn())
	}

	idValues := make([]any, len(recordIDs))
	for i, id := range recordIDs {
		idValues[i] = id
	}
	filter := sqlgen.In(models.ColID, idValues...)

	stmt, err := sqlgen.BuildSelect(s.client.Dialect(), sqlgen.SelectSpec{
		Table:      table.DBTableName,
		Projection: columns,
		Filter:     &filter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := sess.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	return assembleSnapshots(rows, resolved, views, recordIDs), nil
}

func (s *Service) loadMeta(ctx context.Context, tableID string) (*models.Table, []models.Field, []models.View, error) {
	table, err := s.meta.GetTable(ctx, tableID)
	if err != nil {
		return nil, nil, nil, err
	}
	fields, err := s.meta.GetFields(ctx, tableID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load fields: %w", err)
	}
	views, err := s.meta.GetViews(ctx, tableID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load views: %w", err)
	}
	return table, fields, views, nil
}

// resolveView picks the requested view, or the first view the metadata
// repository returns when no id is supplied. That repository's ordering is
// the authority for what "first" means.
func resolveView(views []models.View, viewID, tableID string) (models.View, error) {
	if viewID == "" {
		if len(views) == 0 {
			return models.View{}, apperrors.NotFound(fmt.Sprintf("table %s has no views", tableID))
		}
		return views[0], nil
	}
	for _, v := range views {
		if v.ID == viewID {
			return v, nil
		}
	}
	return models.View{}, apperrors.NotFound(fmt.Sprintf("view %s not found", viewID))
}

func fieldColumnMap(fields []models.Field) map[string]string {
	m := make(map[string]string, len(fields))
	for _, f := range fields {
		m[f.ID] = f.DBFieldName
	}
	return m
}

// rewriteFilter maps field ids in a condition tree to physical columns,
// rejecting ids outside the table's allow-list. Caller input never reaches
// statement text unmapped.
func rewriteFilter(filter *sqlgen.Condition, columnByField map[string]string) (*sqlgen.Condition, error) {
	if filter == nil {
		return nil, nil
	}
	rewritten, err := rewriteCondition(*filter, columnByField)
	if err != nil {
		return nil, err
	}
	return &rewritten, nil
}

func rewriteCondition(c sqlgen.Condition, columnByField map[string]string) (sqlgen.Condition, error) {
	if len(c.Children) > 0 {
		children := make([]sqlgen.Condition, len(c.Children))
		for i, child := range c.Children {
			rewritten, err := rewriteCondition(child, columnByField)
			if err != nil {
				return sqlgen.Condition{}, err
			}
			children[i] = rewritten
		}
		c.Children = children
		return c, nil
	}
	column, ok := columnByField[c.Column]
	if !ok {
		return sqlgen.Condition{}, apperrors.FieldNotFound(fmt.Sprintf("unknown field id in filter: %s", c.Column))
	}
	c.Column = column
	return c, nil
}

func rewriteSorts(sorts []FieldSort, columnByField map[string]string) ([]sqlgen.SortKey, error) {
	if len(sorts) == 0 {
		return nil, nil
	}
	keys := make([]sqlgen.SortKey, len(sorts))
	for i, s := range sorts {
		column, ok := columnByField[s.FieldID]
		if !ok {
			return nil, apperrors.FieldNotFound(fmt.Sprintf("unknown field id in sort: %s", s.FieldID))
		}
		keys[i] = sqlgen.SortKey{Column: column, Desc: s.Desc}
	}
	return keys, nil
}

func rowToRecord(row database.Row, resolved []ResolvedField, views []models.View) models.Record {
	fields := make(map[string]any, len(resolved))
	for _, f := range resolved {
		if v, present := row[f.Column]; present {
			fields[f.ID] = v
		}
	}

	orders := make(map[string]float64, len(views))
	for _, view := range views {
		if v, present := row[view.OrderColumn()]; present {
			if o, err := toFloat64(v); err == nil {
				orders[view.ID] = o
			}
		}
	}

	version, _ := toInt64(row[models.ColVersion])
	autoNumber, _ := toInt64(row[models.ColAutoNumber])

	rec := models.Record{
		ID:          toString(row[models.ColID]),
		Version:     version,
		AutoNumber:  autoNumber,
		CreatedTime: toTimeMillis(row[models.ColCreatedTime]),
		CreatedBy:   toString(row[models.ColCreatedBy]),
		Fields:      fields,
		Orders:      orders,
	}
	if v, present := row[models.ColLastModifiedTime]; present && v != nil {
		t := toTimeMillis(v)
		rec.LastModifiedTime = &t
	}
	if v, present := row[models.ColLastModifiedBy]; present && v != nil {
		rec.LastModifiedBy = toString(v)
	}
	return rec
}
