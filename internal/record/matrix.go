package record

import (
	"time"

	"github.com/pizdarikihq/teable/internal/models"
)

// RecordInput is one record of a creation batch, keyed by field id. Fields
// absent from the map are stored as null. Values are passed through as-is;
// type and shape problems surface only at execution time.
type RecordInput struct {
	Fields map[string]any
}

// valueMatrix is the fully assembled multi-row write for one batch: the
// ordered column list and one value vector per record. The whole matrix is
// built before any statement executes, so a batch is exactly one INSERT.
type valueMatrix struct {
	columns   []string
	rows      [][]any
	recordIDs []string
}

// buildValueMatrix assembles the per-row vectors for a batch. Column layout:
// resolved user columns, then one order column per view (all carrying
// base+i — every view shares identical ordering at creation), then the
// system columns.
func buildValueMatrix(
	batch []RecordInput,
	resolved []ResolvedField,
	views []models.View,
	base int64,
	createdBy string,
	now time.Time,
	newID func() string,
) valueMatrix {
	columns := make([]string, 0, len(resolved)+len(views)+5)
	for _, f := range resolved {
		columns = append(columns, f.Column)
	}
	for _, v := range views {
		columns = append(columns, v.OrderColumn())
	}
	columns = append(columns,
		models.ColID,
		models.ColAutoNumber,
		models.ColCreatedTime,
		models.ColCreatedBy,
		models.ColVersion,
	)

	createdMillis := now.UnixMilli()

	rows := make([][]any, len(batch))
	ids := make([]string, len(batch))
	for i, in := range batch {
		row := make([]any, 0, len(columns))
		for _, f := range resolved {
			if v, ok := in.Fields[f.ID]; ok {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}
		order := float64(base + int64(i))
		for range views {
			row = append(row, order)
		}

		id := newID()
		ids[i] = id
		row = append(row, id, base+int64(i), createdMillis, createdBy, int64(1))
		rows[i] = row
	}

	return valueMatrix{columns: columns, rows: rows, recordIDs: ids}
}
