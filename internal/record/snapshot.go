package record

import (
	"github.com/pizdarikihq/teable/internal/database"
	"github.com/pizdarikihq/teable/internal/models"
)

// assembleSnapshots reshapes raw fetched rows into sync envelopes, ordered
// exactly by the caller's requested id list. Storage read order is never
// assumed to match request order. Ids with no fetched row are silently
// omitted, so the output may be shorter than the request.
//
// Projection-limited fetches simply carry fewer user columns; a field only
// appears in the output map when its column is present in the row.
func assembleSnapshots(
	rows []database.Row,
	resolved []ResolvedField,
	views []models.View,
	requestedIDs []string,
) []models.RecordSnapshot {
	byID := make(map[string]database.Row, len(rows))
	for _, row := range rows {
		byID[toString(row[models.ColID])] = row
	}

	snapshots := make([]models.RecordSnapshot, 0, len(requestedIDs))
	for _, id := range requestedIDs {
		row, ok := byID[id]
		if !ok {
			continue
		}

		fields := make(map[string]any, len(resolved))
		for _, f := range resolved {
			if v, present := row[f.Column]; present {
				fields[f.ID] = v
			}
		}

		order := make(map[string]float64, len(views))
		for _, view := range views {
			if v, present := row[view.OrderColumn()]; present {
				if o, err := toFloat64(v); err == nil {
					order[view.ID] = o
				}
			}
		}

		version, err := toInt64(row[models.ColVersion])
		if err != nil {
			version = 0
		}

		snapshots = append(snapshots, models.RecordSnapshot{
			ID:           id,
			Version:      version,
			DocumentType: models.RecordDocType,
			Data: models.SnapshotData{
				Record:      models.SnapshotRecord{ID: id, Fields: fields},
				RecordOrder: order,
			},
		})
	}
	return snapshots
}
