package models

// RecordDocType tags every record snapshot envelope. The realtime sync
// collaborator routes documents by this value; changing it is a coordinated
// protocol change, never a local edit.
const RecordDocType = "record"

// SnapshotRecord is the field-keyed body of a snapshot. Keys are field ids;
// physical column names never appear here.
type SnapshotRecord struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// SnapshotData carries the record body plus its per-view order map,
// keyed by view id.
type SnapshotData struct {
	Record      SnapshotRecord     `json:"record"`
	RecordOrder map[string]float64 `json:"recordOrder"`
}

// RecordSnapshot is the versioned wire envelope consumed by the realtime
// sync collaborator.
type RecordSnapshot struct {
	ID           string       `json:"id"`
	Version      int64        `json:"version"`
	DocumentType string       `json:"documentType"`
	Data         SnapshotData `json:"data"`
}
