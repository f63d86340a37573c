package record

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pizdarikihq/teable/internal/models"
	apperrors "github.com/pizdarikihq/teable/pkg/errors"
)

// ResolvedField pairs a logical field id with its physical column. The
// resolver's output order is reused for both the insert column list and the
// value matrix, so the two can never drift apart.
type ResolvedField struct {
	ID     string
	Column string
}

// resolveFields filters a table's fields down to the requested ids,
// preserving the repository's stable field order. Any requested id that does
// not resolve fails the whole set: creation batches are all-or-nothing.
func resolveFields(fields []models.Field, fieldIDs []string) ([]ResolvedField, error) {
	requested := make(map[string]bool, len(fieldIDs))
	for _, id := range fieldIDs {
		requested[id] = true
	}

	resolved := make([]ResolvedField, 0, len(requested))
	for _, f := range fields {
		if requested[f.ID] {
			resolved = append(resolved, ResolvedField{ID: f.ID, Column: f.DBFieldName})
			delete(requested, f.ID)
		}
	}

	if len(requested) > 0 {
		missing := make([]string, 0, len(requested))
		for id := range requested {
			missing = append(missing, id)
		}
		sort.Strings(missing)
		return nil, apperrors.FieldNotFound(fmt.Sprintf("unknown field ids: %s", strings.Join(missing, ", ")))
	}
	return resolved, nil
}

// resolveAllFields maps every field of a table, in repository order.
func resolveAllFields(fields []models.Field) []ResolvedField {
	resolved := make([]ResolvedField, len(fields))
	for i, f := range fields {
		resolved[i] = ResolvedField{ID: f.ID, Column: f.DBFieldName}
	}
	return resolved
}

// collectFieldIDs gathers every field id referenced anywhere in a batch.
func collectFieldIDs(batch []RecordInput) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, in := range batch {
		for id := range in.Fields {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}
