package record

import (
	"strings"
	"testing"

	"github.com/pizdarikihq/teable/internal/models"
	apperrors "github.com/pizdarikihq/teable/pkg/errors"
)

var testFields = []models.Field{
	{ID: "fld1", DBFieldName: "field_1"},
	{ID: "fld2", DBFieldName: "field_2"},
	{ID: "fld3", DBFieldName: "field_3"},
}

func TestResolveFieldsKeepsRepositoryOrder(t *testing.T) {
	// Request order must not influence output order.
	resolved, err := resolveFields(testFields, []string{"fld3", "fld1"})
	if err != nil {
		t.Fatalf("resolveFields failed: %v", err)
	}
	if len(resolved) != 2 {
		t.Fatalf("expected 2 resolved fields, got %d", len(resolved))
	}
	if resolved[0].ID != "fld1" || resolved[1].ID != "fld3" {
		t.Errorf("order = %s, %s; want fld1, fld3", resolved[0].ID, resolved[1].ID)
	}
	if resolved[0].Column != "field_1" || resolved[1].Column != "field_3" {
		t.Errorf("columns = %s, %s", resolved[0].Column, resolved[1].Column)
	}
}

func TestResolveFieldsDeduplicates(t *testing.T) {
	resolved, err := resolveFields(testFields, []string{"fld2", "fld2", "fld2"})
	if err != nil {
		t.Fatalf("resolveFields failed: %v", err)
	}
	if len(resolved) != 1 {
		t.Errorf("expected 1 resolved field, got %d", len(resolved))
	}
}

func TestResolveFieldsRejectsUnknown(t *testing.T) {
	_, err := resolveFields(testFields, []string{"fld1", "fldZ", "fldY"})
	if !apperrors.IsKind(err, apperrors.KindFieldNotFound) {
		t.Fatalf("expected field_not_found, got %v", err)
	}
	if !strings.Contains(err.Error(), "fldY, fldZ") {
		t.Errorf("missing ids should be listed deterministically: %v", err)
	}
}

func TestCollectFieldIDs(t *testing.T) {
	batch := []RecordInput{
		{Fields: map[string]any{"fld1": 1, "fld2": 2}},
		{Fields: map[string]any{"fld2": 3, "fld3": 4}},
	}
	ids := collectFieldIDs(batch)
	if len(ids) != 3 {
		t.Errorf("expected 3 distinct ids, got %v", ids)
	}
}
