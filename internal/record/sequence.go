package record

import (
	"context"
	"fmt"

	"github.com/pizdarikihq/teable/internal/database"
	"github.com/pizdarikihq/teable/internal/models"
	"github.com/pizdarikihq/teable/internal/sqlgen"
	apperrors "github.com/pizdarikihq/teable/pkg/errors"
)

// SequenceAllocator computes the base auto-number for a creation batch.
// Record i of the batch takes base+i as its auto-number and as its order
// value in every view.
//
// The default implementation is a max-then-add read, which is a
// read-modify-write over a shared counter: it MUST run in the same
// transactional scope as the batch insert, with the backend serializing
// conflicting batches. Backends with a native atomic sequence can substitute
// their own allocator here instead.
type SequenceAllocator interface {
	NextBase(ctx context.Context, s database.Session, physicalTable string) (int64, error)
}

type maxAllocator struct {
	dialect sqlgen.Dialect
}

// NewMaxAllocator creates the aggregate-read allocator: one past the current
// maximum auto-number, 0 on an empty table.
func NewMaxAllocator(d sqlgen.Dialect) SequenceAllocator {
	return maxAllocator{dialect: d}
}

func (a maxAllocator) NextBase(ctx context.Context, s database.Session, physicalTable string) (int64, error) {
	stmt, err := sqlgen.BuildNextBase(a.dialect, physicalTable, models.ColAutoNumber)
	if err != nil {
		return 0, err
	}
	rows, err := s.Query(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return 0, apperrors.Storage(err)
	}
	if len(rows) == 0 {
		return 0, apperrors.Storage(fmt.Errorf("base count query returned no rows"))
	}
	base, err := toInt64(rows[0]["base"])
	if err != nil {
		return 0, apperrors.Storage(fmt.Errorf("bad base count value: %w", err))
	}
	return base, nil
}
