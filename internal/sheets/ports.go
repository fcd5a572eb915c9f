package sheets

import (
	"context"
	"iter"
)

// RowWriter publishes an export, header first, to an external sheet.
type RowWriter interface {
	// WriteRows replaces the target's contents and returns a reference to
	// the written range.
	WriteRows(ctx context.Context, header []string, rows iter.Seq[[]string]) (ref string, err error)
}
