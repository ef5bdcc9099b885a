package normalize

import (
	"fmt"

	"github.com/satishbabariya/sqlshim/backend"
)

// Row maps column names to values. Byte slices are returned as strings.
type Row map[string]any

// Fetch reads every row eagerly and closes rows.
func Fetch(rows backend.Rows) (cols []Column, out []Row, err error) {
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close rows: %w", cerr)
		}
	}()

	meta, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get columns: %w", err)
	}
	cols = Columns(meta)

	out = make([]Row, 0)
	for rows.Next() {
		values := make([]any, len(meta))
		pointers := make([]any, len(meta))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(Row, len(meta))
		for i, m := range meta {
			if b, ok := values[i].([]byte); ok {
				row[m.Name] = string(b)
				continue
			}
			row[m.Name] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate rows: %w", err)
	}
	return cols, out, nil
}

// Window is a client-side LIMIT/OFFSET.
type Window struct {
	Offset int
	Count  int
}

// Apply returns rows[Offset : Offset+Count], clamped to the slice bounds.
// A negative Count keeps every row after Offset.
func (w Window) Apply(rows []Row) []Row {
	from := w.Offset
	if from < 0 {
		from = 0
	}
	if from > len(rows) {
		from = len(rows)
	}
	to := len(rows)
	if w.Count >= 0 && from+w.Count < to {
		to = from + w.Count
	}
	return rows[from:to]
}
