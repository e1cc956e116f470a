package pipeline

import (
	"fmt"
	"slices"
	"strings"

	"caiso-reports/internal/model"
)

// Accumulator is an append-only collection that keeps insertion order.
// Nothing is deduplicated or re-sorted across periods.
type Accumulator[T any] struct {
	rows []T
}

// Add appends rows in order.
func (a *Accumulator[T]) Add(rows ...T) {
	a.rows = append(a.rows, rows...)
}

func (a *Accumulator[T]) Len() int { return len(a.rows) }

// Rows returns the accumulated rows. The slice is shared with the
// accumulator; callers must not modify it.
func (a *Accumulator[T]) Rows() []T { return a.rows }

// TableAccumulator concatenates the data rows of one report table across
// periods. Columns are aligned by name: the header starts as the first
// period's and grows by any column a later period introduces.
type TableAccumulator struct {
	header []string
	rows   Accumulator[[]string]
}

// Add appends t's data rows. It returns a non-empty message when t's
// header differs from the accumulated header. Those rows are remapped onto
// the accumulated columns by name and cells for absent columns are left
// empty.
func (a *TableAccumulator) Add(t model.Table) string {
	if t.Empty() {
		return ""
	}
	if a.header == nil {
		a.header = append([]string(nil), t.Header...)
	}
	if slices.Equal(a.header, t.Header) {
		a.rows.Add(t.Rows...)
		return ""
	}

	mismatch := fmt.Sprintf("header [%s] differs from [%s]", strings.Join(t.Header, ", "), strings.Join(a.header, ", "))
	cols := a.columnsFor(t.Header)
	for _, r := range t.Rows {
		row := make([]string, len(a.header))
		for i, cell := range r {
			if i < len(cols) {
				row[cols[i]] = cell
			} else {
				row = append(row, cell)
			}
		}
		a.rows.Add(row)
	}
	return mismatch
}

// columnsFor maps each name in header to its accumulated column, adding
// columns for names not seen before. Repeated names map to successive
// occurrences. Earlier rows are padded to the new width.
func (a *TableAccumulator) columnsFor(header []string) []int {
	cols := make([]int, len(header))
	used := make(map[int]bool, len(header))
	for i, name := range header {
		cols[i] = -1
		for j, have := range a.header {
			if have == name && !used[j] {
				cols[i] = j
				used[j] = true
				break
			}
		}
		if cols[i] < 0 {
			a.header = append(a.header, name)
			cols[i] = len(a.header) - 1
			used[cols[i]] = true
		}
	}

	for i, r := range a.rows.rows {
		if len(r) < len(a.header) {
			padded := make([]string, len(a.header))
			copy(padded, r)
			a.rows.rows[i] = padded
		}
	}
	return cols
}

func (a *TableAccumulator) Len() int { return a.rows.Len() }

// Table returns the accumulated table.
func (a *TableAccumulator) Table() model.Table {
	return model.Table{Header: a.header, Rows: a.rows.Rows()}
}
