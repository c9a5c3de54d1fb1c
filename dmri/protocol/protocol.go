// Package protocol stores diffusion MRI acquisition schemes as tables
// of named columns and derives the quantities models need from
// whichever columns were actually measured. All values are in SI
// units: b in s/m^2, gradient amplitude in T/m, times in seconds.
//
// Columns come in two kinds. Real columns hold loaded data. Virtual
// columns (b, Delta, delta, G) are derived on demand from the stored
// ones through the pulse sequence relations; a real column of the same
// name always wins.
package protocol

import (
	"fmt"
	"sort"

	"github.com/cwbudde/algo-dmri/dmri/core"
)

// DefaultUnweightedThreshold is the diffusion weighting in s/m^2 below
// which a volume counts as unweighted.
const DefaultUnweightedThreshold = 25e6

// preferredOrder fixes the column order used for display and files.
// Unknown columns sort alphabetically after these.
var preferredOrder = []string{"gx", "gy", "gz", "G", "Delta", "delta", "TE", "T1", "b", "q", "maxG"}

var virtualNames = []string{"b", "Delta", "delta", "G"}

// Table is an acquisition scheme: equally long named columns, one row
// per measured volume.
type Table struct {
	cols map[string][]float64
}

// New returns an empty table.
func New() *Table {
	return &Table{cols: make(map[string][]float64)}
}

// FromColumns builds a table from the given columns. All columns must
// have the same length.
func FromColumns(cols map[string][]float64) (*Table, error) {
	n := -1
	for name, data := range cols {
		if n == -1 {
			n = len(data)
		}
		if len(data) != n {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d",
				ErrColumnLength, name, len(data), n)
		}
	}

	t := New()
	for name, data := range cols {
		t.cols[name] = copySlice(data)
	}
	return t, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	for _, c := range t.cols {
		return len(c)
	}
	return 0
}

// NumColumns returns the number of real columns.
func (t *Table) NumColumns() int {
	return len(t.cols)
}

// ColumnNames returns the real column names in preferred order.
func (t *Table) ColumnNames() []string {
	names := make([]string, 0, len(t.cols))
	for name := range t.cols {
		names = append(names, name)
	}
	return preferredOrderOf(names)
}

// EstimatedColumnNames returns the virtual column names for which no
// real column exists, in preferred order.
func (t *Table) EstimatedColumnNames() []string {
	var names []string
	for _, v := range virtualNames {
		if !t.IsColumnReal(v) {
			names = append(names, v)
		}
	}
	return preferredOrderOf(names)
}

// SetColumn stores a column, replacing any previous data under the
// same name. The data length must match the table length unless the
// table is still empty.
func (t *Table) SetColumn(name string, data []float64) error {
	if n := t.Len(); n > 0 && len(data) != n {
		return fmt.Errorf("%w: column %q has %d rows, table has %d",
			ErrColumnLength, name, len(data), n)
	}
	t.cols[name] = copySlice(data)
	return nil
}

// SetScalar stores a column with the value broadcast to every row. On
// an empty table it creates a single row.
func (t *Table) SetScalar(name string, value float64) {
	n := t.Len()
	if n == 0 {
		n = 1
	}
	col := make([]float64, n)
	for i := range col {
		col[i] = value
	}
	t.cols[name] = col
}

// SetDirections stores the gradient directions as the gx, gy and gz
// columns.
func (t *Table) SetDirections(dirs []core.Vec3) error {
	gx := make([]float64, len(dirs))
	gy := make([]float64, len(dirs))
	gz := make([]float64, len(dirs))
	for i, d := range dirs {
		gx[i], gy[i], gz[i] = d.X, d.Y, d.Z
	}

	if err := t.SetColumn("gx", gx); err != nil {
		return err
	}
	if err := t.SetColumn("gy", gy); err != nil {
		return err
	}
	return t.SetColumn("gz", gz)
}

// RemoveColumn deletes a real column. The name "g" removes all three
// gradient direction columns.
func (t *Table) RemoveColumn(name string) {
	if name == "g" {
		delete(t.cols, "gx")
		delete(t.cols, "gy")
		delete(t.cols, "gz")
		return
	}
	delete(t.cols, name)
}

// Column returns a copy of the named column, deriving it when only a
// virtual definition exists.
func (t *Table) Column(name string) ([]float64, error) {
	if c, ok := t.cols[name]; ok {
		return copySlice(c), nil
	}

	switch name {
	case "b":
		return t.virtualB()
	case "Delta", "delta", "G":
		tm, err := t.Timings()
		if err != nil {
			return nil, err
		}
		switch name {
		case "Delta":
			return tm.Delta, nil
		case "delta":
			return tm.SmallDelta, nil
		}
		return tm.G, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}

// HasColumn reports whether the column is stored or derivable. The
// name "g" checks for all three direction columns.
func (t *Table) HasColumn(name string) bool {
	if name == "g" {
		return t.IsColumnReal("gx") && t.IsColumnReal("gy") && t.IsColumnReal("gz")
	}
	_, err := t.Column(name)
	return err == nil
}

// IsColumnReal reports whether real data is stored under the name,
// as opposed to being derivable on demand.
func (t *Table) IsColumnReal(name string) bool {
	_, ok := t.cols[name]
	return ok
}

// Directions returns the gradient directions from the gx, gy and gz
// columns.
func (t *Table) Directions() ([]core.Vec3, error) {
	gx, okx := t.cols["gx"]
	gy, oky := t.cols["gy"]
	gz, okz := t.cols["gz"]
	if !okx || !oky || !okz {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, "g")
	}

	dirs := make([]core.Vec3, len(gx))
	for i := range dirs {
		dirs[i] = core.Vec3{X: gx[i], Y: gy[i], Z: gz[i]}
	}
	return dirs, nil
}

// UnweightedIndices returns the rows considered unweighted: diffusion
// weighting below the threshold or a gradient vector shorter than
// 0.99. When the weighting or the directions cannot be resolved every
// row counts as unweighted.
func (t *Table) UnweightedIndices() []int {
	b, errB := t.Column("b")
	dirs, errG := t.Directions()
	if errB != nil || errG != nil {
		idx := make([]int, t.Len())
		for i := range idx {
			idx[i] = i
		}
		return idx
	}

	var idx []int
	for i := range b {
		if b[i] < DefaultUnweightedThreshold || dirs[i].Norm() < 0.99 {
			idx = append(idx, i)
		}
	}
	return idx
}

// WeightedIndices returns the complement of UnweightedIndices.
func (t *Table) WeightedIndices() []int {
	un := make(map[int]bool)
	for _, i := range t.UnweightedIndices() {
		un[i] = true
	}

	var out []int
	for i := range t.Len() {
		if !un[i] {
			out = append(out, i)
		}
	}
	return out
}

// Shells returns the unique weighted b-values in ascending order.
func (t *Table) Shells() ([]float64, error) {
	b, err := t.Column("b")
	if err != nil {
		return nil, err
	}

	seen := make(map[float64]bool)
	var shells []float64
	for _, i := range t.WeightedIndices() {
		if !seen[b[i]] {
			seen[b[i]] = true
			shells = append(shells, b[i])
		}
	}

	sort.Float64s(shells)
	return shells, nil
}

// NumShells returns the number of unique weighted b-values.
func (t *Table) NumShells() (int, error) {
	shells, err := t.Shells()
	if err != nil {
		return 0, err
	}
	return len(shells), nil
}

// IndicesBValueRange returns the rows whose b-value lies in
// [start, end]. Unweighted rows are included whenever their stored
// b-value falls in the range.
func (t *Table) IndicesBValueRange(start, end float64) ([]int, error) {
	b, err := t.Column("b")
	if err != nil {
		return nil, err
	}

	var idx []int
	for i, v := range b {
		if start <= v && v <= end {
			idx = append(idx, i)
		}
	}
	return idx, nil
}

// Subset returns a new table holding only the given rows of every real
// column.
func (t *Table) Subset(indices []int) *Table {
	out := New()
	for name, col := range t.cols {
		sub := make([]float64, len(indices))
		for j, idx := range indices {
			sub[j] = col[idx]
		}
		out.cols[name] = sub
	}
	return out
}

// Append extends every real column of t with the matching column of
// other, resolving virtual columns of other where needed. The table is
// unchanged on error.
func (t *Table) Append(other *Table) error {
	updates := make(map[string][]float64, len(t.cols))
	for name, col := range t.cols {
		oc, err := other.Column(name)
		if err != nil {
			return fmt.Errorf("appending column %q: %w", name, err)
		}
		updates[name] = append(copySlice(col), oc...)
	}

	t.cols = updates
	return nil
}

// Copy returns a deep copy of the table.
func (t *Table) Copy() *Table {
	out := New()
	for name, col := range t.cols {
		out.cols[name] = copySlice(col)
	}
	return out
}

func copySlice(s []float64) []float64 {
	return append([]float64(nil), s...)
}

func preferredOrderOf(names []string) []string {
	rest := append([]string(nil), names...)
	sort.Strings(rest)

	out := make([]string, 0, len(rest))
	for _, want := range preferredOrder {
		for i, n := range rest {
			if n == want {
				out = append(out, n)
				rest = append(rest[:i], rest[i+1:]...)
				break
			}
		}
	}
	return append(out, rest...)
}
