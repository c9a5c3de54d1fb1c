package protocol

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// floatFormat is the cell format used when writing protocol files.
const floatFormat = 'e'

// floatPrec is the number of fractional digits written per cell.
const floatPrec = 18

// Load reads a protocol table from a .prtcl file. The first line must
// start with '#' and list the comma separated column names; the
// remaining lines hold one whitespace separated row each.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(raw), "\n")
	if len(lines) == 0 || !strings.HasPrefix(lines[0], "#") {
		return nil, fmt.Errorf("%w: %s", ErrMissingHeader, path)
	}

	var names []string
	for _, c := range strings.Split(strings.TrimPrefix(lines[0], "#"), ",") {
		names = append(names, strings.TrimSpace(c))
	}

	rows, err := parseRows(lines[1:], path)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 && len(rows[0]) != len(names) {
		return nil, fmt.Errorf("%w: %s has %d column names but %d data columns",
			ErrColumnLength, path, len(names), len(rows[0]))
	}

	cols := make(map[string][]float64, len(names))
	for i, name := range names {
		col := make([]float64, len(rows))
		for j, row := range rows {
			col[j] = row[i]
		}
		cols[name] = col
	}

	return FromColumns(cols)
}

// Save writes the table to a .prtcl file: a '#' header with comma
// separated column names followed by tab separated rows. Without an
// explicit column list all real columns are written, except that b and
// maxG are dropped when the three timing columns are stored. Virtual
// columns named explicitly are resolved before writing. Parent
// directories are created as needed.
func Save(t *Table, path string, columns ...string) error {
	if len(columns) == 0 {
		for _, name := range t.ColumnNames() {
			columns = append(columns, name)
		}
		if t.IsColumnReal("G") && t.IsColumnReal("Delta") && t.IsColumnReal("delta") {
			kept := columns[:0]
			for _, name := range columns {
				if name != "b" && name != "maxG" {
					kept = append(kept, name)
				}
			}
			columns = kept
		}
	}

	data := make([][]float64, len(columns))
	for i, name := range columns {
		col, err := t.Column(name)
		if err != nil {
			return err
		}
		data[i] = col
	}

	var sb strings.Builder
	sb.WriteString("#")
	sb.WriteString(strings.Join(columns, ","))
	sb.WriteString("\n")
	for row := range t.Len() {
		for i := range data {
			if i > 0 {
				sb.WriteString("\t")
			}
			sb.WriteString(strconv.FormatFloat(data[i][row], floatFormat, floatPrec, 64))
		}
		sb.WriteString("\n")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(sb.String()), 0o644)
}

// LoadBvecBval reads a protocol from FSL style bvec and bval files.
// The bvec file holds the gradient directions either as three rows of
// N values or N rows of three values; the orientation is detected from
// the shape. The bval file holds the b-values in any whitespace
// layout. A zero scale selects automatic unit detection: when the
// largest b-value stays below 1e4 the file is taken as s/mm^2 and
// scaled to s/m^2.
func LoadBvecBval(bvecPath, bvalPath string, scale float64) (*Table, error) {
	dirs, err := loadBvec(bvecPath)
	if err != nil {
		return nil, err
	}

	bvals, err := loadValues(bvalPath)
	if err != nil {
		return nil, err
	}

	if scale == 0 {
		scale = 1
		if maxValue(bvals) < 1e4 {
			scale = 1e6
		}
	}
	for i := range bvals {
		bvals[i] *= scale
	}

	if len(dirs[0]) != len(bvals) {
		return nil, fmt.Errorf("%w: %d directions but %d b-values",
			ErrColumnLength, len(dirs[0]), len(bvals))
	}

	return FromColumns(map[string][]float64{
		"gx": dirs[0],
		"gy": dirs[1],
		"gz": dirs[2],
		"b":  bvals,
	})
}

// SaveBvecBval writes the table's directions and b-values to FSL style
// files: the bvec file as three rows of N values, the bval file as a
// single row. A zero scale selects automatic unit detection: when the
// largest b-value exceeds 1e4 the values are taken as s/m^2 and scaled
// to s/mm^2. Parent directories are created as needed.
func SaveBvecBval(t *Table, bvecPath, bvalPath string, scale float64) error {
	b, err := t.Column("b")
	if err != nil {
		return err
	}
	dirs, err := t.Directions()
	if err != nil {
		return err
	}

	if scale == 0 {
		scale = 1
		if maxValue(b) > 1e4 {
			scale = 1e-6
		}
	}
	for i := range b {
		b[i] *= scale
	}

	var bvec strings.Builder
	for axis := range 3 {
		for i, d := range dirs {
			if i > 0 {
				bvec.WriteString(" ")
			}
			v := d.X
			switch axis {
			case 1:
				v = d.Y
			case 2:
				v = d.Z
			}
			bvec.WriteString(strconv.FormatFloat(v, floatFormat, floatPrec, 64))
		}
		bvec.WriteString("\n")
	}

	var bval strings.Builder
	for i, v := range b {
		if i > 0 {
			bval.WriteString(" ")
		}
		bval.WriteString(strconv.FormatFloat(v, floatFormat, floatPrec, 64))
	}
	bval.WriteString("\n")

	for _, path := range []string{bvecPath, bvalPath} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(bvecPath, []byte(bvec.String()), 0o644); err != nil {
		return err
	}
	return os.WriteFile(bvalPath, []byte(bval.String()), 0o644)
}

// sidecarColumns are the per-volume files AutoLoad picks up next to a
// bvec/bval pair, named exactly after the column they fill.
var sidecarColumns = []string{"TE", "TR", "Delta", "delta", "maxG"}

// AutoLoad loads a protocol from a directory. It uses the first .prtcl
// file when one exists, otherwise it combines a bval file (matching
// *bval* or *b-val*) with a bvec file (matching *bvec* or *b-vec*,
// preferring names containing "fsl") and fills in any sidecar columns
// found as files named TE, TR, Delta, delta or maxG. Sidecar files
// with a single value are broadcast over all rows.
func AutoLoad(dir string) (*Table, error) {
	if prtcl, err := globSorted(dir, "*.prtcl"); err != nil {
		return nil, err
	} else if len(prtcl) > 0 {
		return Load(prtcl[0])
	}

	bvalPath, err := findFile(dir, "", "*bval*", "*b-val*")
	if err != nil {
		return nil, fmt.Errorf("%w: no bval file in %s", ErrNoProtocolSource, dir)
	}
	bvecPath, err := findFile(dir, "fsl", "*bvec*", "*b-vec*")
	if err != nil {
		return nil, fmt.Errorf("%w: no bvec file in %s", ErrNoProtocolSource, dir)
	}

	t, err := LoadBvecBval(bvecPath, bvalPath, 0)
	if err != nil {
		return nil, err
	}

	for _, name := range sidecarColumns {
		path := filepath.Join(dir, name)
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		values, loadErr := loadValues(path)
		if loadErr != nil {
			return nil, loadErr
		}
		if len(values) == 1 {
			t.SetScalar(name, values[0])
			continue
		}
		if err := t.SetColumn(name, values); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func loadBvec(path string) ([3][]float64, error) {
	var dirs [3][]float64

	raw, err := os.ReadFile(path)
	if err != nil {
		return dirs, err
	}

	rows, err := parseRows(strings.Split(string(raw), "\n"), path)
	if err != nil {
		return dirs, err
	}
	if len(rows) < 2 || len(rows[0]) < 2 {
		return dirs, fmt.Errorf("parsing %s: gradient table needs at least two rows and columns", path)
	}

	// Three rows of N values is the column based FSL layout; flip it
	// so each row is one direction.
	if len(rows[0]) > len(rows) {
		flipped := make([][]float64, len(rows[0]))
		for j := range flipped {
			flipped[j] = make([]float64, len(rows))
			for i := range rows {
				flipped[j][i] = rows[i][j]
			}
		}
		rows = flipped
	}

	if len(rows[0]) != 3 {
		return dirs, fmt.Errorf("parsing %s: expected 3 direction components, got %d", path, len(rows[0]))
	}

	for axis := range 3 {
		dirs[axis] = make([]float64, len(rows))
		for i, row := range rows {
			dirs[axis][i] = row[axis]
		}
	}
	return dirs, nil
}

// loadValues reads all whitespace separated floats in a file,
// regardless of line layout.
func loadValues(path string) ([]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	rows, err := parseRows(strings.Split(string(raw), "\n"), path)
	if err != nil {
		return nil, err
	}

	var values []float64
	for _, row := range rows {
		values = append(values, row...)
	}
	return values, nil
}

// parseRows parses whitespace separated float rows, skipping blank
// lines and '#' comments. Rows must all have the same width.
func parseRows(lines []string, path string) ([][]float64, error) {
	var rows [][]float64
	for lineNo, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		fields := strings.Fields(trimmed)
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing %s line %d: %q is not a number", path, lineNo+1, f)
			}
			row[i] = v
		}

		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("parsing %s line %d: %d values, expected %d",
				path, lineNo+1, len(row), len(rows[0]))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func maxValue(values []float64) float64 {
	m := 0.0
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

func globSorted(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// findFile returns the first file matching any of the glob patterns,
// trying patterns in order. A non-empty prefer string picks the first
// match whose base name contains it, when one exists.
func findFile(dir, prefer string, patterns ...string) (string, error) {
	for _, pattern := range patterns {
		matches, err := globSorted(dir, pattern)
		if err != nil {
			return "", err
		}
		if len(matches) == 0 {
			continue
		}
		if prefer != "" {
			for _, m := range matches {
				if strings.Contains(filepath.Base(m), prefer) {
					return m, nil
				}
			}
		}
		return matches[0], nil
	}
	return "", os.ErrNotExist
}
