// Package dataset provides the explicit tabular schema used by the production
// pipeline: an ordered set of optional, typed columns keyed by semantic field
// name. A Dataset is immutable from the caller's point of view; every
// transformation returns a new Dataset and leaves its input untouched.
package dataset

import (
	"fmt"
	"math"
)

// Field is the name of a column. Known semantic fields are declared as
// constants; raw columns that no mapping rule recognised keep their raw code.
type Field string

// Semantic fields produced by the pipeline.
const (
	FieldLevelCode        Field = "nivel_territorial_codigo"
	FieldLevel            Field = "nivel_territorial"
	FieldUnitCode         Field = "unidade_codigo"
	FieldUnit             Field = "unidade"
	FieldValue            Field = "valor"
	FieldLocalityCode     Field = "localidade_codigo"
	FieldLocality         Field = "localidade"
	FieldYear             Field = "ano"
	FieldVariableCode     Field = "variavel_codigo"
	FieldVariable         Field = "variavel"
	FieldProductCode      Field = "produto_codigo"
	FieldProduct          Field = "produto"
	FieldMunicipalityName Field = "municipio_nome"
	FieldMunicipalityCode Field = "municipio_codigo_ibge"
)

// SemanticOrder is the canonical output order of the semantic fields.
var SemanticOrder = []Field{
	FieldLevelCode,
	FieldLevel,
	FieldMunicipalityCode,
	FieldMunicipalityName,
	FieldLocalityCode,
	FieldLocality,
	FieldYear,
	FieldVariableCode,
	FieldVariable,
	FieldProductCode,
	FieldProduct,
	FieldValue,
	FieldUnitCode,
	FieldUnit,
}

// IsSemantic reports whether f is one of the declared semantic fields.
func IsSemantic(f Field) bool {
	for _, s := range SemanticOrder {
		if s == f {
			return true
		}
	}
	return false
}

// Kind is the storage type of a column.
type Kind int

const (
	KindText Kind = iota
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Column is a single typed column. A cell whose validity bit is false is
// missing, regardless of the stored value.
type Column struct {
	name  Field
	kind  Kind
	text  []string
	nums  []float64
	valid []bool
}

// NewTextColumn builds a text column. A nil valid slice marks every cell present.
func NewTextColumn(name Field, values []string, valid []bool) *Column {
	if valid == nil {
		valid = allValid(len(values))
	}
	return &Column{name: name, kind: KindText, text: values, valid: valid}
}

// NewNumberColumn builds a numeric column. NaN cells are always missing.
func NewNumberColumn(name Field, values []float64, valid []bool) *Column {
	if valid == nil {
		valid = allValid(len(values))
	}
	for i, v := range values {
		if math.IsNaN(v) {
			valid[i] = false
		}
	}
	return &Column{name: name, kind: KindNumber, nums: values, valid: valid}
}

func allValid(n int) []bool {
	v := make([]bool, n)
	for i := range v {
		v[i] = true
	}
	return v
}

// Name returns the column's field name.
func (c *Column) Name() Field { return c.name }

// Kind returns the column's storage type.
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.valid) }

// Missing reports whether cell i is missing.
func (c *Column) Missing(i int) bool { return !c.valid[i] }

// Text returns cell i of a text column. Numeric columns are formatted.
func (c *Column) Text(i int) (string, bool) {
	if !c.valid[i] {
		return "", false
	}
	if c.kind == KindNumber {
		return formatNumber(c.nums[i]), true
	}
	return c.text[i], true
}

// Number returns cell i of a numeric column. Text columns report missing.
func (c *Column) Number(i int) (float64, bool) {
	if c.kind != KindNumber || !c.valid[i] {
		return 0, false
	}
	return c.nums[i], true
}

// Value returns cell i as an untyped value: string, int64 for whole numbers,
// float64 otherwise. ok is false for a missing cell.
func (c *Column) Value(i int) (v any, ok bool) {
	if !c.valid[i] {
		return nil, false
	}
	if c.kind == KindText {
		return c.text[i], true
	}
	n := c.nums[i]
	if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
		return int64(n), true
	}
	return n, true
}

// Texts returns a copy of the column as strings with its validity bits.
func (c *Column) Texts() ([]string, []bool) {
	out := make([]string, c.Len())
	valid := make([]bool, c.Len())
	for i := range out {
		out[i], valid[i] = c.Text(i)
	}
	return out, valid
}

func (c *Column) take(idx []int) *Column {
	out := &Column{name: c.name, kind: c.kind, valid: make([]bool, len(idx))}
	if c.kind == KindText {
		out.text = make([]string, len(idx))
	} else {
		out.nums = make([]float64, len(idx))
	}
	for j, i := range idx {
		out.valid[j] = c.valid[i]
		if c.kind == KindText {
			out.text[j] = c.text[i]
		} else {
			out.nums[j] = c.nums[i]
		}
	}
	return out
}

func formatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
		return fmt.Sprintf("%d", int64(n))
	}
	return fmt.Sprintf("%g", n)
}

// Dataset is an ordered collection of equally long columns.
type Dataset struct {
	cols  []*Column
	index map[Field]int
	rows  int
}

// Empty returns a dataset with no columns and no rows.
func Empty() Dataset {
	return Dataset{index: map[Field]int{}}
}

// New builds a dataset from columns. All columns must share the same length
// and have distinct names.
func New(cols ...*Column) (Dataset, error) {
	ds := Empty()
	for i, c := range cols {
		if i == 0 {
			ds.rows = c.Len()
		} else if c.Len() != ds.rows {
			return Empty(), fmt.Errorf("column %q has %d rows, expected %d", c.name, c.Len(), ds.rows)
		}
		if _, dup := ds.index[c.name]; dup {
			return Empty(), fmt.Errorf("duplicate column %q", c.name)
		}
		ds.index[c.name] = len(ds.cols)
		ds.cols = append(ds.cols, c)
	}
	return ds, nil
}

// Len returns the number of rows.
func (d Dataset) Len() int { return d.rows }

// IsEmpty reports whether the dataset has no rows.
func (d Dataset) IsEmpty() bool { return d.rows == 0 }

// Has reports whether the field is present.
func (d Dataset) Has(f Field) bool {
	_, ok := d.index[f]
	return ok
}

// Column returns the column for f, if present.
func (d Dataset) Column(f Field) (*Column, bool) {
	i, ok := d.index[f]
	if !ok {
		return nil, false
	}
	return d.cols[i], true
}

// Fields returns the column names in order.
func (d Dataset) Fields() []Field {
	out := make([]Field, len(d.cols))
	for i, c := range d.cols {
		out[i] = c.name
	}
	return out
}

// With returns a new dataset in which col replaces the column of the same
// name, or is appended when no such column exists.
func (d Dataset) With(col *Column) (Dataset, error) {
	if len(d.cols) > 0 && col.Len() != d.rows {
		return d, fmt.Errorf("column %q has %d rows, expected %d", col.name, col.Len(), d.rows)
	}
	cols := make([]*Column, len(d.cols), len(d.cols)+1)
	copy(cols, d.cols)
	if i, ok := d.index[col.name]; ok {
		cols[i] = col
	} else {
		cols = append(cols, col)
	}
	return New(cols...)
}

// Without returns a new dataset lacking the given fields.
func (d Dataset) Without(fields ...Field) Dataset {
	drop := make(map[Field]bool, len(fields))
	for _, f := range fields {
		drop[f] = true
	}
	cols := make([]*Column, 0, len(d.cols))
	for _, c := range d.cols {
		if !drop[c.name] {
			cols = append(cols, c)
		}
	}
	out, _ := New(cols...)
	if len(cols) == 0 {
		out.rows = 0
	}
	return out
}

// Filter returns a new dataset holding only the rows for which keep is true.
func (d Dataset) Filter(keep func(row int) bool) Dataset {
	idx := make([]int, 0, d.rows)
	for i := 0; i < d.rows; i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	cols := make([]*Column, len(d.cols))
	for i, c := range d.cols {
		cols[i] = c.take(idx)
	}
	out, _ := New(cols...)
	out.rows = len(idx)
	return out
}

// Record is one normalized row keyed by field name. Missing cells are omitted.
type Record map[string]any

// Records materializes the dataset row by row.
func (d Dataset) Records() []Record {
	out := make([]Record, 0, d.rows)
	for i := 0; i < d.rows; i++ {
		rec := make(Record, len(d.cols))
		for _, c := range d.cols {
			if v, ok := c.Value(i); ok {
				rec[string(c.name)] = v
			}
		}
		out = append(out, rec)
	}
	return out
}
