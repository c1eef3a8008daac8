package frame

import (
	"errors"
	"fmt"
	"math"
	"time"

	dataframe "github.com/rocketlaunchr/dataframe-go"
)

var (
	ErrLength        = errors.New("column length mismatch")
	ErrDuplicateName = errors.New("duplicate column name")
)

// DateLayout is the layout used when dates are rendered as text.
const DateLayout = "2006-01-02"

// Column is a named series of either floats or timestamps.
type Column struct {
	series dataframe.Series
}

func Floats(name string, values []float64) *Column {
	return &Column{series: dataframe.NewSeriesFloat64(name, nil, values)}
}

func Times(name string, values []time.Time) *Column {
	return &Column{series: dataframe.NewSeriesTime(name, nil, values)}
}

func (c *Column) Name() string { return c.series.Name() }

func (c *Column) Len() int { return c.series.NRows() }

// Floats returns the values of a float column, nil otherwise. Missing
// observations are NaN.
func (c *Column) Floats() []float64 {
	s, ok := c.series.(*dataframe.SeriesFloat64)
	if !ok {
		return nil
	}
	return s.Values
}

// Times returns the values of a time column, nil otherwise.
func (c *Column) Times() []time.Time {
	s, ok := c.series.(*dataframe.SeriesTime)
	if !ok {
		return nil
	}
	out := make([]time.Time, 0, len(s.Values))
	for _, v := range s.Values {
		if v == nil {
			out = append(out, time.Time{})
			continue
		}
		out = append(out, *v)
	}
	return out
}

func (c *Column) isTime() bool {
	_, ok := c.series.(*dataframe.SeriesTime)
	return ok
}

func (c *Column) withName(name string) *Column {
	cp := c.series.Copy()
	cp.Rename(name)
	return &Column{series: cp}
}

func (c *Column) clone() *Column {
	return &Column{series: c.series.Copy()}
}

// equal treats NaN as equal to NaN, the way missing observations compare.
func (c *Column) equal(o *Column) bool {
	if c.Name() != o.Name() || c.isTime() != o.isTime() || c.Len() != o.Len() {
		return false
	}
	if c.isTime() {
		a, b := c.Times(), o.Times()
		for i := range a {
			if !a[i].Equal(b[i]) {
				return false
			}
		}
		return true
	}
	a, b := c.Floats(), o.Floats()
	for i := range a {
		if math.IsNaN(a[i]) && math.IsNaN(b[i]) {
			continue
		}
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Frame is a dataframe with an optional index column. A nil index means
// rows are addressed by position.
type Frame struct {
	index *Column
	data  *dataframe.DataFrame
}

func New(index *Column, columns ...*Column) (*Frame, error) {
	if err := check(index, columns); err != nil {
		return nil, err
	}
	return build(index, columns), nil
}

func build(index *Column, columns []*Column) *Frame {
	series := make([]dataframe.Series, 0, len(columns))
	for _, c := range columns {
		series = append(series, c.series)
	}
	return &Frame{index: index, data: dataframe.NewDataFrame(series...)}
}

// check rejects ragged columns and names repeated across the index and
// the columns.
func check(index *Column, columns []*Column) error {
	n := -1
	seen := make(map[string]struct{}, len(columns)+1)
	if index != nil {
		n = index.Len()
		seen[index.Name()] = struct{}{}
	}

	for _, c := range columns {
		if n >= 0 && c.Len() != n {
			return fmt.Errorf("%w: %q has %d rows, want %d", ErrLength, c.Name(), c.Len(), n)
		}
		n = c.Len()

		if _, ok := seen[c.Name()]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateName, c.Name())
		}
		seen[c.Name()] = struct{}{}
	}
	return nil
}

func (f *Frame) columns() []*Column {
	out := make([]*Column, 0, len(f.data.Series))
	for _, s := range f.data.Series {
		out = append(out, &Column{series: s})
	}
	return out
}

func (f *Frame) Len() int {
	if f.index != nil {
		return f.index.Len()
	}
	if len(f.data.Series) == 0 {
		return 0
	}
	return f.data.NRows()
}

func (f *Frame) Index() *Column { return f.index }

func (f *Frame) Names() []string {
	if len(f.data.Series) == 0 {
		return []string{}
	}
	return f.data.Names()
}

func (f *Frame) Column(name string) (*Column, bool) {
	if len(f.data.Series) == 0 {
		return nil, false
	}
	i, err := f.data.NameToColumn(name)
	if err != nil {
		return nil, false
	}
	return &Column{series: f.data.Series[i]}, true
}

func (f *Frame) clone() (*Column, []*Column) {
	var index *Column
	if f.index != nil {
		index = f.index.clone()
	}
	columns := make([]*Column, 0, len(f.data.Series))
	for _, c := range f.columns() {
		columns = append(columns, c.clone())
	}
	return index, columns
}

// ResetIndex moves the index into the first regular column. An unnamed
// index becomes a column called "index".
func (f *Frame) ResetIndex() *Frame {
	index, columns := f.clone()
	if index == nil {
		return build(nil, columns)
	}

	if index.Name() == "" {
		index = index.withName("index")
	}
	return build(nil, append([]*Column{index}, columns...))
}

// Rename renames columns found in m; names not in m are kept. The index is
// left untouched.
func (f *Frame) Rename(m map[string]string) (*Frame, error) {
	return f.MapNames(func(name string) string {
		if to, ok := m[name]; ok {
			return to
		}
		return name
	})
}

// MapNames applies fn to every column name.
func (f *Frame) MapNames(fn func(string) string) (*Frame, error) {
	index, columns := f.clone()
	for i, c := range columns {
		columns[i] = c.withName(fn(c.Name()))
	}
	return New(index, columns...)
}

func (f *Frame) Equal(o *Frame) bool {
	if f == nil || o == nil {
		return f == o
	}
	if (f.index == nil) != (o.index == nil) {
		return false
	}
	if f.index != nil && !f.index.equal(o.index) {
		return false
	}
	a, b := f.columns(), o.columns()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].equal(b[i]) {
			return false
		}
	}
	return true
}
