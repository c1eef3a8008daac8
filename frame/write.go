package frame

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
)

// all returns the index (if any) followed by the regular columns.
func (f *Frame) all() []*Column {
	if f.Index() == nil {
		return f.columns()
	}
	return append([]*Column{f.Index()}, f.columns()...)
}

// cells renders every column once so writers can index rows cheaply.
type cells struct {
	times  []time.Time
	floats []float64
}

func valuesOf(cols []*Column) []cells {
	out := make([]cells, 0, len(cols))
	for _, c := range cols {
		if c.isTime() {
			out = append(out, cells{times: c.Times()})
			continue
		}
		out = append(out, cells{floats: c.Floats()})
	}
	return out
}

func (c cells) text(i int) string {
	if c.times != nil {
		return c.times[i].Format(DateLayout)
	}
	v := c.floats[i]
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (c cells) jsonValue(i int) interface{} {
	if c.times != nil {
		return c.times[i].Format(DateLayout)
	}
	v := c.floats[i]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// WriteCSV writes a header row followed by one line per row. Missing values
// are written as empty fields.
func (f *Frame) WriteCSV(w io.Writer) error {
	cols := f.all()
	values := valuesOf(cols)
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(cols))
	for _, c := range cols {
		header = append(header, c.Name())
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, len(cols))
	for i := 0; i < f.Len(); i++ {
		for j, v := range values {
			row[j] = v.text(i)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteTable writes an aligned, human readable rendering.
func (f *Frame) WriteTable(w io.Writer) error {
	cols := f.all()
	values := valuesOf(cols)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)

	names := make([]string, 0, len(cols))
	for _, c := range cols {
		names = append(names, c.Name())
	}
	fmt.Fprintln(tw, strings.Join(names, "\t")+"\t")

	row := make([]string, len(cols))
	for i := 0; i < f.Len(); i++ {
		for j, v := range values {
			row[j] = v.text(i)
			if row[j] == "" {
				row[j] = "NaN"
			}
		}
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}

	return tw.Flush()
}

// MarshalJSON encodes the frame as an array of row objects with keys in
// column order.
func (f *Frame) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	cols := f.all()
	values := valuesOf(cols)
	buf := &bytes.Buffer{}

	buf.WriteByte('[')
	for i := 0; i < f.Len(); i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, c := range cols {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(c.Name())
			if err != nil {
				return nil, err
			}
			value, err := json.Marshal(values[j].jsonValue(i))
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(value)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')

	return buf.Bytes(), nil
}
