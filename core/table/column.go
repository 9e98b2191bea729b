// Package table binds canonical queries to data access and projects result pages into a
// column-oriented view model.
package table

import (
	"fmt"

	"github.com/trezcool/masomo-admin/core/resource"
)

// Placeholder is rendered in place of values of absent relations.
const Placeholder = "—"

// Value wraps a value extracted from a record. A nil Raw means the value is absent.
type Value struct {
	Raw interface{}
}

func (v Value) Missing() bool { return v.Raw == nil }

func (v Value) String() string {
	if v.Raw == nil {
		return ""
	}
	return fmt.Sprintf("%v", v.Raw)
}

type CellKind string

const (
	TextCell  CellKind = "text"
	BadgeCell CellKind = "badge"
	ImageCell CellKind = "image"
	LinkCell  CellKind = "link"
)

// Cell is the display-ready form of one value.
type Cell struct {
	Kind    CellKind         `json:"kind"`
	Text    string           `json:"text"`
	Variant string           `json:"variant,omitempty"`
	Intent  *resource.Intent `json:"intent,omitempty"`
}

func Text(v Value) Cell { return Cell{Kind: TextCell, Text: v.String()} }

// Image renders the value as an image URL.
func Image(v Value) Cell { return Cell{Kind: ImageCell, Text: v.String()} }

// Badge renders the value as a badge whose variant is picked by variant.
func Badge(variant func(string) string) func(Value) Cell {
	return func(v Value) Cell {
		return Cell{Kind: BadgeCell, Text: v.String(), Variant: variant(v.String())}
	}
}

// ShowLink renders a "View" link to the detail screen of the record whose id is the value.
func ShowLink(res string) func(Value) Cell {
	return func(v Value) Cell {
		in := resource.ShowIntent(res, v.String())
		return Cell{Kind: LinkCell, Text: "View", Intent: &in}
	}
}

// ColumnSpec describes how one column extracts and renders its value.
type ColumnSpec[R any] struct {
	ID       string
	Header   string
	Width    int
	Accessor func(R) Value
	Render   func(Value) Cell // defaults to Text
}

// Header is the static part of a column sent along with the rows.
type Header struct {
	ID     string `json:"id"`
	Header string `json:"header"`
	Width  int    `json:"width"`
}

func (col ColumnSpec[R]) header() Header {
	return Header{ID: col.ID, Header: col.Header, Width: col.Width}
}

// cell evaluates the column for one record. Absent values yield the placeholder.
func (col ColumnSpec[R]) cell(rec R, placeholder string) Cell {
	var val Value
	if col.Accessor != nil {
		val = col.Accessor(rec)
	}
	if val.Missing() {
		return Cell{Kind: TextCell, Text: placeholder}
	}
	if col.Render == nil {
		return Text(val)
	}
	return col.Render(val)
}

// Project evaluates every column for every row.
func Project[R any](columns []ColumnSpec[R], rows []R, placeholder string) [][]Cell {
	out := make([][]Cell, 0, len(rows))
	for _, rec := range rows {
		cells := make([]Cell, 0, len(columns))
		for _, col := range columns {
			cells = append(cells, col.cell(rec, placeholder))
		}
		out = append(out, cells)
	}
	return out
}
