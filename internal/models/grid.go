package models

// VerticalAlign is the optional vertical alignment of a table cell.
type VerticalAlign string

const (
	AlignDefault VerticalAlign = ""
	AlignTop     VerticalAlign = "top"
	AlignMiddle  VerticalAlign = "middle"
	AlignBottom  VerticalAlign = "bottom"
)

// IsValid reports whether a is one of the known alignments (the empty value included).
func (a VerticalAlign) IsValid() bool {
	switch a {
	case AlignDefault, AlignTop, AlignMiddle, AlignBottom:
		return true
	}
	return false
}

// Cell is one slot of a TableGrid. Only a master cell carries RowSpan/ColSpan;
// cells subsumed by a master are flagged Merged and hold no content.
type Cell struct {
	ID      string        `json:"id"`
	Content string        `json:"content"`
	VAlign  VerticalAlign `json:"valign,omitempty"`
	RowSpan int           `json:"rowspan,omitempty"`
	ColSpan int           `json:"colspan,omitempty"`
	Merged  bool          `json:"is_merged,omitempty"`
}

// Span returns the effective extents of the cell, at least 1x1.
func (c Cell) Span() (rows, cols int) {
	rows, cols = c.RowSpan, c.ColSpan
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	return rows, cols
}

// IsMaster reports whether the cell spans more than one grid slot.
func (c Cell) IsMaster() bool {
	rows, cols := c.Span()
	return rows > 1 || cols > 1
}

// GridRow is one row of a TableGrid. The ID keys per-row answers of the table-choice variants.
type GridRow struct {
	ID     string   `json:"id"`
	Height *float64 `json:"height,omitempty"` // millimeters, nil means auto
	Cells  []Cell   `json:"cells"`
}

// TableGrid is a rectangular grid of cells with optional row/column sizing.
type TableGrid struct {
	Rows         []GridRow  `json:"rows"`
	ColumnWidths []*float64 `json:"column_widths,omitempty"` // millimeters, nil entries mean auto
}

func (g *TableGrid) RowCount() int {
	return len(g.Rows)
}

// ColumnCount is the cell count of the first row; the grid is rectangular.
func (g *TableGrid) ColumnCount() int {
	if len(g.Rows) == 0 {
		return 0
	}
	return len(g.Rows[0].Cells)
}

// WidestRow is the largest cell count of any row. It differs from ColumnCount only
// for ragged grids, which renderers print cell by cell.
func (g *TableGrid) WidestRow() int {
	widest := 0
	for _, row := range g.Rows {
		widest = max(widest, len(row.Cells))
	}
	return widest
}

// ColumnWidth returns the width override of column col, nil when auto or unset.
func (g *TableGrid) ColumnWidth(col int) *float64 {
	if col < 0 || col >= len(g.ColumnWidths) {
		return nil
	}
	return g.ColumnWidths[col]
}

// RowIndex returns the position of a row ID, or -1.
func (g *TableGrid) RowIndex(id string) int {
	for i, row := range g.Rows {
		if row.ID == id {
			return i
		}
	}
	return -1
}

// IsEmpty reports whether no cell carries content.
func (g *TableGrid) IsEmpty() bool {
	for _, row := range g.Rows {
		for _, cell := range row.Cells {
			if !cell.Merged && cell.Content != "" {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy of the grid.
func (g *TableGrid) Clone() TableGrid {
	out := TableGrid{Rows: make([]GridRow, len(g.Rows))}
	for i, row := range g.Rows {
		out.Rows[i] = GridRow{ID: row.ID, Height: copyFloat(row.Height), Cells: append([]Cell(nil), row.Cells...)}
	}
	if g.ColumnWidths != nil {
		out.ColumnWidths = make([]*float64, len(g.ColumnWidths))
		for i, w := range g.ColumnWidths {
			out.ColumnWidths[i] = copyFloat(w)
		}
	}
	return out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
