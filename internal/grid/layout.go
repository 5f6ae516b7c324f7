package grid

import (
	"github.com/SAP-F-2025/exam-document-service/internal/models"
)

// Position addresses one slot of a grid.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// layout maps every slot of a grid to the slot of the cell that renders it:
// itself for plain cells and masters, the master for subsumed cells.
type layout struct {
	rows, cols int
	owner      [][]Position
	masters    []Position
}

func buildLayout(g *models.TableGrid) (*layout, error) {
	const op = "validate"
	l := &layout{rows: g.RowCount(), cols: g.ColumnCount()}

	l.owner = make([][]Position, l.rows)
	for r, row := range g.Rows {
		if len(row.Cells) != l.cols {
			return nil, conflict(op, "row %d has %d cells, expected %d", r, len(row.Cells), l.cols)
		}
		l.owner[r] = make([]Position, l.cols)
		for c := range row.Cells {
			l.owner[r][c] = Position{Row: -1, Col: -1}
		}
	}

	for r, row := range g.Rows {
		for c, cell := range row.Cells {
			if !cell.IsMaster() {
				continue
			}
			if cell.Merged {
				return nil, conflict(op, "cell %s is both merged and spanning", cell.ID)
			}
			rs, cs := cell.Span()
			if r+rs > l.rows || c+cs > l.cols {
				return nil, conflict(op, "span of cell %s leaves the grid", cell.ID)
			}
			for rr := r; rr < r+rs; rr++ {
				for cc := c; cc < c+cs; cc++ {
					if l.owner[rr][cc].Row >= 0 {
						return nil, conflict(op, "span of cell %s overlaps another span", cell.ID)
					}
					if (rr != r || cc != c) && !g.Rows[rr].Cells[cc].Merged {
						return nil, conflict(op, "cell %s inside span of %s is not marked merged", g.Rows[rr].Cells[cc].ID, cell.ID)
					}
					l.owner[rr][cc] = Position{Row: r, Col: c}
				}
			}
			l.masters = append(l.masters, Position{Row: r, Col: c})
		}
	}

	for r, row := range g.Rows {
		for c, cell := range row.Cells {
			if l.owner[r][c].Row >= 0 {
				continue
			}
			if cell.Merged {
				return nil, conflict(op, "merged cell %s belongs to no span", cell.ID)
			}
			l.owner[r][c] = Position{Row: r, Col: c}
		}
	}
	return l, nil
}

// rowCrossed reports whether some span covers row index together with another row.
func (l *layout) rowCrossed(g *models.TableGrid, index int) bool {
	for _, m := range l.masters {
		rs, _ := g.Rows[m.Row].Cells[m.Col].Span()
		if rs > 1 && m.Row <= index && index < m.Row+rs {
			return true
		}
	}
	return false
}

// colCrossed reports whether some span covers column index together with another column.
func (l *layout) colCrossed(g *models.TableGrid, index int) bool {
	for _, m := range l.masters {
		_, cs := g.Rows[m.Row].Cells[m.Col].Span()
		if cs > 1 && m.Col <= index && index < m.Col+cs {
			return true
		}
	}
	return false
}

// rowBoundarySplit reports whether inserting a row before index would cut through a span.
func (l *layout) rowBoundarySplit(g *models.TableGrid, index int) bool {
	for _, m := range l.masters {
		rs, _ := g.Rows[m.Row].Cells[m.Col].Span()
		if m.Row < index && index < m.Row+rs {
			return true
		}
	}
	return false
}

// colBoundarySplit reports whether inserting a column before index would cut through a span.
func (l *layout) colBoundarySplit(g *models.TableGrid, index int) bool {
	for _, m := range l.masters {
		_, cs := g.Rows[m.Row].Cells[m.Col].Span()
		if m.Col < index && index < m.Col+cs {
			return true
		}
	}
	return false
}

// Locate returns the slot of the cell with the given ID.
func Locate(g *models.TableGrid, cellID string) (Position, bool) {
	if cellID == "" {
		return Position{}, false
	}
	for r, row := range g.Rows {
		for c, cell := range row.Cells {
			if cell.ID == cellID {
				return Position{Row: r, Col: c}, true
			}
		}
	}
	return Position{}, false
}

// Validate checks every grid invariant: rectangular rows, unique non-empty IDs,
// column widths within bounds, every merged cell inside exactly one span, no
// overlapping spans, and no content on merged cells.
func Validate(g *models.TableGrid) error {
	const op = "validate"
	l, err := buildLayout(g)
	if err != nil {
		return err
	}
	if len(g.ColumnWidths) > l.cols {
		return conflict(op, "%d column widths for %d columns", len(g.ColumnWidths), l.cols)
	}

	rowIDs := make(map[string]bool, l.rows)
	cellIDs := make(map[string]bool, l.rows*l.cols)
	for r, row := range g.Rows {
		if row.ID == "" || rowIDs[row.ID] {
			return conflict(op, "row %d has an empty or duplicate id", r)
		}
		rowIDs[row.ID] = true
		for _, cell := range row.Cells {
			if cell.ID == "" || cellIDs[cell.ID] {
				return conflict(op, "row %d has a cell with an empty or duplicate id", r)
			}
			cellIDs[cell.ID] = true
			if cell.Merged && cell.Content != "" {
				return conflict(op, "merged cell %s carries content", cell.ID)
			}
		}
	}
	return nil
}

// Owners maps every slot to the position of the cell that renders it: the slot itself
// for plain and master cells, the master for merged cells. It fails on a broken grid.
func Owners(g *models.TableGrid) ([][]Position, error) {
	l, err := buildLayout(g)
	if err != nil {
		return nil, err
	}
	return l.owner, nil
}
