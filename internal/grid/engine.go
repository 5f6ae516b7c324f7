// Package grid implements the editable table grid: row/column structure, sizing,
// alignment and rectangular merge/split over models.TableGrid.
//
// Every operation checks all of its preconditions before the first write, so a
// rejected call leaves the grid exactly as it was.
package grid

import (
	"strings"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/exam-document-service/internal/models"
)

// Engine mutates table grids. It holds no grid state; only the ID source for new rows and cells.
type Engine struct {
	newID func() string
}

// NewEngine returns an engine that assigns random UUIDs to new rows and cells.
func NewEngine() *Engine {
	return &Engine{newID: uuid.NewString}
}

// NewEngineWithIDs returns an engine with a caller-supplied ID source.
func NewEngineWithIDs(newID func() string) *Engine {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Engine{newID: newID}
}

// NewGrid creates a rows x cols grid of empty cells. Non-positive sizes are raised to 1.
func (e *Engine) NewGrid(rows, cols int) models.TableGrid {
	rows, cols = max(rows, 1), max(cols, 1)
	g := models.TableGrid{Rows: make([]models.GridRow, rows)}
	for r := range g.Rows {
		g.Rows[r] = e.newRow(cols)
	}
	return g
}

func (e *Engine) newRow(cols int) models.GridRow {
	row := models.GridRow{ID: e.newID(), Cells: make([]models.Cell, cols)}
	for c := range row.Cells {
		row.Cells[c] = models.Cell{ID: e.newID()}
	}
	return row
}

// ===== ROW AND COLUMN STRUCTURE =====

// AddRow inserts an empty row before index at (at == RowCount appends).
func (e *Engine) AddRow(g *models.TableGrid, at int) error {
	const op = "add_row"
	if at < 0 || at > g.RowCount() {
		return invalid(op, "row index %d out of range", at)
	}
	l, err := buildLayout(g)
	if err != nil {
		return err
	}
	if l.rowBoundarySplit(g, at) {
		return conflict(op, "row %d falls inside a merged span", at)
	}

	row := e.newRow(max(l.cols, 1))
	g.Rows = append(g.Rows, models.GridRow{})
	copy(g.Rows[at+1:], g.Rows[at:])
	g.Rows[at] = row
	return nil
}

// RemoveRow deletes the row at index. Rows crossed by a span cannot be removed.
func (e *Engine) RemoveRow(g *models.TableGrid, index int) error {
	const op = "remove_row"
	if index < 0 || index >= g.RowCount() {
		return invalid(op, "row index %d out of range", index)
	}
	if g.RowCount() == 1 {
		return conflict(op, "cannot remove the last row")
	}
	l, err := buildLayout(g)
	if err != nil {
		return err
	}
	if l.rowCrossed(g, index) {
		return conflict(op, "row %d is crossed by a merged span", index)
	}

	g.Rows = append(g.Rows[:index], g.Rows[index+1:]...)
	return nil
}

// AddColumn inserts an empty column before index at (at == ColumnCount appends).
func (e *Engine) AddColumn(g *models.TableGrid, at int) error {
	const op = "add_column"
	if g.RowCount() == 0 {
		return invalid(op, "grid has no rows")
	}
	if at < 0 || at > g.ColumnCount() {
		return invalid(op, "column index %d out of range", at)
	}
	l, err := buildLayout(g)
	if err != nil {
		return err
	}
	if l.colBoundarySplit(g, at) {
		return conflict(op, "column %d falls inside a merged span", at)
	}

	for r := range g.Rows {
		cells := append(g.Rows[r].Cells, models.Cell{})
		copy(cells[at+1:], cells[at:])
		cells[at] = models.Cell{ID: e.newID()}
		g.Rows[r].Cells = cells
	}
	if len(g.ColumnWidths) > at {
		g.ColumnWidths = append(g.ColumnWidths, nil)
		copy(g.ColumnWidths[at+1:], g.ColumnWidths[at:])
		g.ColumnWidths[at] = nil
	}
	return nil
}

// RemoveColumn deletes the column at index. Columns crossed by a span cannot be removed.
func (e *Engine) RemoveColumn(g *models.TableGrid, index int) error {
	const op = "remove_column"
	if index < 0 || index >= g.ColumnCount() {
		return invalid(op, "column index %d out of range", index)
	}
	if g.ColumnCount() == 1 {
		return conflict(op, "cannot remove the last column")
	}
	l, err := buildLayout(g)
	if err != nil {
		return err
	}
	if l.colCrossed(g, index) {
		return conflict(op, "column %d is crossed by a merged span", index)
	}

	for r := range g.Rows {
		g.Rows[r].Cells = append(g.Rows[r].Cells[:index], g.Rows[r].Cells[index+1:]...)
	}
	if index < len(g.ColumnWidths) {
		g.ColumnWidths = append(g.ColumnWidths[:index], g.ColumnWidths[index+1:]...)
	}
	return nil
}

// ===== SIZING AND CELL ATTRIBUTES =====

// SetRowHeight sets the height of a row in millimeters; nil restores automatic height.
func (e *Engine) SetRowHeight(g *models.TableGrid, index int, height *float64) error {
	const op = "set_row_height"
	if index < 0 || index >= g.RowCount() {
		return invalid(op, "row index %d out of range", index)
	}
	if height != nil && *height < 0 {
		return invalid(op, "negative height %.2f", *height)
	}
	g.Rows[index].Height = copyLength(height)
	return nil
}

// SetColumnWidth sets the width of a column in millimeters; nil restores automatic width.
func (e *Engine) SetColumnWidth(g *models.TableGrid, index int, width *float64) error {
	const op = "set_column_width"
	if index < 0 || index >= g.ColumnCount() {
		return invalid(op, "column index %d out of range", index)
	}
	if width != nil && *width < 0 {
		return invalid(op, "negative width %.2f", *width)
	}
	for len(g.ColumnWidths) < g.ColumnCount() {
		g.ColumnWidths = append(g.ColumnWidths, nil)
	}
	g.ColumnWidths[index] = copyLength(width)
	return nil
}

// SetCellAlignment sets the vertical alignment of a cell that is rendered on its own.
func (e *Engine) SetCellAlignment(g *models.TableGrid, cellID string, align models.VerticalAlign) error {
	const op = "set_cell_alignment"
	if !align.IsValid() {
		return invalid(op, "unknown alignment %q", align)
	}
	cell, err := renderedCell(g, op, cellID)
	if err != nil {
		return err
	}
	cell.VAlign = align
	return nil
}

// SetCellContent replaces the rich content of a cell that is rendered on its own.
func (e *Engine) SetCellContent(g *models.TableGrid, cellID, content string) error {
	cell, err := renderedCell(g, "set_cell_content", cellID)
	if err != nil {
		return err
	}
	cell.Content = content
	return nil
}

func renderedCell(g *models.TableGrid, op, cellID string) (*models.Cell, error) {
	pos, ok := Locate(g, cellID)
	if !ok {
		return nil, invalid(op, "unknown cell %q", cellID)
	}
	cell := &g.Rows[pos.Row].Cells[pos.Col]
	if cell.Merged {
		return nil, invalid(op, "cell %q is merged into another cell", cellID)
	}
	return cell, nil
}

// ===== MERGE AND SPLIT =====

// rect is an inclusive-exclusive block of grid slots.
type rect struct {
	top, left, rows, cols int
}

// mergeRect resolves a selection to the rectangle it covers, or explains why it cannot be merged.
func mergeRect(g *models.TableGrid, cellIDs []string) (rect, error) {
	const op = "merge"
	ids := make(map[string]bool, len(cellIDs))
	for _, id := range cellIDs {
		ids[id] = true
	}
	if len(ids) < 2 {
		return rect{}, invalid(op, "a merge needs at least two distinct cells")
	}
	if _, err := buildLayout(g); err != nil {
		return rect{}, err
	}

	top, left, bottom, right := g.RowCount(), g.ColumnCount(), -1, -1
	for id := range ids {
		pos, ok := Locate(g, id)
		if !ok {
			return rect{}, invalid(op, "unknown cell %q", id)
		}
		cell := g.Rows[pos.Row].Cells[pos.Col]
		if cell.Merged || cell.IsMaster() {
			return rect{}, invalid(op, "cell %q is already part of a merge", id)
		}
		top, left = min(top, pos.Row), min(left, pos.Col)
		bottom, right = max(bottom, pos.Row), max(right, pos.Col)
	}

	r := rect{top: top, left: left, rows: bottom - top + 1, cols: right - left + 1}
	// distinct cells inside the bounding box fill it exactly when the counts agree
	if r.rows*r.cols != len(ids) {
		return rect{}, invalid(op, "selection is not a rectangle")
	}
	return r, nil
}

// CanMerge reports whether Merge would accept the selection. It never mutates the grid.
func (e *Engine) CanMerge(g *models.TableGrid, cellIDs []string) bool {
	_, err := mergeRect(g, cellIDs)
	return err == nil
}

// Merge joins a rectangular selection of plain cells into one master cell at its top-left.
// The master receives the space-joined non-empty contents of the selection in row-major
// order; the other cells are flagged merged and cleared.
func (e *Engine) Merge(g *models.TableGrid, cellIDs []string) error {
	r, err := mergeRect(g, cellIDs)
	if err != nil {
		return err
	}

	var parts []string
	for row := r.top; row < r.top+r.rows; row++ {
		for col := r.left; col < r.left+r.cols; col++ {
			if content := strings.TrimSpace(g.Rows[row].Cells[col].Content); content != "" {
				parts = append(parts, content)
			}
		}
	}

	for row := r.top; row < r.top+r.rows; row++ {
		for col := r.left; col < r.left+r.cols; col++ {
			cell := &g.Rows[row].Cells[col]
			if row == r.top && col == r.left {
				cell.RowSpan, cell.ColSpan = r.rows, r.cols
				cell.Content = strings.Join(parts, " ")
				continue
			}
			cell.Merged = true
			cell.Content = ""
			cell.VAlign = models.AlignDefault
		}
	}
	return nil
}

// splitRect resolves the span of a master cell, or explains why it cannot be split.
func splitRect(g *models.TableGrid, cellID string) (rect, error) {
	const op = "split"
	pos, ok := Locate(g, cellID)
	if !ok {
		return rect{}, invalid(op, "unknown cell %q", cellID)
	}
	cell := g.Rows[pos.Row].Cells[pos.Col]
	if cell.Merged || !cell.IsMaster() {
		return rect{}, invalid(op, "cell %q does not span other cells", cellID)
	}
	if _, err := buildLayout(g); err != nil {
		return rect{}, err
	}
	rows, cols := cell.Span()
	return rect{top: pos.Row, left: pos.Col, rows: rows, cols: cols}, nil
}

// CanSplit reports whether Split would accept the cell. It never mutates the grid.
func (e *Engine) CanSplit(g *models.TableGrid, cellID string) bool {
	_, err := splitRect(g, cellID)
	return err == nil
}

// Split restores the cells covered by a master to independent, empty cells and
// drops the master's span. The master keeps its joined content.
func (e *Engine) Split(g *models.TableGrid, cellID string) error {
	r, err := splitRect(g, cellID)
	if err != nil {
		return err
	}
	for row := r.top; row < r.top+r.rows; row++ {
		for col := r.left; col < r.left+r.cols; col++ {
			cell := &g.Rows[row].Cells[col]
			cell.Merged = false
			cell.RowSpan, cell.ColSpan = 0, 0
		}
	}
	return nil
}

// Eligibility answers both merge/split queries for one selection. Split applies only
// to a single selected cell.
type Eligibility struct {
	CanMerge bool `json:"can_merge"`
	CanSplit bool `json:"can_split"`
}

// Eligibility evaluates CanMerge and CanSplit for a selection.
func (e *Engine) Eligibility(g *models.TableGrid, cellIDs []string) Eligibility {
	out := Eligibility{CanMerge: e.CanMerge(g, cellIDs)}
	if len(cellIDs) == 1 {
		out.CanSplit = e.CanSplit(g, cellIDs[0])
	}
	return out
}

func copyLength(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
