package main

import (
	"fmt"
	"gridSheet/contracts"
)

// Grid is a fixed width x height matrix of cells. Every write recomputes every
// formula, so readers always observe an evaluated, error-tagged sheet.
type Grid struct {
	width    int
	height   int
	cells    [][]*SheetCell
	executor contracts.ExpressionExecutor
}

func NewGrid(width int, height int, executor contracts.ExpressionExecutor) (*Grid, error) {
	if width < 1 || width > contracts.MaxColumns || height < 1 || height > contracts.MaxRows {
		return nil, fmt.Errorf("%dx%d (max %dx%d): %w", width, height, contracts.MaxColumns, contracts.MaxRows, contracts.InvalidSheetSizeError)
	}

	g := &Grid{
		width:    width,
		height:   height,
		cells:    make([][]*SheetCell, width),
		executor: executor,
	}
	for x := range g.cells {
		g.cells[x] = make([]*SheetCell, height)
	}
	g.Clear()

	return g, nil
}

func (g *Grid) Width() int {
	return g.width
}

func (g *Grid) Height() int {
	return g.height
}

func (g *Grid) IsIn(x int, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

func (g *Grid) Get(x int, y int) (*SheetCell, error) {
	if !g.IsIn(x, y) {
		return nil, fmt.Errorf("(%d,%d): %w", x, y, contracts.CellNotFoundError)
	}
	return g.cells[x][y], nil
}

func (g *Grid) GetByAddress(cellId string) (*SheetCell, error) {
	address, err := g.locate(cellId)
	if err != nil {
		return nil, err
	}
	return g.cells[address.Column][address.Row], nil
}

// Set replaces the cell and recomputes the sheet
func (g *Grid) Set(x int, y int, text string) error {
	if !g.IsIn(x, y) {
		return fmt.Errorf("(%d,%d): %w", x, y, contracts.CellNotFoundError)
	}

	g.cells[x][y] = NewSheetCell(text)
	g.RecomputeAll()
	return nil
}

func (g *Grid) SetByAddress(cellId string, text string) (contracts.CellAddress, error) {
	address, err := g.locate(cellId)
	if err != nil {
		return contracts.InvalidCellAddress, err
	}
	return address, g.Set(address.Column, address.Row, text)
}

// Value is the display text of a cell, "" outside of the grid
func (g *Grid) Value(x int, y int) string {
	cell, err := g.Get(x, y)
	if err != nil {
		return ""
	}
	return cell.DisplayValue()
}

// Eval evaluates a single cell and its references on demand
func (g *Grid) Eval(x int, y int) (string, error) {
	address, err := contracts.NewCellAddress(x, y)
	if err != nil || !g.IsIn(x, y) {
		return "", fmt.Errorf("(%d,%d): %w", x, y, contracts.CellNotFoundError)
	}

	_, _ = newEvaluationSession(g).evaluate(address)
	return g.cells[x][y].DisplayValue(), nil
}

// EvalFormula evaluates a formula against the sheet without storing it
func (g *Grid) EvalFormula(formula string) (float64, error) {
	return g.executor.Evaluate(formula, newEvaluationSession(g).resolver)
}

// RecomputeAll evaluates every formula cell once. Iteration order does not
// matter: each formula resolves its own references recursively.
func (g *Grid) RecomputeAll() {
	session := newEvaluationSession(g)
	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			if g.cells[x][y].Kind().IsFormula() {
				_, _ = session.evaluate(contracts.CellAddress{Column: x, Row: y})
			}
		}
	}
}

// Depth reports the evaluation order of every cell, indexed [x][y]
func (g *Grid) Depth() [][]int {
	depth := make([][]int, g.width)
	for x := range depth {
		depth[x] = make([]int, g.height)
		for y := range depth[x] {
			depth[x][y] = g.cells[x][y].EvaluationOrder()
		}
	}
	return depth
}

func (g *Grid) Clear() {
	for x := range g.cells {
		for y := range g.cells[x] {
			g.cells[x][y] = NewSheetCell("")
		}
	}
}

// Entries lists the non-empty cells column by column
func (g *Grid) Entries() []contracts.CellEntry {
	entries := make([]contracts.CellEntry, 0)
	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			if text := g.cells[x][y].Text(); text != "" {
				entries = append(entries, contracts.CellEntry{X: x, Y: y, Value: text})
			}
		}
	}
	return entries
}

// Restore clears the grid, applies the entries that fit and recomputes once.
// It returns the number of skipped entries.
func (g *Grid) Restore(entries []contracts.CellEntry) (skipped int) {
	g.Clear()
	for _, entry := range entries {
		if !g.IsIn(entry.X, entry.Y) {
			skipped++
			continue
		}
		g.cells[entry.X][entry.Y] = NewSheetCell(entry.Value)
	}
	g.RecomputeAll()
	return
}

// CellList is the outward view of every non-empty cell
func (g *Grid) CellList() contracts.CellList {
	cellList := contracts.CellList{}
	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			cell := g.cells[x][y]
			if cell.Kind() != contracts.CellKindEmpty {
				address := contracts.CellAddress{Column: x, Row: y}
				cellList[address.String()] = cell.View(address)
			}
		}
	}
	return cellList
}

func (g *Grid) locate(cellId string) (contracts.CellAddress, error) {
	address, err := contracts.ParseCellAddress(cellId)
	if err != nil {
		return contracts.InvalidCellAddress, err
	}
	if !g.IsIn(address.Column, address.Row) {
		return contracts.InvalidCellAddress, fmt.Errorf("%s: %w", address, contracts.CellNotFoundError)
	}
	return address, nil
}

// evaluationSession is scoped to one recomputation. inProgress holds the cells
// on the current resolution chain, finished the cells already evaluated and
// values the results of the finished formulas by address.
type evaluationSession struct {
	grid       *Grid
	inProgress map[contracts.CellAddress]bool
	finished   map[contracts.CellAddress]bool
	values     map[string]float64
	resolver   contracts.CellValueResolver
}

func newEvaluationSession(grid *Grid) *evaluationSession {
	s := &evaluationSession{
		grid:       grid,
		inProgress: map[contracts.CellAddress]bool{},
		finished:   map[contracts.CellAddress]bool{},
		values:     map[string]float64{},
	}
	s.resolver = NewCellValueResolverChain(NewValuesMapResolver(s.values), s.resolveCell)
	return s
}

func (s *evaluationSession) evaluate(address contracts.CellAddress) (float64, error) {
	cell := s.grid.cells[address.Column][address.Row]

	switch cell.Kind() {
	case contracts.CellKindEmpty:
		return 0, nil
	case contracts.CellKindNumber:
		return cell.number, nil
	case contracts.CellKindText:
		return 0, fmt.Errorf("%s: %w: `%s` is not a number", address, contracts.FormulaError, cell.Text())
	case contracts.CellKindFormula, contracts.CellKindFormulaError, contracts.CellKindCycleError:
		return s.evaluateFormula(address, cell)
	}

	return 0, fmt.Errorf("%s: %w: unknown cell kind %s", address, contracts.FormulaError, cell.Kind())
}

func (s *evaluationSession) evaluateFormula(address contracts.CellAddress, cell *SheetCell) (float64, error) {
	if s.finished[address] {
		return cell.result(address)
	}

	if s.inProgress[address] {
		cell.setResult(0, contracts.CircularReferenceError)
		return 0, fmt.Errorf("%s: %w", address, contracts.CircularReferenceError)
	}

	s.inProgress[address] = true
	value, err := s.grid.executor.Evaluate(cell.Formula(), s.resolver)
	delete(s.inProgress, address)

	s.finished[address] = true
	cell.setResult(value, err)
	if err == nil {
		s.values[address.String()] = value
	}

	return value, err
}

func (s *evaluationSession) resolveCell(reference string) (float64, error) {
	address, err := s.grid.locate(reference)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", contracts.FormulaError, err)
	}
	return s.evaluate(address)
}
