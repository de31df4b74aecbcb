package contracts

import (
	"errors"
	"fmt"
)

// Cell is the outward view of one sheet cell: the raw text as written and the
// text it displays after the last recomputation.
type Cell struct {
	Address string   `json:"address"`
	Value   string   `json:"value"`
	Result  string   `json:"result"`
	Kind    CellKind `json:"kind"`
}

// CellList maps canonical addresses to cells
type CellList map[string]*Cell

// CellKind classifies a cell. Formula is assigned at write time, the two error
// kinds only after the formula has been evaluated.
type CellKind uint8

const (
	CellKindEmpty CellKind = iota
	CellKindText
	CellKindNumber
	CellKindFormula
	CellKindFormulaError
	CellKindCycleError
)

var cellKindNames = [...]string{
	CellKindEmpty:        "empty",
	CellKindText:         "text",
	CellKindNumber:       "number",
	CellKindFormula:      "formula",
	CellKindFormulaError: "formula_error",
	CellKindCycleError:   "cycle_error",
}

func (k CellKind) String() string {
	if int(k) < len(cellKindNames) {
		return cellKindNames[k]
	}
	return fmt.Sprintf("CellKind(%d)", uint8(k))
}

func (k CellKind) MarshalText() ([]byte, error) {
	if int(k) >= len(cellKindNames) {
		return nil, fmt.Errorf("unknown cell kind %d", uint8(k))
	}
	return []byte(cellKindNames[k]), nil
}

func (k *CellKind) UnmarshalText(text []byte) error {
	for kind, name := range cellKindNames {
		if name == string(text) {
			*k = CellKind(kind)
			return nil
		}
	}
	return fmt.Errorf("unknown cell kind %q", text)
}

// IsFormula reports whether the cell was written as a formula, whatever the
// outcome of its last evaluation.
func (k CellKind) IsFormula() bool {
	switch k {
	case CellKindFormula, CellKindFormulaError, CellKindCycleError:
		return true
	case CellKindEmpty, CellKindText, CellKindNumber:
		return false
	}
	return false
}

const (
	// ErrFormToken is displayed by a cell holding a malformed formula
	ErrFormToken = "ERR_FORM!"
	// ErrCycleToken is displayed by a cell taking part in a circular reference
	ErrCycleToken = "ERR_CYCLE!"
)

// Evaluation order ranks reported by cells.
const (
	OrderCycle   = -1
	OrderPlain   = 0
	OrderFormula = 1
)

var CellNotFoundError = errors.New("cell not found")

var InvalidAddressError = errors.New("invalid cell address")

var InvalidSheetSizeError = errors.New("invalid sheet size")
