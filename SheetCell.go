package main

import (
	"errors"
	"fmt"
	"gridSheet/contracts"
	"math"
	"strconv"
	"strings"
)

// SheetCell holds the raw text of one grid position. A new SheetCell is created
// on every write; only the evaluation result of a formula changes afterwards.
type SheetCell struct {
	text    string
	formula string
	kind    contracts.CellKind
	number  float64
}

func NewSheetCell(text string) *SheetCell {
	cell := &SheetCell{text: text}

	if text == "" {
		cell.kind = contracts.CellKindEmpty
	} else if number, ok := parseNumber(text); ok {
		cell.kind = contracts.CellKindNumber
		cell.number = number
	} else if upper := strings.ToUpper(text); IsFormula(upper) {
		cell.kind = contracts.CellKindFormula
		cell.formula = upper
	} else {
		cell.kind = contracts.CellKindText
	}

	return cell
}

func (c *SheetCell) Text() string {
	return c.text
}

// Formula is the upper-cased formula text, empty for other kinds
func (c *SheetCell) Formula() string {
	return c.formula
}

func (c *SheetCell) Kind() contracts.CellKind {
	return c.kind
}

func (c *SheetCell) DisplayValue() string {
	switch c.kind {
	case contracts.CellKindEmpty:
		return ""
	case contracts.CellKindText, contracts.CellKindNumber:
		return c.text
	case contracts.CellKindFormula:
		return FormatNumber(c.number)
	case contracts.CellKindFormulaError:
		return contracts.ErrFormToken
	case contracts.CellKindCycleError:
		return contracts.ErrCycleToken
	}
	return contracts.ErrFormToken
}

func (c *SheetCell) EvaluationOrder() int {
	switch c.kind {
	case contracts.CellKindEmpty, contracts.CellKindText, contracts.CellKindNumber:
		return contracts.OrderPlain
	case contracts.CellKindFormula, contracts.CellKindFormulaError:
		return contracts.OrderFormula
	case contracts.CellKindCycleError:
		return contracts.OrderCycle
	}
	return contracts.OrderPlain
}

func (c *SheetCell) View(address contracts.CellAddress) *contracts.Cell {
	return &contracts.Cell{
		Address: address.String(),
		Value:   c.text,
		Result:  c.DisplayValue(),
		Kind:    c.kind,
	}
}

func (c *SheetCell) setResult(value float64, err error) {
	switch {
	case err == nil:
		c.kind = contracts.CellKindFormula
		c.number = value
	case errors.Is(err, contracts.CircularReferenceError):
		c.kind = contracts.CellKindCycleError
		c.number = 0
	default:
		c.kind = contracts.CellKindFormulaError
		c.number = 0
	}
}

// result replays the outcome stored by setResult
func (c *SheetCell) result(address contracts.CellAddress) (float64, error) {
	switch c.kind {
	case contracts.CellKindCycleError:
		return 0, fmt.Errorf("%s: %w", address, contracts.CircularReferenceError)
	case contracts.CellKindFormulaError:
		return 0, fmt.Errorf("%s: %w", address, contracts.FormulaError)
	case contracts.CellKindEmpty, contracts.CellKindText, contracts.CellKindNumber, contracts.CellKindFormula:
		return c.number, nil
	}
	return c.number, nil
}

func parseNumber(text string) (float64, bool) {
	number, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
		return 0, false
	}
	return number, true
}

// FormatNumber renders a formula result: "5.0", "0.25", "1.0E7", "1.0E-4".
func FormatNumber(value float64) string {
	if value == 0 {
		return "0.0"
	}

	abs := math.Abs(value)
	if abs >= 1e-3 && abs < 1e7 {
		text := strconv.FormatFloat(value, 'f', -1, 64)
		if !strings.Contains(text, ".") {
			text += ".0"
		}
		return text
	}

	mantissa, exponent, _ := strings.Cut(strconv.FormatFloat(value, 'E', -1, 64), "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	power, _ := strconv.Atoi(exponent)
	return mantissa + "E" + strconv.Itoa(power)
}
