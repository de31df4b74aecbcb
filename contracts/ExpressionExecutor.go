package contracts

import (
	"errors"
	"fmt"
)

// CellValueResolver returns the numeric value of the cell named by a reference
// token such as "A1".
type CellValueResolver func(reference string) (float64, error)

type ExpressionExecutor interface {
	IsFormula(text string) bool
	Evaluate(formula string, resolver CellValueResolver) (float64, error)
	ExtractReferences(formula string) []string
}

var FormulaError = errors.New("formula error")

var CircularReferenceError = errors.New("circular reference detected")

var DivisionByZeroError = fmt.Errorf("%w: %s", FormulaError, "division by zero")
