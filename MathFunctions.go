package main

import (
	"fmt"
	"github.com/expr-lang/expr"
	"gridSheet/contracts"
	"math"
)

// divideFunctionName is lower case, so formulas (always upper-cased) cannot
// call it directly
const divideFunctionName = "divide"

var divideFunction = expr.Function(divideFunctionName, divide)

func divide(params ...any) (any, error) {
	if len(params) != 2 {
		return nil, fmt.Errorf("%w: divide takes 2 arguments", contracts.FormulaError)
	}

	left, leftOk := params[0].(float64)
	right, rightOk := params[1].(float64)
	if !leftOk || !rightOk {
		return nil, fmt.Errorf("%w: cannot divide %T by %T", contracts.FormulaError, params[0], params[1])
	}

	if right == 0 {
		return nil, contracts.DivisionByZeroError
	}
	if math.IsInf(left, 0) || math.IsInf(right, 0) || math.IsNaN(left) || math.IsNaN(right) {
		return nil, fmt.Errorf("%w: %v / %v is out of range", contracts.FormulaError, left, right)
	}

	return left / right, nil
}
