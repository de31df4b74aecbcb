package main

import (
	"fmt"
	"github.com/expr-lang/expr/ast"
	"gridSheet/contracts"
)

// FindReferencesVisitor collects the cell references of a formula in order of
// first appearance. Anything beyond numbers, references, "+-*/" and unary
// signs is recorded as err.
type FindReferencesVisitor struct {
	references []string
	seen       map[string]bool
	err        error
}

func (v *FindReferencesVisitor) Visit(node *ast.Node) {
	if v.err != nil {
		return
	}

	switch n := (*node).(type) {
	case *ast.IntegerNode, *ast.FloatNode:
	case *ast.IdentifierNode:
		if !isReferenceToken(n.Value) {
			v.err = fmt.Errorf("%w: `%s` is not a cell reference", contracts.FormulaError, n.Value)
			return
		}
		if v.seen == nil {
			v.seen = map[string]bool{}
		}
		if !v.seen[n.Value] {
			v.seen[n.Value] = true
			v.references = append(v.references, n.Value)
		}
	case *ast.UnaryNode:
		if len(n.Operator) != 1 || !isSign(n.Operator[0]) {
			v.err = fmt.Errorf("%w: unexpected `%s`", contracts.FormulaError, n.Operator)
		}
	case *ast.BinaryNode:
		if len(n.Operator) != 1 || !isOperator(n.Operator[0]) {
			v.err = fmt.Errorf("%w: unexpected `%s`", contracts.FormulaError, n.Operator)
		}
	default:
		v.err = fmt.Errorf("%w: unexpected %T", contracts.FormulaError, n)
	}
}

// isReferenceToken matches letters followed by digits, e.g. "A1" or "XX12"
func isReferenceToken(text string) bool {
	i := 0
	for i < len(text) && isLetter(text[i]) {
		i++
	}
	if i == 0 || i == len(text) {
		return false
	}
	for ; i < len(text); i++ {
		if !isDigit(text[i]) {
			return false
		}
	}
	return true
}
