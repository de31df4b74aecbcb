package main

import (
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gridSheet/contracts"
	"testing"
)

func TestFindReferencesVisitor(t *testing.T) {
	t.Run("references", func(t *testing.T) {
		visitor := _visitReferences(t, "A1+(B2*-A1)/XX12-3.5")

		assert.NoError(t, visitor.err)
		assert.Equal(t, []string{"A1", "B2", "XX12"}, visitor.references)
	})

	t.Run("no_references", func(t *testing.T) {
		visitor := _visitReferences(t, "(1+2)*3")

		assert.NoError(t, visitor.err)
		assert.Empty(t, visitor.references)
	})

	t.Run("rejected", func(t *testing.T) {
		for _, body := range []string{"A", "A1B", "1..2", "A1**2", "A1%2", "not A1", "A1 > 2", "A1(2)", "[1]", "'text'", "true"} {
			visitor := _visitReferences(t, body)
			assert.ErrorIs(t, visitor.err, contracts.FormulaError, body)
		}
	})
}

func TestIsReferenceToken(t *testing.T) {
	for _, text := range []string{"A1", "Z99", "XX1", "B012"} {
		assert.True(t, isReferenceToken(text), text)
	}
	for _, text := range []string{"", "A", "1", "1A", "A1B", "a1"} {
		assert.False(t, isReferenceToken(text), text)
	}
}

func _visitReferences(t *testing.T, body string) *FindReferencesVisitor {
	tree, err := parser.Parse(body)
	require.NoError(t, err, body)

	visitor := &FindReferencesVisitor{}
	ast.Walk(&tree.Node, visitor)
	return visitor
}
