package main

import (
	"github.com/stretchr/testify/assert"
	"gridSheet/contracts"
	"testing"
)

func TestNewSheetCell(t *testing.T) {
	t.Run("classification", func(t *testing.T) {
		testCases := map[string]contracts.CellKind{
			"":           contracts.CellKindEmpty,
			"5":          contracts.CellKindNumber,
			"-5.25":      contracts.CellKindNumber,
			"1e3":        contracts.CellKindNumber,
			"hello":      contracts.CellKindText,
			"NaN":        contracts.CellKindText,
			"Inf":        contracts.CellKindText,
			" 5":         contracts.CellKindText,
			"=":          contracts.CellKindText,
			"=A1 + B2":   contracts.CellKindText,
			"=A1++B2":    contracts.CellKindText,
			"=2+3":       contracts.CellKindFormula,
			"=a0":        contracts.CellKindFormula,
			"=XX1":       contracts.CellKindFormula,
			"=1/0":       contracts.CellKindFormula,
			"=A1*(B2+3)": contracts.CellKindFormula,
		}

		for text, expected := range testCases {
			cell := NewSheetCell(text)
			assert.Equal(t, expected, cell.Kind(), text)
			assert.Equal(t, text, cell.Text(), text)
		}
	})

	t.Run("formula_upper_cased", func(t *testing.T) {
		cell := NewSheetCell("=a0+b1")
		assert.Equal(t, "=a0+b1", cell.Text())
		assert.Equal(t, "=A0+B1", cell.Formula())

		assert.Equal(t, "", NewSheetCell("text").Formula())
	})
}

func TestSheetCell_DisplayValue(t *testing.T) {
	assert.Equal(t, "", NewSheetCell("").DisplayValue())
	assert.Equal(t, "5", NewSheetCell("5").DisplayValue())
	assert.Equal(t, "007", NewSheetCell("007").DisplayValue())
	assert.Equal(t, "Test", NewSheetCell("Test").DisplayValue())

	cell := NewSheetCell("=2+3")
	cell.setResult(5, nil)
	assert.Equal(t, "5.0", cell.DisplayValue())
	assert.Equal(t, contracts.CellKindFormula, cell.Kind())

	cell.setResult(0, contracts.DivisionByZeroError)
	assert.Equal(t, contracts.ErrFormToken, cell.DisplayValue())
	assert.Equal(t, contracts.CellKindFormulaError, cell.Kind())

	cell.setResult(0, contracts.CircularReferenceError)
	assert.Equal(t, contracts.ErrCycleToken, cell.DisplayValue())
	assert.Equal(t, contracts.CellKindCycleError, cell.Kind())

	cell.setResult(1.5, nil)
	assert.Equal(t, "1.5", cell.DisplayValue())
	assert.Equal(t, contracts.CellKindFormula, cell.Kind())
}

func TestSheetCell_EvaluationOrder(t *testing.T) {
	assert.Equal(t, contracts.OrderPlain, NewSheetCell("").EvaluationOrder())
	assert.Equal(t, contracts.OrderPlain, NewSheetCell("5").EvaluationOrder())
	assert.Equal(t, contracts.OrderPlain, NewSheetCell("text").EvaluationOrder())
	assert.Equal(t, contracts.OrderFormula, NewSheetCell("=1+1").EvaluationOrder())

	cell := NewSheetCell("=A0")
	cell.setResult(0, contracts.CircularReferenceError)
	assert.Equal(t, contracts.OrderCycle, cell.EvaluationOrder())
}

func TestSheetCell_View(t *testing.T) {
	cell := NewSheetCell("=1+1")
	cell.setResult(2, nil)

	assert.Equal(t, &contracts.Cell{
		Address: "B3",
		Value:   "=1+1",
		Result:  "2.0",
		Kind:    contracts.CellKindFormula,
	}, cell.View(contracts.CellAddress{Column: 1, Row: 3}))
}

func TestFormatNumber(t *testing.T) {
	testCases := map[float64]string{
		0:                   "0.0",
		5:                   "5.0",
		-7:                  "-7.0",
		0.25:                "0.25",
		130.5:               "130.5",
		1e-3:                "0.001",
		9999999:             "9999999.0",
		1e7:                 "1.0E7",
		12345678.9:          "1.23456789E7",
		1e-4:                "1.0E-4",
		-2.5e-5:             "-2.5E-5",
		1e21:                "1.0E21",
		0.30000000000000004: "0.30000000000000004",
	}

	for value, expected := range testCases {
		assert.Equal(t, expected, FormatNumber(value), expected)
	}

	negativeZero := 0.0
	negativeZero = -negativeZero
	assert.Equal(t, "0.0", FormatNumber(negativeZero))
}
