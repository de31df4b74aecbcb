package main

import (
	"bytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestSheetPrinter_Render(t *testing.T) {
	printer := NewSheetPrinter(&bytes.Buffer{})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", printer.Render(_newGrid(t)))
	})

	t.Run("used_region", func(t *testing.T) {
		grid := _newGrid(t)
		require.NoError(t, grid.Set(0, 0, "5"))
		require.NoError(t, grid.Set(1, 0, "Test"))
		require.NoError(t, grid.Set(0, 1, "=A0"))

		expected := "  A   B\n" +
			"0   5 Test\n" +
			"1 5.0\n"
		assert.Equal(t, expected, printer.Render(grid))
	})

	t.Run("errors", func(t *testing.T) {
		grid := _newGrid(t)
		require.NoError(t, grid.Set(0, 0, "=A1"))
		require.NoError(t, grid.Set(0, 1, "=A0"))
		require.NoError(t, grid.Set(1, 0, "=1/0"))

		expected := "  A          B\n" +
			"0 ERR_CYCLE! ERR_FORM!\n" +
			"1 ERR_CYCLE!\n"
		assert.Equal(t, expected, printer.Render(grid))
	})

	t.Run("truncate", func(t *testing.T) {
		grid, err := NewGrid(3, 20, NewExpressionExecutor())
		require.NoError(t, err)
		require.NoError(t, grid.Set(0, 11, strings.Repeat("x", 20)))

		lines := strings.Split(strings.TrimSuffix(printer.Render(grid), "\n"), "\n")
		require.Len(t, lines, 13)
		assert.Equal(t, "   A", lines[0])
		assert.Equal(t, "11 "+strings.Repeat("x", 13)+"...", lines[12])
		assert.Equal(t, " 0", lines[1])
	})
}
