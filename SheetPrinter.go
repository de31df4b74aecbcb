package main

import (
	"github.com/charmbracelet/lipgloss"
	"gridSheet/contracts"
	"io"
	"strconv"
	"strings"
)

const (
	sheetPrinterMaxColumnWidth = 16
	truncationSuffix           = "..."
)

// SheetPrinter renders the used part of a sheet as a terminal table. Error
// tokens and formula results get their own styles.
type SheetPrinter struct {
	headerStyle  lipgloss.Style
	formulaStyle lipgloss.Style
	errorStyle   lipgloss.Style
	dimStyle     lipgloss.Style
	plainStyle   lipgloss.Style
}

func NewSheetPrinter(output io.Writer) *SheetPrinter {
	renderer := lipgloss.NewRenderer(output)

	return &SheetPrinter{
		headerStyle:  renderer.NewStyle().Bold(true),
		formulaStyle: renderer.NewStyle().Foreground(lipgloss.Color("6")),
		errorStyle:   renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		dimStyle:     renderer.NewStyle().Faint(true),
		plainStyle:   renderer.NewStyle(),
	}
}

// Render prints columns A..last used and rows 0..last used. An empty sheet
// renders as "".
func (p *SheetPrinter) Render(grid *Grid) string {
	columns, rows := usedRegion(grid)
	if columns == 0 {
		return ""
	}

	widths := make([]int, columns)
	for x := 0; x < columns; x++ {
		widths[x] = 1
		for y := 0; y < rows; y++ {
			widths[x] = max(widths[x], lipgloss.Width(truncate(grid.Value(x, y))))
		}
	}
	labelWidth := len(strconv.Itoa(rows - 1))

	var sb strings.Builder

	header := make([]string, 0, columns+1)
	header = append(header, pad("", "", labelWidth, false))
	for x := 0; x < columns; x++ {
		letter := string(rune('A' + x))
		header = append(header, pad(p.headerStyle.Render(letter), letter, widths[x], false))
	}
	sb.WriteString(strings.TrimRight(strings.Join(header, " "), " "))
	sb.WriteString("\n")

	for y := 0; y < rows; y++ {
		label := strconv.Itoa(y)
		line := make([]string, 0, columns+1)
		line = append(line, pad(p.dimStyle.Render(label), label, labelWidth, true))

		for x := 0; x < columns; x++ {
			cell, _ := grid.Get(x, y)
			value := truncate(cell.DisplayValue())
			line = append(line, pad(p.style(cell.Kind()).Render(value), value, widths[x], isNumeric(cell.Kind())))
		}
		sb.WriteString(strings.TrimRight(strings.Join(line, " "), " "))
		sb.WriteString("\n")
	}

	return sb.String()
}

func (p *SheetPrinter) style(kind contracts.CellKind) lipgloss.Style {
	switch kind {
	case contracts.CellKindFormula:
		return p.formulaStyle
	case contracts.CellKindFormulaError, contracts.CellKindCycleError:
		return p.errorStyle
	case contracts.CellKindEmpty, contracts.CellKindText, contracts.CellKindNumber:
		return p.plainStyle
	}
	return p.plainStyle
}

func isNumeric(kind contracts.CellKind) bool {
	return kind == contracts.CellKindNumber || kind == contracts.CellKindFormula
}

// usedRegion is the smallest top-left anchored rectangle holding every
// non-empty cell
func usedRegion(grid *Grid) (columns int, rows int) {
	for _, entry := range grid.Entries() {
		columns = max(columns, entry.X+1)
		rows = max(rows, entry.Y+1)
	}
	return
}

func truncate(value string) string {
	runes := []rune(value)
	if len(runes) <= sheetPrinterMaxColumnWidth {
		return value
	}
	return string(runes[:sheetPrinterMaxColumnWidth-len(truncationSuffix)]) + truncationSuffix
}

// pad pads styled text to width, measuring the plain text
func pad(styledText string, plainText string, width int, alignRight bool) string {
	padding := width - lipgloss.Width(plainText)
	if padding <= 0 {
		return styledText
	}
	if alignRight {
		return strings.Repeat(" ", padding) + styledText
	}
	return styledText + strings.Repeat(" ", padding)
}
