package contracts

import (
	"errors"
	"io"
)

type SheetRepository interface {
	SetCell(sheetId string, cellId string, value string) (*Cell, error)
	GetCell(sheetId string, cellId string) (*Cell, error)
	GetCellList(sheetId string) (CellList, error)
	GetDependants(sheetId string, cellId string) ([]string, error)
	ImportSheet(sheetId string, reader io.Reader) (CellList, error)
	ExportSheet(sheetId string, writer io.Writer) error
}

var SheetNotFoundError = errors.New("sheet not found")
