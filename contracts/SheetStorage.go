package contracts

// CellEntry is one persisted non-empty cell
type CellEntry struct {
	X     int
	Y     int
	Value string
}

type SheetStorage interface {
	// Load returns the entries of a sheet or SheetNotFoundError
	Load(sheetId string) ([]CellEntry, error)
	// Save replaces every stored entry of a sheet
	Save(sheetId string, entries []CellEntry) error
	// PutCell stores one entry. An empty value removes the cell.
	PutCell(sheetId string, entry CellEntry) error
}
