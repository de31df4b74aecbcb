package main

import (
	"errors"
	"fmt"
	"gridSheet/contracts"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const sheetFileExtension = ".csv"

var InvalidSheetIdError = errors.New("invalid sheet id")

// CsvSheetStorage keeps every sheet as `<dir>/<sheetId>.csv` in the saved
// sheet text format.
type CsvSheetStorage struct {
	dir    string
	logger *slog.Logger
	mutex  sync.Mutex
}

func NewCsvSheetStorage(dir string, logger *slog.Logger) (*CsvSheetStorage, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return &CsvSheetStorage{dir: dir, logger: logger}, nil
}

func (s *CsvSheetStorage) Load(sheetId string) ([]contracts.CellEntry, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.load(sheetId)
}

func (s *CsvSheetStorage) Save(sheetId string, entries []contracts.CellEntry) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.save(sheetId, entries)
}

func (s *CsvSheetStorage) PutCell(sheetId string, entry contracts.CellEntry) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entries, err := s.load(sheetId)
	if errors.Is(err, contracts.SheetNotFoundError) {
		entries = []contracts.CellEntry{}
	} else if err != nil {
		return err
	}

	updated := make([]contracts.CellEntry, 0, len(entries)+1)
	for _, stored := range entries {
		if stored.X != entry.X || stored.Y != entry.Y {
			updated = append(updated, stored)
		}
	}
	if entry.Value != "" {
		updated = append(updated, entry)
	}

	return s.save(sheetId, updated)
}

func (s *CsvSheetStorage) load(sheetId string) ([]contracts.CellEntry, error) {
	path, err := s.makePath(sheetId)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", sheetId, contracts.SheetNotFoundError)
	} else if err != nil {
		return nil, err
	}
	defer file.Close()

	entries, skipped, err := ReadSheetCsv(file)
	if skipped > 0 {
		s.logger.Warn("skipped malformed rows", "sheet_id", sheetId, "path", path, "skipped", skipped)
	}
	return entries, err
}

// save writes a temporary file next to the target and renames it over
func (s *CsvSheetStorage) save(sheetId string, entries []contracts.CellEntry) error {
	path, err := s.makePath(sheetId)
	if err != nil {
		return err
	}

	file, err := os.CreateTemp(s.dir, "."+sheetId+"_*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(file.Name())

	if err = WriteSheetCsv(file, entries); err != nil {
		_ = file.Close()
		return err
	}
	if err = file.Close(); err != nil {
		return err
	}

	return os.Rename(file.Name(), path)
}

func (s *CsvSheetStorage) makePath(sheetId string) (string, error) {
	if sheetId == "" || strings.HasPrefix(sheetId, ".") || strings.ContainsAny(sheetId, `/\`) {
		return "", fmt.Errorf("`%s`: %w", sheetId, InvalidSheetIdError)
	}

	return filepath.Join(s.dir, sheetId+sheetFileExtension), nil
}
