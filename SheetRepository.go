package main

import (
	"errors"
	"fmt"
	"go.etcd.io/bbolt"
	"gridSheet/contracts"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// SheetRepository keeps one Grid per sheet id, loaded lazily from storage.
// Writers are serialised, every set is persisted and announced to webhooks
// together with the cells depending on it.
type SheetRepository struct {
	mutex sync.Mutex
	grids map[string]*Grid

	sheetConfig       SheetConfig
	db                *bbolt.DB
	storage           contracts.SheetStorage
	executor          contracts.ExpressionExecutor
	dependencyTree    contracts.CellDependencyTree
	webhookDispatcher contracts.WebhookDispatcher
	logger            *slog.Logger
}

func NewSheetRepository(
	db *bbolt.DB, storage contracts.SheetStorage, executor contracts.ExpressionExecutor,
	webhookDispatcher contracts.WebhookDispatcher, sheetConfig SheetConfig, logger *slog.Logger,
) *SheetRepository {
	return &SheetRepository{
		grids:             map[string]*Grid{},
		sheetConfig:       sheetConfig,
		db:                db,
		storage:           storage,
		executor:          executor,
		dependencyTree:    NewCellDependencyTree(),
		webhookDispatcher: webhookDispatcher,
		logger:            logger,
	}
}

// CanonicalSheetId is the form sheet ids are stored and subscribed under
func CanonicalSheetId(sheetId string) string {
	return strings.ToLower(sheetId)
}

func (s *SheetRepository) SetCell(sheetId string, cellId string, value string) (*contracts.Cell, error) {
	sheetId = CanonicalSheetId(sheetId)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	grid, err := s.loadGrid(sheetId, true)
	if err != nil {
		return nil, err
	}

	address, err := grid.locate(cellId)
	if err != nil {
		return nil, err
	}

	previous := grid.cells[address.Column][address.Row].Text()
	if previous == value {
		return grid.cells[address.Column][address.Row].View(address), nil
	}

	_ = grid.Set(address.Column, address.Row, value)

	err = s.storage.PutCell(sheetId, contracts.CellEntry{X: address.Column, Y: address.Row, Value: value})
	if err != nil {
		_ = grid.Set(address.Column, address.Row, previous)
		return nil, fmt.Errorf("store %s: %w", address, err)
	}

	sheetCell := grid.cells[address.Column][address.Row]

	var dependants []string
	err = s.db.Update(func(tx *bbolt.Tx) error {
		references := s.executor.ExtractReferences(sheetCell.Formula())
		if err := s.dependencyTree.SetDependsOn(tx, []byte(sheetId), address.String(), references); err != nil {
			return err
		}

		dependants = s.dependencyTree.GetDependants(tx, []byte(sheetId), address.String())
		return nil
	})
	if err != nil {
		s.logger.Error("dependency index update failed", "sheet_id", sheetId, "cell_id", address.String(), "error", err)
	}

	cell := sheetCell.View(address)
	s.logger.Debug("cell updated", "sheet_id", sheetId, "cell_id", cell.Address, "kind", cell.Kind, "dependants", len(dependants))

	s.notify(sheetId, append([]*contracts.Cell{cell}, s.viewCells(grid, dependants)...))

	return cell, nil
}

func (s *SheetRepository) GetCell(sheetId string, cellId string) (*contracts.Cell, error) {
	sheetId = CanonicalSheetId(sheetId)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	grid, err := s.loadGrid(sheetId, false)
	if err != nil {
		return nil, err
	}

	address, err := grid.locate(cellId)
	if err != nil {
		return nil, err
	}

	sheetCell := grid.cells[address.Column][address.Row]
	if sheetCell.Kind() == contracts.CellKindEmpty {
		return nil, fmt.Errorf("%s: %w", address, contracts.CellNotFoundError)
	}

	return sheetCell.View(address), nil
}

func (s *SheetRepository) GetCellList(sheetId string) (contracts.CellList, error) {
	sheetId = CanonicalSheetId(sheetId)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	grid, err := s.loadGrid(sheetId, false)
	if err != nil {
		return nil, err
	}

	return grid.CellList(), nil
}

func (s *SheetRepository) GetDependants(sheetId string, cellId string) ([]string, error) {
	sheetId = CanonicalSheetId(sheetId)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	grid, err := s.loadGrid(sheetId, false)
	if err != nil {
		return nil, err
	}

	address, err := grid.locate(cellId)
	if err != nil {
		return nil, err
	}

	var dependants []string
	err = s.db.View(func(tx *bbolt.Tx) error {
		dependants = s.dependencyTree.GetDependants(tx, []byte(sheetId), address.String())
		return nil
	})

	return dependants, err
}

// ImportSheet replaces the whole sheet with the rows of a saved sheet file
func (s *SheetRepository) ImportSheet(sheetId string, reader io.Reader) (contracts.CellList, error) {
	sheetId = CanonicalSheetId(sheetId)

	entries, malformed, err := ReadSheetCsv(reader)
	if err != nil {
		return nil, err
	}

	grid, err := NewGrid(s.sheetConfig.Width, s.sheetConfig.Height, s.executor)
	if err != nil {
		return nil, err
	}
	outOfRange := grid.Restore(entries)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err = s.storage.Save(sheetId, grid.Entries()); err != nil {
		return nil, fmt.Errorf("store %s: %w", sheetId, err)
	}
	s.grids[sheetId] = grid

	if err = s.rebuildDependencies(sheetId, grid); err != nil {
		s.logger.Error("dependency index rebuild failed", "sheet_id", sheetId, "error", err)
	}

	s.logger.Info("sheet imported", "sheet_id", sheetId, "cells", len(entries)-outOfRange, "malformed", malformed, "out_of_range", outOfRange)

	cellList := grid.CellList()
	cells := make([]*contracts.Cell, 0, len(cellList))
	for _, entry := range grid.Entries() {
		cells = append(cells, cellList[contracts.CellAddress{Column: entry.X, Row: entry.Y}.String()])
	}
	s.notify(sheetId, cells)

	return cellList, nil
}

func (s *SheetRepository) ExportSheet(sheetId string, writer io.Writer) error {
	sheetId = CanonicalSheetId(sheetId)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	grid, err := s.loadGrid(sheetId, false)
	if err != nil {
		return err
	}

	return WriteSheetCsv(writer, grid.Entries())
}

func (s *SheetRepository) loadGrid(sheetId string, create bool) (*Grid, error) {
	if grid, ok := s.grids[sheetId]; ok {
		return grid, nil
	}

	entries, err := s.storage.Load(sheetId)
	if errors.Is(err, contracts.SheetNotFoundError) && create {
		entries = nil
	} else if err != nil {
		return nil, err
	}

	grid, err := NewGrid(s.sheetConfig.Width, s.sheetConfig.Height, s.executor)
	if err != nil {
		return nil, err
	}

	if skipped := grid.Restore(entries); skipped > 0 {
		s.logger.Warn("stored cells outside of the sheet skipped", "sheet_id", sheetId, "skipped", skipped)
	}

	s.grids[sheetId] = grid
	return grid, nil
}

func (s *SheetRepository) rebuildDependencies(sheetId string, grid *Grid) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := s.dependencyTree.Clear(tx, []byte(sheetId)); err != nil {
			return err
		}

		for _, entry := range grid.Entries() {
			formula := grid.cells[entry.X][entry.Y].Formula()
			if formula == "" {
				continue
			}

			address := contracts.CellAddress{Column: entry.X, Row: entry.Y}
			err := s.dependencyTree.SetDependsOn(tx, []byte(sheetId), address.String(), s.executor.ExtractReferences(formula))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SheetRepository) viewCells(grid *Grid, cellIds []string) []*contracts.Cell {
	cells := make([]*contracts.Cell, 0, len(cellIds))
	for _, cellId := range cellIds {
		address, err := grid.locate(cellId)
		if err == nil {
			cells = append(cells, grid.cells[address.Column][address.Row].View(address))
		}
	}
	return cells
}

func (s *SheetRepository) notify(sheetId string, cells []*contracts.Cell) {
	if s.webhookDispatcher != nil && len(cells) > 0 {
		s.webhookDispatcher.Notify(sheetId, cells)
	}
}
