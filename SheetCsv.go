package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"gridSheet/contracts"
	"io"
	"strconv"
	"strings"
)

const SheetCsvHeader = "SpreadSheet (Ex2)- saved spreadsheet"

// ReadSheetCsv parses a saved sheet: one header line, then `x,y,value` rows.
// Fields after the value are remarks and ignored. Rows that are too short, have
// non-integer coordinates or an empty value are skipped and counted.
func ReadSheetCsv(reader io.Reader) (entries []contracts.CellEntry, skipped int, err error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true
	csvReader.ReuseRecord = true

	entries = make([]contracts.CellEntry, 0)

	header := true
	for {
		record, readErr := csvReader.Read()
		if readErr == io.EOF {
			break
		}

		var parseErr *csv.ParseError
		if errors.As(readErr, &parseErr) {
			skipped++
			continue
		} else if readErr != nil {
			return nil, skipped, fmt.Errorf("read sheet: %w", readErr)
		}

		if header {
			header = false
			continue
		}

		entry, ok := parseSheetCsvRecord(record)
		if !ok {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}

	return entries, skipped, nil
}

func parseSheetCsvRecord(record []string) (contracts.CellEntry, bool) {
	if len(record) < 3 {
		return contracts.CellEntry{}, false
	}

	x, err := strconv.Atoi(strings.TrimSpace(record[0]))
	if err != nil {
		return contracts.CellEntry{}, false
	}

	y, err := strconv.Atoi(strings.TrimSpace(record[1]))
	if err != nil {
		return contracts.CellEntry{}, false
	}

	if record[2] == "" {
		return contracts.CellEntry{}, false
	}

	return contracts.CellEntry{X: x, Y: y, Value: record[2]}, true
}

// WriteSheetCsv writes the header and one row per entry. Values that need it
// are quoted, so commas and quotes survive a reload. Line breaks inside a value
// are stored as "\n": a reader turns a quoted "\r\n" into "\n" anyway.
func WriteSheetCsv(writer io.Writer, entries []contracts.CellEntry) error {
	if _, err := io.WriteString(writer, SheetCsvHeader+"\n"); err != nil {
		return err
	}

	csvWriter := csv.NewWriter(writer)
	for _, entry := range entries {
		value := strings.ReplaceAll(entry.Value, "\r\n", "\n")
		err := csvWriter.Write([]string{strconv.Itoa(entry.X), strconv.Itoa(entry.Y), value})
		if err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
