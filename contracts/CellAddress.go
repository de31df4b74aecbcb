package contracts

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MaxColumns = 26
	MaxRows    = 100
)

// CellAddress is a zero-based (column, row) pair. Either both components are
// in range or the address equals InvalidCellAddress.
type CellAddress struct {
	Column int
	Row    int
}

var InvalidCellAddress = CellAddress{Column: -1, Row: -1}

// NewCellAddress validates coordinates. Out of range input yields InvalidCellAddress.
func NewCellAddress(column int, row int) (CellAddress, error) {
	address := CellAddress{Column: column, Row: row}
	if !address.IsValid() {
		return InvalidCellAddress, fmt.Errorf("(%d,%d): %w", column, row, InvalidAddressError)
	}
	return address, nil
}

// ParseCellAddress converts text like "b12" to its coordinates. The letter is
// case-insensitive, the row has one or two digits without leading zeros.
func ParseCellAddress(text string) (CellAddress, error) {
	if len(text) < 2 || len(text) > 3 {
		return InvalidCellAddress, fmt.Errorf("%q: %w", text, InvalidAddressError)
	}

	letter := text[0]
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter > 'Z' {
		return InvalidCellAddress, fmt.Errorf("%q: %w", text, InvalidAddressError)
	}

	digits := text[1:]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return InvalidCellAddress, fmt.Errorf("%q: %w", text, InvalidAddressError)
		}
	}
	if len(digits) > 1 && digits[0] == '0' {
		return InvalidCellAddress, fmt.Errorf("%q: %w", text, InvalidAddressError)
	}

	row, err := strconv.Atoi(digits)
	if err != nil {
		return InvalidCellAddress, fmt.Errorf("%q: %w", text, InvalidAddressError)
	}

	return NewCellAddress(int(letter-'A'), row)
}

func (a CellAddress) IsValid() bool {
	return a.Column >= 0 && a.Column < MaxColumns && a.Row >= 0 && a.Row < MaxRows
}

// String formats a valid address as "A0". InvalidCellAddress formats as "".
func (a CellAddress) String() string {
	if !a.IsValid() {
		return ""
	}

	var builder strings.Builder
	builder.WriteByte(byte('A' + a.Column))
	builder.WriteString(strconv.Itoa(a.Row))
	return builder.String()
}
