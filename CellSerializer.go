package main

import (
	"encoding/binary"
	"fmt"
	"gridSheet/contracts"
)

const serializedHeaderSize = 4

var SerializerError = fmt.Errorf("invalid serialized data")

// CellBinarySerializer encodes an entry as little-endian uint16 x, uint16 y,
// followed by the raw cell text.
type CellBinarySerializer struct {
}

func NewCellBinarySerializer() *CellBinarySerializer {
	return &CellBinarySerializer{}
}

func (s *CellBinarySerializer) Marshal(entry contracts.CellEntry) []byte {
	serializedData := make([]byte, 0, serializedHeaderSize+len(entry.Value))

	serializedData = binary.LittleEndian.AppendUint16(serializedData, uint16(entry.X))
	serializedData = binary.LittleEndian.AppendUint16(serializedData, uint16(entry.Y))
	serializedData = append(serializedData, entry.Value...)
	return serializedData
}

func (s *CellBinarySerializer) Unmarshal(data []byte) (contracts.CellEntry, error) {
	if len(data) < serializedHeaderSize {
		return contracts.CellEntry{}, fmt.Errorf("%w: should be at least %d bytes (data: %v)", SerializerError, serializedHeaderSize, string(data))
	}

	return contracts.CellEntry{
		X:     int(binary.LittleEndian.Uint16(data)),
		Y:     int(binary.LittleEndian.Uint16(data[2:])),
		Value: string(data[serializedHeaderSize:]),
	}, nil
}
