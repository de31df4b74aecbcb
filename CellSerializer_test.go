package main

import (
	"github.com/stretchr/testify/assert"
	"gridSheet/contracts"
	"testing"
)

func TestCellBinarySerializer_Marshal(t *testing.T) {
	serializer := &CellBinarySerializer{}
	serialized := serializer.Marshal(contracts.CellEntry{X: 1, Y: 2, Value: "value1"})

	assert.Equal(t, []byte{1, 0, 2, 0, 'v', 'a', 'l', 'u', 'e', '1'}, serialized)
}

func TestCellBinarySerializer_Unmarshal(t *testing.T) {
	serializer := &CellBinarySerializer{}

	t.Run("valid_data", func(t *testing.T) {
		assertMarshalAndUnmarshal := func(expected contracts.CellEntry) {
			actual, err := serializer.Unmarshal(serializer.Marshal(expected))

			assert.NoError(t, err)
			assert.Equal(t, expected, actual)
		}

		assertMarshalAndUnmarshal(contracts.CellEntry{X: 0, Y: 0, Value: "5"})
		assertMarshalAndUnmarshal(contracts.CellEntry{X: 25, Y: 99, Value: "=A0+B1*(C2-3)"})
		assertMarshalAndUnmarshal(contracts.CellEntry{X: 3, Y: 7, Value: "text, with a comma and \"quotes\""})
		assertMarshalAndUnmarshal(contracts.CellEntry{X: 3, Y: 7, Value: ""})
	})

	t.Run("empty_data", func(t *testing.T) {
		entry, err := serializer.Unmarshal([]byte{})

		assert.ErrorIs(t, err, SerializerError)
		assert.Equal(t, contracts.CellEntry{}, entry)
	})

	t.Run("invalid_data", func(t *testing.T) {
		entry, err := serializer.Unmarshal([]byte{' ', 'q', 'r'})

		assert.ErrorIs(t, err, SerializerError)
		assert.Equal(t, contracts.CellEntry{}, entry)
	})
}
