package main

import (
	"fmt"
	"gridSheet/contracts"
)

func NewValuesMapResolver(values map[string]float64) contracts.CellValueResolver {
	return func(reference string) (float64, error) {
		if value, ok := values[reference]; ok {
			return value, nil
		}
		return 0, fmt.Errorf("%s: %w", reference, contracts.CellNotFoundError)
	}
}
