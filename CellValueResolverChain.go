package main

import (
	"errors"
	"gridSheet/contracts"
)

// NewCellValueResolverChain asks second only for references first reports as
// CellNotFoundError
func NewCellValueResolverChain(first contracts.CellValueResolver, second contracts.CellValueResolver) contracts.CellValueResolver {
	if second == nil {
		return first
	}

	if first == nil {
		return second
	}

	return func(reference string) (float64, error) {
		value, err := first(reference)
		if errors.Is(err, contracts.CellNotFoundError) {
			return second(reference)
		}
		return value, err
	}
}
