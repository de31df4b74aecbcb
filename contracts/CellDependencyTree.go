package contracts

import "go.etcd.io/bbolt"

type CellDependencyTree interface {
	// SetDependsOn
	/**
	 * For formula `A0 = B1 + C2`, A0 depends on B1 and C2:
	 *  SetDependsOn(tx, sheetId, "A0", []string{"B1", "C2"})
	 * An empty list forgets every dependency of the cell.
	 */
	SetDependsOn(tx *bbolt.Tx, sheetId []byte, dependantCellId string, dependingOnCellIds []string) error

	// GetDependants
	/**
	 * For formulas `A0 = B1 + C2` and `D3 = A0 * 2`
	 * GetDependants("B1") returns ["A0", "D3"]: A0 directly, D3 through A0.
	 */
	GetDependants(tx *bbolt.Tx, sheetId []byte, dependingOnCellId string) []string

	// Clear drops the whole dependency index of a sheet
	Clear(tx *bbolt.Tx, sheetId []byte) error
}
