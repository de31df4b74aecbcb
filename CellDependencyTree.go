package main

import (
	"bytes"
	"errors"
	"fmt"
	"go.etcd.io/bbolt"
)

// CellDependencyTree keeps, per sheet, a bucket with two kinds of keys:
//
//	'r' 0x00 <dependant>                     -> referenced addresses joined by 0x00
//	'd' 0x00 <dependingOn> 0x00 <dependant>  -> empty
//
// The first is the forward list of a formula, the second the reverse edge used
// to find who has to be notified when a cell changes.
type CellDependencyTree struct{}

const Delimiter = byte(0x00)

const (
	referencesKeyTag = byte('r')
	dependantKeyTag  = byte('d')
)

var dependencyBucketPrefix = []byte("__dependencies_")

var EmptySheetIdError = fmt.Errorf("empty sheet id")

func NewCellDependencyTree() *CellDependencyTree {
	return &CellDependencyTree{}
}

func (t *CellDependencyTree) SetDependsOn(tx *bbolt.Tx, sheetId []byte, dependantCellId string, dependingOnCellIds []string) error {
	if len(sheetId) == 0 {
		return EmptySheetIdError
	}

	bucket, err := tx.CreateBucketIfNotExists(t.makeBucketId(sheetId))
	if err != nil {
		return err
	}

	referencesKey := t.makeReferencesKey(dependantCellId)

	stale := map[string]bool{}
	if previous := bucket.Get(referencesKey); previous != nil {
		for _, reference := range bytes.Split(previous, []byte{Delimiter}) {
			stale[string(reference)] = true
		}
	}

	added := false
	for _, dependingOnCellId := range dependingOnCellIds {
		if stale[dependingOnCellId] {
			delete(stale, dependingOnCellId)
			continue
		}

		added = true
		if err = bucket.Put(t.makeDependantKey(dependingOnCellId, dependantCellId), []byte{}); err != nil {
			return err
		}
	}

	if !added && len(stale) == 0 {
		return nil
	}

	for dependingOnCellId := range stale {
		if err = bucket.Delete(t.makeDependantKey(dependingOnCellId, dependantCellId)); err != nil {
			return err
		}
	}

	if len(dependingOnCellIds) == 0 {
		return bucket.Delete(referencesKey)
	}

	references := make([][]byte, 0, len(dependingOnCellIds))
	for _, dependingOnCellId := range dependingOnCellIds {
		references = append(references, []byte(dependingOnCellId))
	}
	return bucket.Put(referencesKey, bytes.Join(references, []byte{Delimiter}))
}

// GetDependants walks the reverse edges breadth first. The start cell is never
// part of the result, even when it sits on a cycle.
func (t *CellDependencyTree) GetDependants(tx *bbolt.Tx, sheetId []byte, dependingOnCellId string) []string {
	dependants := make([]string, 0)
	if len(sheetId) == 0 {
		return dependants
	}

	bucket := tx.Bucket(t.makeBucketId(sheetId))
	if bucket == nil {
		return dependants
	}

	visited := map[string]bool{dependingOnCellId: true}
	queue := []string{dependingOnCellId}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, dependant := range t.fetchDirectDependants(bucket, current) {
			if !visited[dependant] {
				visited[dependant] = true
				dependants = append(dependants, dependant)
				queue = append(queue, dependant)
			}
		}
	}

	return dependants
}

func (t *CellDependencyTree) Clear(tx *bbolt.Tx, sheetId []byte) error {
	if len(sheetId) == 0 {
		return EmptySheetIdError
	}

	err := tx.DeleteBucket(t.makeBucketId(sheetId))
	if errors.Is(err, bbolt.ErrBucketNotFound) {
		return nil
	}
	return err
}

func (t *CellDependencyTree) fetchDirectDependants(bucket *bbolt.Bucket, dependingOnCellId string) []string {
	dependants := make([]string, 0, 4)

	prefix := t.makeDependantPrefix(dependingOnCellId)
	c := bucket.Cursor()
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		dependants = append(dependants, string(k[len(prefix):]))
	}

	return dependants
}

func (t *CellDependencyTree) makeBucketId(sheetId []byte) []byte {
	bucketId := make([]byte, 0, len(dependencyBucketPrefix)+len(sheetId))
	bucketId = append(bucketId, dependencyBucketPrefix...)
	return append(bucketId, sheetId...)
}

func (t *CellDependencyTree) makeReferencesKey(dependantCellId string) []byte {
	return append([]byte{referencesKeyTag, Delimiter}, dependantCellId...)
}

func (t *CellDependencyTree) makeDependantPrefix(dependingOnCellId string) []byte {
	prefix := append([]byte{dependantKeyTag, Delimiter}, dependingOnCellId...)
	return append(prefix, Delimiter)
}

func (t *CellDependencyTree) makeDependantKey(dependingOnCellId string, dependantCellId string) []byte {
	return append(t.makeDependantPrefix(dependingOnCellId), dependantCellId...)
}

/** Terms:
 * dependant of - a formula cell that references another cell
 * depending on - the cell being referenced
 */
