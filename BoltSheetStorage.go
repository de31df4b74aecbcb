package main

import (
	"errors"
	"fmt"
	"go.etcd.io/bbolt"
	"gridSheet/contracts"
	"log/slog"
)

var sheetBucketPrefix = []byte("__sheet_")

// BoltSheetStorage keeps one bucket per sheet. Keys are canonical addresses,
// values are CellSerializer encoded entries.
type BoltSheetStorage struct {
	db         *bbolt.DB
	serializer contracts.CellSerializer
	logger     *slog.Logger
}

func NewBoltSheetStorage(db *bbolt.DB, serializer contracts.CellSerializer, logger *slog.Logger) *BoltSheetStorage {
	return &BoltSheetStorage{
		db:         db,
		serializer: serializer,
		logger:     logger,
	}
}

func (s *BoltSheetStorage) Load(sheetId string) (entries []contracts.CellEntry, err error) {
	err = s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(s.makeBucketId(sheetId))
		if bucket == nil {
			return fmt.Errorf("%s: %w", sheetId, contracts.SheetNotFoundError)
		}

		entries = make([]contracts.CellEntry, 0)
		return bucket.ForEach(func(k, v []byte) error {
			entry, unmarshalErr := s.serializer.Unmarshal(v)
			if unmarshalErr != nil {
				s.logger.Warn("skip stored cell", "sheet_id", sheetId, "cell_id", string(k), "error", unmarshalErr)
				return nil
			}
			entries = append(entries, entry)
			return nil
		})
	})

	return
}

func (s *BoltSheetStorage) Save(sheetId string, entries []contracts.CellEntry) error {
	bucketId := s.makeBucketId(sheetId)

	return s.db.Update(func(tx *bbolt.Tx) error {
		err := tx.DeleteBucket(bucketId)
		if err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return err
		}

		bucket, err := tx.CreateBucket(bucketId)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			if err = s.put(bucket, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltSheetStorage) PutCell(sheetId string, entry contracts.CellEntry) error {
	return s.db.Batch(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(s.makeBucketId(sheetId))
		if err != nil {
			return err
		}
		return s.put(bucket, entry)
	})
}

func (s *BoltSheetStorage) put(bucket *bbolt.Bucket, entry contracts.CellEntry) error {
	address, err := contracts.NewCellAddress(entry.X, entry.Y)
	if err != nil {
		return err
	}

	key := []byte(address.String())
	if entry.Value == "" {
		return bucket.Delete(key)
	}
	return bucket.Put(key, s.serializer.Marshal(entry))
}

func (s *BoltSheetStorage) makeBucketId(sheetId string) []byte {
	bucketId := make([]byte, 0, len(sheetBucketPrefix)+len(sheetId))
	bucketId = append(bucketId, sheetBucketPrefix...)
	return append(bucketId, sheetId...)
}
