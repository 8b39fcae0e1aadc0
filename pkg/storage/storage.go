package storage

import (
	"errors"
	"fmt"

	cp "github.com/otiai10/copy"
)

const (
	STORAGE_TYPE_LEVEL_DB  = "level"
	STORAGE_TYPE_BADGER_DB = "badger"
	STORAGE_TYPE_MEMORY_DB = "memory"
)

// ErrNotFound is wrapped by every backend when a key is missing.
var ErrNotFound = errors.New("key not found")

type Storage interface {
	Get([]byte) ([]byte, error)
	Put([]byte, []byte) error
	Has([]byte) bool
	Delete([]byte) error
	BatchPut([][2][]byte) error
	Close() error
	Open() error
}

// LoadDb opens the backend named by dbType. Memory databases ignore dbPath.
func LoadDb(dbPath string, dbType string) (Storage, error) {
	switch dbType {
	case STORAGE_TYPE_MEMORY_DB:
		return NewMemoryDb(), nil
	case STORAGE_TYPE_BADGER_DB:
		db, err := NewBadgerDB(dbPath)
		if err != nil {
			return nil, err
		}
		return db, nil
	case STORAGE_TYPE_LEVEL_DB:
		db, err := NewLevelDB(dbPath, false)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", dbType)
	}
}

// Snapshot copies an on-disk database directory so it can be opened while
// the original is still locked by a running process.
func Snapshot(srcPath, dstPath string) error {
	if err := cp.Copy(srcPath, dstPath); err != nil {
		return fmt.Errorf("snapshot %s: %w", srcPath, err)
	}
	return nil
}
