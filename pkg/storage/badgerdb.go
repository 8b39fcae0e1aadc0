package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

type BadgerDB struct {
	db   *badger.DB
	path string
	mu   sync.Mutex
}

func NewBadgerDB(path string) (*BadgerDB, error) {
	if path == "" {
		return nil, fmt.Errorf("invalid path: path is empty")
	}
	bdb := &BadgerDB{path: path}
	if err := bdb.Open(); err != nil {
		return nil, err
	}
	return bdb, nil
}

func (bdb *BadgerDB) Open() error {
	bdb.mu.Lock()
	defer bdb.mu.Unlock()
	if bdb.db != nil {
		return nil
	}
	opts := badger.DefaultOptions(bdb.path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("failed to open BadgerDB: %w", err)
	}
	bdb.db = db
	return nil
}

func (bdb *BadgerDB) handle() (*badger.DB, error) {
	bdb.mu.Lock()
	defer bdb.mu.Unlock()
	if bdb.db == nil {
		return nil, fmt.Errorf("BadgerDB at %s is closed", bdb.path)
	}
	return bdb.db, nil
}

func (bdb *BadgerDB) Get(key []byte) ([]byte, error) {
	db, err := bdb.handle()
	if err != nil {
		return nil, err
	}
	var value []byte
	err = db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("[BadgerDB] %w", ErrNotFound)
	}
	return value, err
}

func (bdb *BadgerDB) Put(key, value []byte) error {
	db, err := bdb.handle()
	if err != nil {
		return err
	}
	return db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (bdb *BadgerDB) Has(key []byte) bool {
	db, err := bdb.handle()
	if err != nil {
		return false
	}
	err = db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	return err == nil
}

func (bdb *BadgerDB) Delete(key []byte) error {
	db, err := bdb.handle()
	if err != nil {
		return err
	}
	return db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (bdb *BadgerDB) BatchPut(kvs [][2][]byte) error {
	db, err := bdb.handle()
	if err != nil {
		return err
	}
	wb := db.NewWriteBatch()
	defer wb.Cancel()
	for _, kv := range kvs {
		if err := wb.Set(kv[0], kv[1]); err != nil {
			return fmt.Errorf("failed to set key %x: %w", kv[0], err)
		}
	}
	return wb.Flush()
}

func (bdb *BadgerDB) Close() error {
	bdb.mu.Lock()
	defer bdb.mu.Unlock()
	if bdb.db == nil {
		return nil
	}
	err := bdb.db.Close()
	bdb.db = nil
	return err
}

