package storage

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/meta-node-blockchain/om-generals/pkg/logger"
)

type LevelDB struct {
	db       *leveldb.DB
	closed   bool
	path     string
	readOnly bool
	mu       sync.Mutex
}

const maxOpenRetries = 5

// NewLevelDB opens the database at path, retrying when the process has run
// out of file descriptors.
func NewLevelDB(path string, isReadOnly bool) (*LevelDB, error) {
	if path == "" {
		return nil, fmt.Errorf("invalid path: path is empty")
	}
	lvDb := &LevelDB{path: path, readOnly: isReadOnly, closed: true}
	if err := lvDb.Open(); err != nil {
		return nil, err
	}
	return lvDb, nil
}

func (lvDb *LevelDB) options() *opt.Options {
	return &opt.Options{
		BlockCacheCapacity: 8 * opt.MiB,
		ReadOnly:           lvDb.readOnly,
	}
}

func (lvDb *LevelDB) Open() error {
	lvDb.mu.Lock()
	defer lvDb.mu.Unlock()
	if !lvDb.closed {
		return nil
	}

	var err error
	for i := 0; i < maxOpenRetries; i++ {
		lvDb.db, err = leveldb.OpenFile(lvDb.path, lvDb.options())
		if err == nil {
			lvDb.closed = false
			return nil
		}
		if !strings.Contains(err.Error(), "too many open files") {
			break
		}
		logger.Warn("Failed to open LevelDB (attempt %d/%d): %v", i+1, maxOpenRetries, err)
	}
	return fmt.Errorf("failed to open LevelDB at %s: %w", lvDb.path, err)
}

func (lvDb *LevelDB) handle() (*leveldb.DB, error) {
	lvDb.mu.Lock()
	defer lvDb.mu.Unlock()
	if lvDb.closed {
		return nil, fmt.Errorf("LevelDB at %s is closed", lvDb.path)
	}
	return lvDb.db, nil
}

func (lvDb *LevelDB) Get(key []byte) ([]byte, error) {
	db, err := lvDb.handle()
	if err != nil {
		return nil, err
	}
	value, err := db.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("[LevelDB] %w", ErrNotFound)
	}
	return value, err
}

func (lvDb *LevelDB) Put(key, value []byte) error {
	db, err := lvDb.handle()
	if err != nil {
		return err
	}
	return db.Put(key, value, nil)
}

func (lvDb *LevelDB) Has(key []byte) bool {
	db, err := lvDb.handle()
	if err != nil {
		return false
	}
	has, _ := db.Has(key, nil)
	return has
}

func (lvDb *LevelDB) Delete(key []byte) error {
	db, err := lvDb.handle()
	if err != nil {
		return err
	}
	return db.Delete(key, nil)
}

func (lvDb *LevelDB) BatchPut(kvs [][2][]byte) error {
	db, err := lvDb.handle()
	if err != nil {
		return err
	}
	batch := new(leveldb.Batch)
	for i := range kvs {
		batch.Put(kvs[i][0], kvs[i][1])
	}
	return db.Write(batch, nil)
}

func (lvDb *LevelDB) Close() error {
	lvDb.mu.Lock()
	defer lvDb.mu.Unlock()
	if lvDb.closed {
		return nil
	}
	if err := lvDb.db.Close(); err != nil {
		logger.Error("Failed to close LevelDB at path %s: %v", lvDb.path, err)
		return err
	}
	lvDb.closed = true
	return nil
}

func (lvDb *LevelDB) Path() string {
	return lvDb.path
}
