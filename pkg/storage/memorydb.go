package storage

import (
	"encoding/hex"
	"fmt"
	"sync"
)

// MemoryDB keeps values in a map keyed by the first 32 bytes of the key.
type MemoryDB struct {
	db map[[32]byte][]byte
	sync.RWMutex
}

func NewMemoryDb() *MemoryDB {
	return &MemoryDB{
		db: make(map[[32]byte][]byte),
	}
}

func toKey(key []byte) [32]byte {
	var bytes32 [32]byte
	copy(bytes32[:], key)
	return bytes32
}

func (kv *MemoryDB) Get(key []byte) ([]byte, error) {
	kv.RLock()
	defer kv.RUnlock()
	if v, ok := kv.db[toKey(key)]; ok {
		return append([]byte(nil), v...), nil
	}
	return nil, fmt.Errorf("[MemKV] %w: %s", ErrNotFound, hex.EncodeToString(key))
}

func (kv *MemoryDB) Put(key, value []byte) error {
	kv.Lock()
	defer kv.Unlock()
	kv.db[toKey(key)] = append([]byte(nil), value...)
	return nil
}

func (kv *MemoryDB) Has(key []byte) bool {
	kv.RLock()
	defer kv.RUnlock()
	_, ok := kv.db[toKey(key)]
	return ok
}

func (kv *MemoryDB) Delete(key []byte) error {
	kv.Lock()
	defer kv.Unlock()
	k := toKey(key)
	if _, ok := kv.db[k]; !ok {
		return fmt.Errorf("[MemKV] %w: %s", ErrNotFound, hex.EncodeToString(key))
	}
	delete(kv.db, k)
	return nil
}

func (kv *MemoryDB) BatchPut(kvs [][2][]byte) error {
	kv.Lock()
	defer kv.Unlock()
	for i := range kvs {
		kv.db[toKey(kvs[i][0])] = append([]byte(nil), kvs[i][1]...)
	}
	return nil
}

func (kv *MemoryDB) Close() error {
	return nil
}

func (kv *MemoryDB) Open() error {
	return nil
}

func (kv *MemoryDB) Size() int {
	kv.RLock()
	defer kv.RUnlock()
	return len(kv.db)
}
