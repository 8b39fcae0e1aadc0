// Package archive persists the outcome of finished missions.
package archive

import (
	"errors"
	"fmt"
	"sync"

	"github.com/near/borsh-go"

	"github.com/meta-node-blockchain/om-generals/pkg/logger"
	"github.com/meta-node-blockchain/om-generals/pkg/storage"
	"github.com/meta-node-blockchain/om-generals/pkg/utils"
)

type GeneralDecision struct {
	ID       uint32
	Decision bool
	Faulty   bool
	Messages uint32
}

// Record is the borsh-encoded outcome of one mission.
type Record struct {
	MissionID string
	Generals  uint32
	Faults    uint32
	Order     bool
	Behavior  string
	Traitors  []uint32
	Decisions []GeneralDecision
	Agreement bool
	Validity  bool
	Messages  uint64
	CreatedAt int64
}

func Encode(rec *Record) ([]byte, error) {
	data, err := borsh.Serialize(*rec)
	if err != nil {
		return nil, fmt.Errorf("serialize record %s: %w", rec.MissionID, err)
	}
	return data, nil
}

func Decode(data []byte) (*Record, error) {
	rec := new(Record)
	if err := borsh.Deserialize(rec, data); err != nil {
		return nil, fmt.Errorf("deserialize record: %w", err)
	}
	return rec, nil
}

// Store keeps records plus an append-only index of mission ids.
type Store struct {
	db storage.Storage
	mu sync.Mutex
}

func NewStore(db storage.Storage) *Store {
	return &Store{db: db}
}

// Count is the number of archived missions.
func (s *Store) Count() (uint64, error) {
	raw, err := s.db.Get(utils.CounterKey())
	if errors.Is(err, storage.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return utils.BytesToUint64(raw)
}

// Save archives rec. Saving the same mission twice overwrites the record
// without growing the index.
func (s *Store) Save(rec *Record) error {
	data, err := Encode(rec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := utils.MissionKey(rec.MissionID)
	if s.db.Has(key) {
		return s.db.Put(key, data)
	}
	count, err := s.Count()
	if err != nil {
		return fmt.Errorf("read mission counter: %w", err)
	}
	err = s.db.BatchPut([][2][]byte{
		{key, data},
		{utils.MissionIndexKey(count), []byte(rec.MissionID)},
		{utils.CounterKey(), utils.Uint64ToBytes(count + 1)},
	})
	if err != nil {
		return fmt.Errorf("archive mission %s: %w", rec.MissionID, err)
	}
	logger.Debug("Archived mission %s under %s", rec.MissionID, utils.ShortHex(key))
	return nil
}

// Load returns the record of missionID.
func (s *Store) Load(missionID string) (*Record, error) {
	data, err := s.db.Get(utils.MissionKey(missionID))
	if err != nil {
		return nil, fmt.Errorf("load mission %s: %w", missionID, err)
	}
	return Decode(data)
}

// List returns every archived record in the order they were saved.
func (s *Store) List() ([]*Record, error) {
	count, err := s.Count()
	if err != nil {
		return nil, err
	}
	records := make([]*Record, 0, count)
	for seq := uint64(0); seq < count; seq++ {
		id, err := s.db.Get(utils.MissionIndexKey(seq))
		if err != nil {
			return nil, fmt.Errorf("read index %d: %w", seq, err)
		}
		rec, err := s.Load(string(id))
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
