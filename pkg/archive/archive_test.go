package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meta-node-blockchain/om-generals/pkg/storage"
)

func sampleRecord(id string) *Record {
	return &Record{
		MissionID: id,
		Generals:  4,
		Faults:    1,
		Order:     true,
		Behavior:  "liar",
		Traitors:  []uint32{3},
		Decisions: []GeneralDecision{
			{ID: 0, Decision: true},
			{ID: 1, Decision: true, Messages: 4},
			{ID: 2, Decision: true, Messages: 4},
			{ID: 3, Decision: false, Faulty: true, Messages: 4},
		},
		Agreement: true,
		Validity:  true,
		Messages:  4,
		CreatedAt: 1700000000,
	}
}

func TestEncodeDecode(t *testing.T) {
	rec := sampleRecord("m-1")
	data, err := Encode(rec)
	require.NoError(t, err)
	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestStoreSaveLoadList(t *testing.T) {
	store := NewStore(storage.NewMemoryDb())

	count, err := store.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)

	require.NoError(t, store.Save(sampleRecord("a")))
	require.NoError(t, store.Save(sampleRecord("b")))

	rec, err := store.Load("b")
	require.NoError(t, err)
	assert.Equal(t, "b", rec.MissionID)
	assert.Len(t, rec.Decisions, 4)

	_, err = store.Load("missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	updated := sampleRecord("a")
	updated.Agreement = false
	require.NoError(t, store.Save(updated))

	count, err = store.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	list, err := store.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].MissionID)
	assert.False(t, list[0].Agreement)
	assert.Equal(t, "b", list[1].MissionID)
}
