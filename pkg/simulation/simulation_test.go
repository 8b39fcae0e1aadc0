package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meta-node-blockchain/om-generals/pkg/archive"
	"github.com/meta-node-blockchain/om-generals/pkg/config"
	"github.com/meta-node-blockchain/om-generals/pkg/fault"
	"github.com/meta-node-blockchain/om-generals/pkg/mission"
	"github.com/meta-node-blockchain/om-generals/pkg/storage"
	"github.com/meta-node-blockchain/om-generals/pkg/trace"
)

func TestFourGeneralsAttack(t *testing.T) {
	out, err := Run(Options{Generals: 4, Faults: 1, Order: true})
	require.NoError(t, err)
	assert.NotEmpty(t, out.MissionID)
	require.Len(t, out.Entries, 4)
	for _, e := range out.Entries[1:] {
		assert.True(t, e.Decision, "general %d", e.ID)
	}
	assert.True(t, out.Agreement)
	assert.True(t, out.Validity)
	assert.True(t, out.Decision)
	assert.Equal(t, 1+3, out.Messages)
	assert.Equal(t, map[int]bool{0: true, 1: true, 2: true, 3: true}, out.Decisions)
}

func TestSevenGeneralsRetreat(t *testing.T) {
	out, err := Run(Options{Generals: 7, Faults: 2, Order: false})
	require.NoError(t, err)
	require.Len(t, out.Entries, 7)
	for _, e := range out.Entries[1:] {
		assert.False(t, e.Decision, "general %d", e.ID)
		assert.Equal(t, 37, e.Messages)
	}
	assert.True(t, out.Agreement)
	assert.True(t, out.Validity)
}

func TestRejectedConfiguration(t *testing.T) {
	out, err := Run(Options{Generals: 3, Faults: 1, Order: true})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, mission.ErrInvalidConfiguration)
}

func TestCommanderAlone(t *testing.T) {
	out, err := Run(Options{Generals: 1, Faults: 0, Order: true})
	require.NoError(t, err)
	require.Len(t, out.Entries, 1)
	assert.True(t, out.Entries[0].Decision)
	assert.True(t, out.Agreement)
	assert.True(t, out.Validity)
	assert.Equal(t, 0, out.Messages)
}

func TestBadTraitorIds(t *testing.T) {
	_, err := Run(Options{Generals: 4, Faults: 1, Traitors: []int{4}})
	assert.Error(t, err)
	_, err = Run(Options{Generals: 4, Faults: 1, TraitorCount: 5})
	assert.Error(t, err)
}

func TestAgreementAcrossBehaviors(t *testing.T) {
	behaviors := []string{fault.BehaviorLiar, fault.BehaviorAlternator, fault.BehaviorRandom}
	for _, b := range behaviors {
		for seed := uint64(1); seed <= 4; seed++ {
			out, err := Run(Options{
				Generals:     7,
				Faults:       2,
				Order:        seed%2 == 0,
				TraitorCount: 2,
				Behavior:     b,
				Seed:         seed,
			})
			require.NoError(t, err)
			assert.Len(t, out.Traitors, 2)
			assert.True(t, out.Agreement, "%s seed %d", b, seed)
			assert.True(t, out.Validity, "%s seed %d", b, seed)
		}
	}
}

func TestTraceAndRecord(t *testing.T) {
	rec := &trace.Recorder{}
	out, err := Run(Options{
		MissionID: "fixed-id",
		Generals:  4,
		Faults:    1,
		Order:     true,
		Traitors:  []int{2},
		Behavior:  fault.BehaviorLiar,
		Sink:      rec,
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, out.Traitors)
	assert.Equal(t, 4, rec.Count(trace.PhaseRegister))
	assert.Equal(t, 4, rec.Count(trace.PhaseFinal))

	store := archive.NewStore(storage.NewMemoryDb())
	require.NoError(t, store.Save(out.Record()))
	got, err := store.Load("fixed-id")
	require.NoError(t, err)
	assert.Equal(t, uint32(4), got.Generals)
	assert.Equal(t, []uint32{2}, got.Traitors)
	require.Len(t, got.Decisions, 4)
	assert.True(t, got.Decisions[2].Faulty)
	assert.True(t, got.Agreement)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Traitors = 1
	opts := OptionsFromConfig(cfg)
	assert.Equal(t, 5, opts.Generals)
	assert.Equal(t, 1, opts.Faults)
	assert.Equal(t, 1, opts.TraitorCount)

	out, err := Run(opts)
	require.NoError(t, err)
	assert.True(t, out.Agreement)
	assert.True(t, out.Validity)
}
