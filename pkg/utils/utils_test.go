package utils

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestUint64Bytes(t *testing.T) {
	b := Uint64ToBytes(258)
	assert.Equal(t, common.FromHex("0000000000000102"), b)
	v, err := BytesToUint64(b)
	assert.Nil(t, err)
	assert.Equal(t, uint64(258), v)

	_, err = BytesToUint64([]byte{1})
	assert.NotNil(t, err)
}

func TestMissionKeys(t *testing.T) {
	a := MissionKey("a")
	assert.Len(t, a, 32)
	assert.Equal(t, a, MissionKey("a"))
	assert.NotEqual(t, a, MissionKey("b"))
	assert.NotEqual(t, MissionIndexKey(0), MissionIndexKey(1))
	assert.Len(t, CounterKey(), 32)
	assert.Len(t, ShortHex(a), 12)
}
