package utils

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Uint64ToBytes converts a uint64 to a byte array.
func Uint64ToBytes(value uint64) []byte {
	bytes := make([]byte, 8)
	binary.BigEndian.PutUint64(bytes, value)
	return bytes
}

// BytesToUint64 converts a byte array to a uint64.
func BytesToUint64(bytes []byte) (uint64, error) {
	if len(bytes) != 8 {
		return 0, fmt.Errorf("byte array must be 8 bytes long")
	}
	return binary.BigEndian.Uint64(bytes), nil
}

// MissionKey is the 32-byte storage key of a mission record.
func MissionKey(missionID string) []byte {
	return crypto.Keccak256([]byte("mission:" + missionID))
}

// MissionIndexKey addresses the seq-th entry of the mission index.
func MissionIndexKey(seq uint64) []byte {
	return crypto.Keccak256([]byte("mission-index:"), Uint64ToBytes(seq))
}

// CounterKey holds the number of archived missions.
func CounterKey() []byte {
	return crypto.Keccak256([]byte("mission-count"))
}

// ShortHex renders the first bytes of a key for logs.
func ShortHex(key []byte) string {
	if len(key) > 6 {
		key = key[:6]
	}
	return common.Bytes2Hex(key)
}
