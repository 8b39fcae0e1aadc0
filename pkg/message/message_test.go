package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMessage(t *testing.T) {
	m := New(0, true)
	assert.Equal(t, []int{0}, m.Path)
	assert.Equal(t, 0, m.SenderID())
	assert.Equal(t, 0, m.Round())
	assert.True(t, m.Value)
}

func TestForwardDoesNotAliasPath(t *testing.T) {
	orig := New(0, true).Forward(1, true)
	// Leave spare capacity so a naive append would write into the shared array.
	orig.Path = append(make([]int, 0, 8), orig.Path...)

	a := orig.Forward(2, false)
	b := orig.Forward(3, true)

	assert.Equal(t, []int{0, 1}, orig.Path)
	assert.Equal(t, []int{0, 1, 2}, a.Path)
	assert.Equal(t, []int{0, 1, 3}, b.Path)
	assert.True(t, orig.Value)

	a.Path[0] = 42
	assert.Equal(t, 0, orig.Path[0])
	assert.Equal(t, 0, b.Path[0])
}

func TestForwardLength(t *testing.T) {
	m := New(0, false)
	for r := 1; r <= 4; r++ {
		m = m.Forward(r, false)
		assert.Equal(t, r+1, len(m.Path))
		assert.Equal(t, r, m.Round())
		assert.Equal(t, r, m.SenderID())
	}
}

func TestParentPathAndKey(t *testing.T) {
	m := Message{Value: true, Path: []int{0, 3, 1}}
	assert.Equal(t, []int{0, 3}, m.ParentPath())
	assert.Equal(t, "0.3.1", m.Key())
	assert.Equal(t, "true@[0.3.1]", m.String())
}

func TestPathEqual(t *testing.T) {
	assert.True(t, PathEqual([]int{0, 1}, []int{0, 1}))
	assert.False(t, PathEqual([]int{0, 1}, []int{0, 2}))
	assert.False(t, PathEqual([]int{0}, []int{0, 1}))
	assert.True(t, PathEqual(nil, []int{}))
}

func TestClone(t *testing.T) {
	m := Message{Value: true, Path: []int{0, 1}}
	c := m.Clone()
	c.Path[1] = 9
	assert.Equal(t, []int{0, 1}, m.Path)
}

func TestValues(t *testing.T) {
	msgs := []Message{{Value: true}, {Value: false}, {Value: true}}
	assert.Equal(t, []bool{true, false, true}, Values(msgs))
}
