package message

import (
	"fmt"
	"strconv"
	"strings"
)

// Message is an order together with the chain of generals it travelled
// through. Path[0] is the commander, the last entry is the sender.
type Message struct {
	Value bool
	Path  []int
}

// New creates the commander's original message.
func New(commanderID int, value bool) Message {
	return Message{Value: value, Path: []int{commanderID}}
}

// SenderID returns the last general that relayed the message.
func (m Message) SenderID() int {
	if len(m.Path) == 0 {
		return -1
	}
	return m.Path[len(m.Path)-1]
}

// Round is the round in which the message was sent.
func (m Message) Round() int {
	return len(m.Path) - 1
}

// Forward creates the copy that forwarderID relays with the given value.
// The returned path is a fresh slice; m is never modified.
func (m Message) Forward(forwarderID int, value bool) Message {
	path := make([]int, len(m.Path), len(m.Path)+1)
	copy(path, m.Path)
	return Message{Value: value, Path: append(path, forwarderID)}
}

// ParentPath is the path of the message this one was relayed from.
func (m Message) ParentPath() []int {
	if len(m.Path) == 0 {
		return nil
	}
	return m.Path[:len(m.Path)-1]
}

// Clone returns a deep copy of m.
func (m Message) Clone() Message {
	return Message{Value: m.Value, Path: append([]int(nil), m.Path...)}
}

// Key renders the path as "0.2.1", usable as a map key.
func (m Message) Key() string {
	return PathKey(m.Path)
}

func (m Message) String() string {
	return fmt.Sprintf("%v@[%s]", m.Value, m.Key())
}

func PathKey(path []int) string {
	var sb strings.Builder
	for i, id := range path {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.Itoa(id))
	}
	return sb.String()
}

// PathEqual compares two provenance paths element by element.
func PathEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Values extracts the order values of a batch of messages.
func Values(msgs []Message) []bool {
	values := make([]bool, len(msgs))
	for i, m := range msgs {
		values[i] = m.Value
	}
	return values
}
