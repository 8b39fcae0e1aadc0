// Package decisiontree stores the messages a general received, one tree
// level per round, and folds them into the OM(m) decision.
package decisiontree

import (
	"errors"
	"fmt"

	"github.com/meta-node-blockchain/om-generals/pkg/message"
)

var (
	ErrRootExists    = errors.New("decision tree already has a root")
	ErrNoRoot        = errors.New("decision tree has no root")
	ErrBadPathLength = errors.New("message path length does not match round")
	ErrOrphan        = errors.New("no parent node for message")
)

type node struct {
	msg      message.Message
	children []int
}

// Tree is an arena of nodes. Index 0 is the root once it is set.
type Tree struct {
	nodes []node
}

func New() *Tree {
	return &Tree{}
}

// Insert adds a message received in the given round. Round 0 sets the root;
// later rounds attach the message under the node whose path equals the
// message path without its last id.
func (t *Tree) Insert(msg message.Message, round int) error {
	if len(msg.Path) != round+1 {
		return fmt.Errorf("%w: round %d, path %s", ErrBadPathLength, round, msg.Key())
	}
	if round == 0 {
		if len(t.nodes) > 0 {
			return ErrRootExists
		}
		t.nodes = append(t.nodes, node{msg: msg.Clone()})
		return nil
	}
	if len(t.nodes) == 0 {
		return ErrNoRoot
	}

	parent, err := t.findParent(msg.Path, round)
	if err != nil {
		return err
	}
	t.nodes = append(t.nodes, node{msg: msg.Clone()})
	t.nodes[parent].children = append(t.nodes[parent].children, len(t.nodes)-1)
	return nil
}

// InsertRound inserts every message of a round.
func (t *Tree) InsertRound(msgs []message.Message, round int) error {
	for _, m := range msgs {
		if err := t.Insert(m, round); err != nil {
			return err
		}
	}
	return nil
}

// findParent descends one level per round, each time choosing the child
// whose path equals the message path truncated to that depth.
func (t *Tree) findParent(path []int, round int) (int, error) {
	cur := 0
	if !message.PathEqual(t.nodes[cur].msg.Path, path[:1]) {
		return 0, fmt.Errorf("%w: %s does not start at the root", ErrOrphan, message.PathKey(path))
	}
	for depth := 1; depth < round; depth++ {
		next := -1
		for _, c := range t.nodes[cur].children {
			if message.PathEqual(t.nodes[c].msg.Path, path[:depth+1]) {
				next = c
				break
			}
		}
		if next < 0 {
			return 0, fmt.Errorf("%w: %s", ErrOrphan, message.PathKey(path))
		}
		cur = next
	}
	return cur, nil
}

// Finalize folds the tree bottom-up. A leaf contributes its own value; an
// internal node contributes the majority of its own value and the
// contributions of its children. The root's contribution is the decision.
func (t *Tree) Finalize() (bool, error) {
	if len(t.nodes) == 0 {
		return false, ErrNoRoot
	}
	return t.fold(0), nil
}

func (t *Tree) fold(idx int) bool {
	n := &t.nodes[idx]
	if len(n.children) == 0 {
		return n.msg.Value
	}
	values := make([]bool, 0, len(n.children)+1)
	values = append(values, n.msg.Value)
	for _, c := range n.children {
		values = append(values, t.fold(c))
	}
	return Majority(values...)
}

// Size is the number of messages stored.
func (t *Tree) Size() int {
	return len(t.nodes)
}

// Depth is the length of the longest root-to-leaf chain, counted in edges.
func (t *Tree) Depth() int {
	if len(t.nodes) == 0 {
		return -1
	}
	deepest := 0
	for _, n := range t.nodes {
		if d := len(n.msg.Path) - 1; d > deepest {
			deepest = d
		}
	}
	return deepest
}

// Walk visits every stored message in pre-order.
func (t *Tree) Walk(fn func(msg message.Message, depth int)) {
	if len(t.nodes) == 0 {
		return
	}
	var visit func(idx, depth int)
	visit = func(idx, depth int) {
		fn(t.nodes[idx].msg, depth)
		for _, c := range t.nodes[idx].children {
			visit(c, depth+1)
		}
	}
	visit(0, 0)
}
