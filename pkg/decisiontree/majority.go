package decisiontree

import "github.com/meta-node-blockchain/om-generals/pkg/message"

// Majority returns true only when strictly more values are true than false.
// Ties resolve to false.
func Majority(values ...bool) bool {
	sum := 0
	for _, v := range values {
		if v {
			sum++
		} else {
			sum--
		}
	}
	return sum > 0
}

// MajorityOf applies Majority to the values carried by msgs.
func MajorityOf(msgs []message.Message) bool {
	return Majority(message.Values(msgs)...)
}
