package logger

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/meta-node-blockchain/om-generals/pkg/trace"
)

// Sink writes trace events to the console at TRACE level. A mission emits
// O(n^m) events, so writes are throttled; dropped events are counted.
type Sink struct {
	limiter *rate.Limiter
	dropped atomic.Int64
}

// NewSink allows perSecond events per second with bursts of burst.
// perSecond <= 0 disables throttling.
func NewSink(perSecond float64, burst int) *Sink {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst < 1 {
		burst = 1
	}
	return &Sink{limiter: rate.NewLimiter(limit, burst)}
}

func (s *Sink) Emit(ev trace.Event) {
	if !Enabled(FLAG_TRACE) {
		return
	}
	if !s.limiter.Allow() {
		s.dropped.Add(1)
		return
	}
	Trace("general %d round %d %s %s", ev.ParticipantID, ev.Round, ev.Phase, formatPayload(ev.Payload))
}

// Dropped is the number of events discarded by the limiter.
func (s *Sink) Dropped() int64 {
	return s.dropped.Load()
}

func formatPayload(payload map[string]interface{}) string {
	if len(payload) == 0 {
		return ""
	}
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, payload[k])
	}
	return strings.Join(parts, " ")
}
