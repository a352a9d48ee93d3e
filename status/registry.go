package status

import (
	"strconv"
	"sync/atomic"
)

// Metric keys written by the scene and engine
const (
	KeyFrames       = "frames"
	KeyParticles    = "particles"
	KeyShapeChanges = "shape.changes"
	KeyAIRequests   = "ai.requests"
	KeyAIFailures   = "ai.failures"
	KeyAIStale      = "ai.stale"
	KeyAIPending    = "ai.pending"
	KeyAILoading    = "ai.loading"
	KeyShape        = "shape"
	KeyScale        = "scale"
)

// Registry is the central metrics facade
// Producers cache pointers at construction; update loops write directly to atomics
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// Entry is one formatted metric
type Entry struct {
	Key, Value string
}

// Snapshot formats every metric, grouped by kind then sorted by key
func (r *Registry) Snapshot() []Entry {
	out := make([]Entry, 0, r.TotalCount())
	r.Strings.Range(func(k string, v *AtomicString) { out = append(out, Entry{k, v.Load()}) })
	r.Ints.Range(func(k string, v *atomic.Int64) { out = append(out, Entry{k, strconv.FormatInt(v.Load(), 10)}) })
	r.Floats.Range(func(k string, v *AtomicFloat) { out = append(out, Entry{k, strconv.FormatFloat(v.Get(), 'f', 2, 64)}) })
	r.Bools.Range(func(k string, v *atomic.Bool) { out = append(out, Entry{k, strconv.FormatBool(v.Load())}) })
	return out
}

// TotalCount returns total metrics across all kinds
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}
