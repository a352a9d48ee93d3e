package event

import (
	"sync"
	"testing"

	"github.com/lixenwraith/particle-core/parameter"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue()
	if got := q.Consume(); got != nil {
		t.Fatalf("empty queue returned %v", got)
	}

	for i := uint64(1); i <= 5; i++ {
		q.Push(Event{Type: EventTargetsReady, Seq: i})
	}
	if q.Len() != 5 {
		t.Errorf("Len = %d, want 5", q.Len())
	}

	got := q.Consume()
	if len(got) != 5 {
		t.Fatalf("consumed %d events, want 5", len(got))
	}
	for i, ev := range got {
		if ev.Seq != uint64(i+1) {
			t.Errorf("event %d seq = %d", i, ev.Seq)
		}
	}
	if q.Len() != 0 {
		t.Errorf("Len after consume = %d", q.Len())
	}
}

func TestQueueDrainKeepsCurrentSeq(t *testing.T) {
	q := NewQueue()
	q.Push(Event{Type: EventTargetsReady, Seq: 1, Payload: &TargetsPayload{Prompt: "a"}})
	q.Push(Event{Type: EventTargetsFailed, Seq: 3, Payload: &TargetsPayload{Prompt: "c"}})
	q.Push(Event{Type: EventTargetsReady, Seq: 2, Payload: &TargetsPayload{Prompt: "b"}})
	q.Push(Event{Type: EventTargetsReady, Seq: 3, Payload: &TargetsPayload{Prompt: "c2"}})

	var stale []uint64
	got := q.Drain(3, func(ev Event) { stale = append(stale, ev.Seq) })
	if len(got) != 2 || got[0].Targets().Prompt != "c" || got[1].Targets().Prompt != "c2" {
		t.Fatalf("drained %+v, want the two seq 3 events in order", got)
	}
	if len(stale) != 2 || stale[0] != 1 || stale[1] != 2 {
		t.Errorf("stale seqs = %v, want [1 2]", stale)
	}
	if q.Len() != 0 {
		t.Errorf("Len after drain = %d", q.Len())
	}
	if got := q.Drain(3, nil); len(got) != 0 {
		t.Errorf("second drain returned %v", got)
	}
}

func TestEventTargetsWithoutPayload(t *testing.T) {
	if p := (Event{Type: EventTargetsReady}).Targets(); p != nil {
		t.Errorf("Targets() = %+v, want nil", p)
	}
}

func TestQueueOverflowKeepsNewest(t *testing.T) {
	q := NewQueue()
	total := parameter.EventQueueSize + 10
	for i := 1; i <= total; i++ {
		q.Push(Event{Seq: uint64(i)})
	}

	got := q.Consume()
	if len(got) != parameter.EventQueueSize {
		t.Fatalf("consumed %d, want %d", len(got), parameter.EventQueueSize)
	}
	if last := got[len(got)-1].Seq; last != uint64(total) {
		t.Errorf("newest seq = %d, want %d", last, total)
	}
	if first := got[0].Seq; first != 11 {
		t.Errorf("oldest kept seq = %d, want 11", first)
	}
}

func TestQueueConcurrentProducers(t *testing.T) {
	q := NewQueue()
	const producers, each = 4, 8

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < each; i++ {
				q.Push(Event{Type: EventTargetsFailed, Seq: uint64(p*each + i)})
			}
		}(p)
	}
	wg.Wait()

	seen := make(map[uint64]bool)
	for _, ev := range q.Consume() {
		seen[ev.Seq] = true
	}
	if len(seen) != producers*each {
		t.Errorf("received %d distinct events, want %d", len(seen), producers*each)
	}
}

func TestEventTypeString(t *testing.T) {
	if EventTargetsReady.String() != "TargetsReady" || EventTargetsFailed.String() != "TargetsFailed" {
		t.Error("unexpected event names")
	}
	if EventType(99).String() != "Unknown" {
		t.Error("unknown type should stringify as Unknown")
	}
}
