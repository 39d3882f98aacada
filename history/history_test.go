package history

import (
	"testing"
	"time"

	"github.com/dshills/eventhub/event"
	"github.com/dshills/eventhub/event/value"
)

func payload(pairs map[string]string) map[string]value.Value {
	m := make(map[string]value.Value, len(pairs))
	for k, v := range pairs {
		m[k] = value.String(v)
	}
	return m
}

func TestHash_MaskSelectsSubset(t *testing.T) {
	a, err := Hash(payload(map[string]string{"keep": "x", "drop": "1"}), []string{"keep"})
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := Hash(payload(map[string]string{"keep": "x", "drop": "2"}), []string{"keep"})
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a != b {
		t.Error("hash changed when a non-masked field changed")
	}

	c, _ := Hash(payload(map[string]string{"keep": "y", "drop": "1"}), []string{"keep"})
	if a == c {
		t.Error("hash unchanged when a masked field changed")
	}
}

func TestHash_MaskOrderIrrelevant(t *testing.T) {
	data := payload(map[string]string{"a": "1", "b": "2"})
	x, _ := Hash(data, []string{"a", "b"})
	y, _ := Hash(data, []string{"b", "a"})
	if x != y {
		t.Error("hash depends on mask ordering")
	}
}

func TestHash_NestedPath(t *testing.T) {
	data := map[string]value.Value{
		"outer": value.Map(map[string]value.Value{
			"inner": value.String("x"),
			"noise": value.String("n1"),
		}),
	}
	a, err := Hash(data, []string{"outer.inner"})
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	data["outer"] = value.Map(map[string]value.Value{
		"inner": value.String("x"),
		"noise": value.String("n2"),
	})
	b, _ := Hash(data, []string{"outer.inner"})
	if a != b {
		t.Error("nested mask path did not isolate the selected field")
	}
}

func TestHash_MissingPathSkipped(t *testing.T) {
	data := payload(map[string]string{"a": "1"})
	x, err := Hash(data, []string{"a", "nope"})
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	y, _ := Hash(data, []string{"a"})
	if x != y {
		t.Error("missing mask path changed the hash")
	}
}

func TestRing_RecordAndQuery(t *testing.T) {
	r := NewRing(10)

	e := event.New("e", "t", "s").
		WithData(payload(map[string]string{"k": "v"})).
		WithMask([]string{"k"})
	r.Record(e, 1)
	r.Record(e, 2)

	h, err := Hash(e.Data(), e.Mask())
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	res := r.Query(h, time.Time{}, time.Time{})
	if res.Count != 2 {
		t.Fatalf("Count = %d, want 2", res.Count)
	}
	if res.Oldest.IsZero() || res.Newest.IsZero() {
		t.Error("expected occurrence timestamps")
	}
	if res.Newest.Before(res.Oldest) {
		t.Error("Newest before Oldest")
	}

	if miss := r.Query(h+1, time.Time{}, time.Time{}); miss.Count != 0 {
		t.Errorf("miss Count = %d, want 0", miss.Count)
	}
}

func TestRing_IgnoresUnmaskedEvents(t *testing.T) {
	r := NewRing(10)
	r.Record(event.New("e", "t", "s").WithData(payload(map[string]string{"k": "v"})), 1)
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0 for unmasked event", r.Len())
	}
}

func TestRing_EvictsOldest(t *testing.T) {
	r := NewRing(3)
	for i := 0; i < 5; i++ {
		e := event.New("e", "t", "s").
			WithData(payload(map[string]string{"k": "v"})).
			WithMask([]string{"k"})
		r.Record(e, int64(i+1))
	}
	if r.Len() != 3 {
		t.Errorf("Len = %d, want 3 after overflow", r.Len())
	}
}

func TestRing_QueryTimeRange(t *testing.T) {
	r := NewRing(10)
	e := event.New("e", "t", "s").
		WithData(payload(map[string]string{"k": "v"})).
		WithMask([]string{"k"})
	r.Record(e, 1)

	h, _ := Hash(e.Data(), e.Mask())
	past := e.Timestamp().Add(-time.Hour)
	future := e.Timestamp().Add(time.Hour)

	if res := r.Query(h, past, future); res.Count != 1 {
		t.Errorf("in-range Count = %d, want 1", res.Count)
	}
	if res := r.Query(h, future, time.Time{}); res.Count != 0 {
		t.Errorf("after-range Count = %d, want 0", res.Count)
	}
	if res := r.Query(h, time.Time{}, past); res.Count != 0 {
		t.Errorf("before-range Count = %d, want 0", res.Count)
	}
}
