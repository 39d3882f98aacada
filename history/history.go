// Package history provides the bounded event-history sink. Events carrying
// a mask are reduced to the masked subset of their payload, hashed, and
// recorded; the hub and extensions can later ask how often a matching event
// occurred within a time range.
package history

import (
	"hash/fnv"
	"sort"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/eventhub/event"
	"github.com/dshills/eventhub/event/value"
)

// Sink receives dispatched events that carry a mask. Implementations must be
// safe for concurrent use.
type Sink interface {
	// Record stores one occurrence of the event. number is the event number
	// assigned at dispatch acceptance.
	Record(e event.Event, number int64)
}

// Hash reduces a payload to the mask-selected subset and returns its FNV-1a
// hash. Mask entries are gjson paths into the payload document; entries that
// select nothing are skipped. An empty selection hashes the empty document,
// which is still a valid, stable hash.
func Hash(data map[string]value.Value, mask []string) (uint64, error) {
	doc, err := value.MarshalMap(data)
	if err != nil {
		return 0, err
	}

	// Sorted mask order keeps the reduced document, and therefore the hash,
	// independent of the caller's mask ordering.
	paths := make([]string, len(mask))
	copy(paths, mask)
	sort.Strings(paths)

	reduced := []byte("{}")
	for _, path := range paths {
		res := gjson.GetBytes(doc, path)
		if !res.Exists() {
			continue
		}
		reduced, err = sjson.SetBytes(reduced, path, res.Value())
		if err != nil {
			return 0, err
		}
	}

	h := fnv.New64a()
	h.Write(reduced)
	return h.Sum64(), nil
}

// Result summarizes the occurrences matching a Query.
type Result struct {
	Count  int
	Oldest time.Time // zero when Count is 0
	Newest time.Time // zero when Count is 0
}

// Ring is a bounded in-memory Sink. Once full, new records evict the oldest.
type Ring struct {
	mu      sync.Mutex
	entries []entry
	next    int
	full    bool
}

type entry struct {
	hash      uint64
	number    int64
	timestamp time.Time
}

// NewRing creates a ring sink holding up to capacity records.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring{entries: make([]entry, capacity)}
}

// Record implements Sink. Events without a mask, or whose payload cannot be
// hashed, are ignored.
func (r *Ring) Record(e event.Event, number int64) {
	mask := e.Mask()
	if mask == nil {
		return
	}
	h, err := Hash(e.Data(), mask)
	if err != nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[r.next] = entry{hash: h, number: number, timestamp: e.Timestamp()}
	r.next++
	if r.next == len(r.entries) {
		r.next = 0
		r.full = true
	}
}

// Len returns the number of records currently held.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		return len(r.entries)
	}
	return r.next
}

// Query counts occurrences of hash within [from, to]. A zero from means "no
// lower bound" and a zero to means "no upper bound".
func (r *Ring) Query(hash uint64, from, to time.Time) Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	var res Result
	n := r.next
	if r.full {
		n = len(r.entries)
	}
	for i := 0; i < n; i++ {
		e := r.entries[i]
		if e.hash != hash {
			continue
		}
		if !from.IsZero() && e.timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && e.timestamp.After(to) {
			continue
		}
		if res.Count == 0 || e.timestamp.Before(res.Oldest) {
			res.Oldest = e.timestamp
		}
		if res.Count == 0 || e.timestamp.After(res.Newest) {
			res.Newest = e.timestamp
		}
		res.Count++
	}
	return res
}
