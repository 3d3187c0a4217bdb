package traffic

import (
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type StoreConfig struct {
	// MaxTargets limits memory use. When exceeded, the least recently
	// updated target is evicted.
	MaxTargets int
	// TTL controls how long a target is kept without updates.
	TTL time.Duration
}

// Store keeps the latest report per ICAO address.
type Store struct {
	// mu makes read-merge-write in Upsert atomic; the cache has its own lock.
	mu      sync.Mutex
	targets *expirable.LRU[uint32, Report]
}

func NewStore(cfg StoreConfig) *Store {
	if cfg.MaxTargets <= 0 {
		cfg.MaxTargets = 200
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * time.Second
	}
	return &Store{targets: expirable.NewLRU[uint32, Report](cfg.MaxTargets, nil, cfg.TTL)}
}

// Upsert stores r, keeping a previously seen tail when r has none.
func (s *Store) Upsert(r Report) {
	if s == nil || r.ICAO == 0 {
		return
	}
	if r.SeenAt.IsZero() {
		r.SeenAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if r.Tail == "" {
		if prev, ok := s.targets.Peek(r.ICAO); ok {
			r.Tail = prev.Tail
		}
	}
	s.targets.Add(r.ICAO, r)
}

func (s *Store) UpsertMany(reports []Report) {
	for _, r := range reports {
		s.Upsert(r)
	}
}

// WithPosition returns the live position-valid reports ordered by identifier.
func (s *Store) WithPosition() []Report {
	if s == nil {
		return nil
	}
	all := s.live()
	out := make([]Report, 0, len(all))
	for _, r := range all {
		if r.PositionValid {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Identifier(), out[j].Identifier()
		if a != b {
			return a < b
		}
		return out[i].ICAO < out[j].ICAO
	})
	return out
}

// Len counts live targets, with or without position.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.live())
}

// live drops expired entries. Values pads its result with zero values in
// place of entries that expired but have not been swept yet.
func (s *Store) live() []Report {
	all := s.targets.Values()
	out := all[:0]
	for _, r := range all {
		if r.ICAO != 0 {
			out = append(out, r)
		}
	}
	return out
}
