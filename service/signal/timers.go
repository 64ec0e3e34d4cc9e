package signal

import (
	"sync"
	"time"
)

// scheduler tracks pending delayed notifications keyed by the connection
// they are about, so a disconnect can cancel everything scheduled for that
// connection before it fires.
type scheduler struct {
	mu     sync.Mutex
	timers map[string]map[*time.Timer]struct{}
}

func newScheduler() *scheduler {
	return &scheduler{timers: make(map[string]map[*time.Timer]struct{})}
}

func (s *scheduler) schedule(about string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.timers[about]
	if !ok {
		set = make(map[*time.Timer]struct{})
		s.timers[about] = set
	}

	var t *time.Timer
	t = time.AfterFunc(d, func() {
		s.mu.Lock()
		if set, ok := s.timers[about]; ok {
			delete(set, t)
			if len(set) == 0 {
				delete(s.timers, about)
			}
		}
		s.mu.Unlock()
		fn()
	})
	set[t] = struct{}{}
}

// cancelAll stops every pending timer about the given connection. A timer
// that already fired is a no-op to stop.
func (s *scheduler) cancelAll(about string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for t := range s.timers[about] {
		t.Stop()
	}
	delete(s.timers, about)
}

func (s *scheduler) pending(about string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers[about])
}
