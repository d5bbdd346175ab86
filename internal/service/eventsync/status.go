package eventsync

import "github.com/ecoscan/wastecal/internal/domain"

// Status reports whether any sync is running and when the last one
// completed, in Unix milliseconds (0 before the first success).
func (s *Service) Status() domain.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.SyncStatus{
		Syncing:    s.running > 0,
		LastSyncAt: s.lastSync,
	}
}

// Subscribe returns a channel that receives the last-sync timestamp after
// every successful sync. Only the newest pending value is kept, so a
// subscriber never observes an older timestamp after a newer one.
func (s *Service) Subscribe() (<-chan int64, func()) {
	return s.hub.Subscribe()
}

// advance moves the last-sync timestamp to the current wall clock, or one
// millisecond past the previous value if the clock has not moved forward.
func (s *Service) advance() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now().UnixMilli()
	if ts <= s.lastSync {
		ts = s.lastSync + 1
	}
	s.lastSync = ts
	s.hub.Publish(ts)
	return ts
}
