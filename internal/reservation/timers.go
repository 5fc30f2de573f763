package reservation

// DecrementTimers moves every countdown one second closer to zero. Calls arriving
// within 900ms of the last applied tick are ignored and report false, so several
// tickers driving the same store do not speed the countdown up.
func (s *Store) DecrementTimers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !s.lastTick.IsZero() && now.Sub(s.lastTick) < tickGuard {
		return false
	}
	s.lastTick = now

	for i := range s.reservations {
		if s.reservations[i].TimeRemaining > 0 {
			s.reservations[i].TimeRemaining--
		}
	}
	for i := range s.machines {
		if p := s.machines[i].NextAvailableSeconds; p != nil && *p > 0 {
			v := *p - 1
			s.machines[i].NextAvailableSeconds = &v
		}
	}
	return true
}
