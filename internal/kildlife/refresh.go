package kildlife

// refreshSessions implements the RefreshSessions command: a no-op signal
// that callers (TUI, doctor) should reload the session list from disk. The
// lifecycle engine holds no in-memory session cache to invalidate, so the
// only effect is the emitted event itself.
func (s *Store) refreshSessions(cmd Command) (Event, error) {
	return Event{Kind: EventSessionsRefreshed}, nil
}
