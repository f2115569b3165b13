package advisor

import "sync"

// ModelSelector remembers which model of a preference list last answered.
// It is shared by all requests.
type ModelSelector struct {
	mu          sync.RWMutex
	preferences []string
	current     string
}

// NewModelSelector creates a selector over models in preference order
func NewModelSelector(models []string) *ModelSelector {
	prefs := make([]string, 0, len(models))
	for _, m := range models {
		if m != "" {
			prefs = append(prefs, m)
		}
	}
	return &ModelSelector{preferences: prefs}
}

// Current returns the remembered model, or "" before the first success
func (s *ModelSelector) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Remember records the model that just answered
func (s *ModelSelector) Remember(model string) {
	s.mu.Lock()
	s.current = model
	s.mu.Unlock()
}

// Reset forgets the remembered model
func (s *ModelSelector) Reset() {
	s.mu.Lock()
	s.current = ""
	s.mu.Unlock()
}

// Candidates lists models to try: the remembered one first, then the
// remaining preferences in order. Each model appears once.
func (s *ModelSelector) Candidates() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.preferences)+1)
	if s.current != "" {
		out = append(out, s.current)
	}
	for _, m := range s.preferences {
		if m != s.current {
			out = append(out, m)
		}
	}
	return out
}
