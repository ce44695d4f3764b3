package seed

import (
	"github.com/aretw0/introspection"
)

// SeederState is the introspection snapshot of a Seeder.
type SeederState struct {
	Sources        []string `json:"sources"`
	IsolateFailure bool     `json:"isolate_failures"`
	Runs           int      `json:"runs"`
	Completed      []string `json:"completed"`
	Last           *Report  `json:"last_run,omitempty"`
}

var (
	_ introspection.Introspectable = (*Seeder)(nil)
	_ introspection.Component      = (*Seeder)(nil)
)

// State returns a snapshot of the registered sources, their flags and the
// last run.
func (s *Seeder) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := SeederState{
		IsolateFailure: s.isolate,
		Runs:           s.runs,
		Last:           s.last,
	}
	for _, src := range s.sources {
		st.Sources = append(st.Sources, src.Key())
		if s.tracker.IsCompleted(src.Key()) {
			st.Completed = append(st.Completed, src.Key())
		}
	}
	return st
}

func (s *Seeder) ComponentType() string {
	return "seeder"
}
