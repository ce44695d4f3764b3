package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/dreamdiary/pkg/core"
)

// Store is what the Seeder needs from the storage gateway.
type Store interface {
	Count(ctx context.Context, kind core.Kind) (int, error)
	Insert(ctx context.Context, doc core.Document) error
}

// State is the progress of one source within a run.
type State int

const (
	NotStarted State = iota
	Checking
	AlreadyComplete
	Loading
	Inserting
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Checking:
		return "checking"
	case AlreadyComplete:
		return "already_complete"
	case Loading:
		return "loading"
	case Inserting:
		return "inserting"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText renders the state name in reports.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether no further transition follows s.
func (s State) Terminal() bool {
	return s == AlreadyComplete || s == Completed || s == Failed
}

// Outcome is the result of running one source.
type Outcome struct {
	Key  string    `json:"key"`
	Kind core.Kind `json:"kind"`
	// State is the final state; Trace lists every state entered, in order.
	State State   `json:"state"`
	Trace []State `json:"trace"`
	// Existing is the record count found while checking. It is non-zero
	// only when existing data was adopted instead of seeding.
	Existing int   `json:"existing,omitempty"`
	Inserted int   `json:"inserted"`
	Err      error `json:"-"`
}

// Adopted reports whether the source was marked complete because the store
// already held records of its kind.
func (o Outcome) Adopted() bool {
	return o.State == AlreadyComplete && o.Existing > 0
}

func (o *Outcome) enter(s State) {
	o.State = s
	o.Trace = append(o.Trace, s)
}

// Report describes one Seeder run. Sources after an aborting failure are
// reported in NotStarted.
type Report struct {
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Outcomes []Outcome `json:"outcomes"`
}

// Inserted is the total number of records inserted by the run.
func (r Report) Inserted() int {
	n := 0
	for _, o := range r.Outcomes {
		n += o.Inserted
	}
	return n
}

// Err joins the errors of every failed source.
func (r Report) Err() error {
	var errs []error
	for _, o := range r.Outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errors.Join(errs...)
}

// Seeder runs sources against a store once per launch.
type Seeder struct {
	store   Store
	tracker *Tracker
	sources []Source
	logger  *slog.Logger
	isolate bool
	now     func() time.Time

	mu   sync.Mutex
	runs int
	last *Report
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Seeder) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSources replaces the registered sources. They run in the given order.
func WithSources(sources ...Source) Option {
	return func(s *Seeder) {
		s.sources = sources
	}
}

// WithFailureIsolation makes a failed source stop only itself. By default
// the first failure aborts the rest of the run.
func WithFailureIsolation(enabled bool) Option {
	return func(s *Seeder) {
		s.isolate = enabled
	}
}

// WithClock sets the time source used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Seeder) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Seeder. Without WithSources it seeds the bundled techniques.
func New(store Store, tracker *Tracker, opts ...Option) *Seeder {
	s := &Seeder{
		store:   store,
		tracker: tracker,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	s.sources = DefaultSources(nil, false)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sources returns the registered sources in order.
func (s *Seeder) Sources() []Source {
	return s.sources
}

// SeedIfNeeded runs every source and returns the run's error, if any.
func (s *Seeder) SeedIfNeeded(ctx context.Context) error {
	_, err := s.Run(ctx)
	return err
}

// Run processes the sources sequentially. Concurrent calls are serialized;
// the second one finds the flags set by the first.
func (s *Seeder) Run(ctx context.Context) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := Report{Started: s.now(), Outcomes: make([]Outcome, len(s.sources))}
	for i, src := range s.sources {
		report.Outcomes[i] = Outcome{Key: src.Key(), Kind: src.Kind(), Trace: []State{NotStarted}}
	}

	var runErr error
	for i, src := range s.sources {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		out := &report.Outcomes[i]
		s.runSource(ctx, src, out)
		if out.Err != nil && !s.isolate {
			runErr = out.Err
			break
		}
	}
	if runErr == nil {
		runErr = report.Err()
	}

	report.Finished = s.now()
	s.runs++
	s.last = &report
	return report, runErr
}

func (s *Seeder) runSource(ctx context.Context, src Source, out *Outcome) {
	log := s.logger.With("seed", src.Key(), "kind", src.Kind())
	fail := func(err error) {
		out.Err = fmt.Errorf("seed %s: %w", src.Key(), err)
		out.enter(Failed)
		log.Error("seeding failed", "error", err, "inserted", out.Inserted)
	}

	out.enter(Checking)
	if s.tracker.IsCompleted(src.Key()) {
		out.enter(AlreadyComplete)
		log.Debug("seed already completed")
		return
	}

	n, err := s.store.Count(ctx, src.Kind())
	if err != nil {
		fail(err)
		return
	}
	if n > 0 {
		if err := s.tracker.MarkCompleted(src.Key()); err != nil {
			fail(err)
			return
		}
		out.Existing = n
		out.enter(AlreadyComplete)
		log.Info("existing records found, marking seed as completed", "count", n)
		return
	}

	out.enter(Loading)
	docs, err := src.Load(ctx)
	if err != nil {
		fail(err)
		return
	}

	out.enter(Inserting)
	for _, doc := range docs {
		if err := s.store.Insert(ctx, doc); err != nil {
			fail(err)
			return
		}
		out.Inserted++
	}

	if err := s.tracker.MarkCompleted(src.Key()); err != nil {
		fail(err)
		return
	}
	out.enter(Completed)
	log.Info("seeded", "inserted", out.Inserted)
}
