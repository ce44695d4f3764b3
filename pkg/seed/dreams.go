package seed

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/aretw0/dreamdiary/pkg/core"
)

// ExampleDreamsKey is the provider key of the bundled example dreams.
const ExampleDreamsKey = "example_dreams"

type dreamRecord struct {
	Title     string `json:"title" yaml:"title"`
	Content   string `json:"content" yaml:"content"`
	TimeOfDay string `json:"time_of_day" yaml:"time_of_day"`
	Type      string `json:"type" yaml:"type"`
	DaysAgo   int    `json:"days_ago" yaml:"days_ago"`
}

func (r dreamRecord) validate() error {
	if r.Title == "" {
		return errors.New("missing title")
	}
	if r.DaysAgo < 0 {
		return errors.New("days_ago must not be negative")
	}
	if _, err := core.ParseTimeOfDay(r.TimeOfDay); err != nil {
		return err
	}
	_, err := core.ParseDreamType(r.Type)
	return err
}

// DreamProvider loads example dreams from a resource file, in file order.
// Each dream is dated days_ago days before now.
type DreamProvider struct {
	fsys fs.FS
	name string
	now  func() time.Time
}

// NewDreamProvider reads name from fsys. A nil now uses time.Now.
func NewDreamProvider(fsys fs.FS, name string, now func() time.Time) *DreamProvider {
	if now == nil {
		now = time.Now
	}
	return &DreamProvider{fsys: fsys, name: name, now: now}
}

func (p *DreamProvider) Key() string { return ExampleDreamsKey }

func (p *DreamProvider) Load(ctx context.Context) ([]core.Dream, error) {
	recs, err := readResource[dreamRecord](p.fsys, p.name)
	if err != nil {
		return nil, err
	}

	now := p.now()
	out := make([]core.Dream, 0, len(recs))
	for _, r := range recs {
		// validate has already accepted both values.
		tod, _ := core.ParseTimeOfDay(r.TimeOfDay)
		typ, _ := core.ParseDreamType(r.Type)
		d := core.NewDream(r.Title, tod, r.Content, typ)
		d.Date = now.AddDate(0, 0, -r.DaysAgo)
		out = append(out, d)
	}
	return out, nil
}
