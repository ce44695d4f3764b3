package seed

import (
	"context"
	"errors"
	"io/fs"
	"slices"
	"time"

	"github.com/aretw0/dreamdiary/pkg/core"
)

// TechniquesKey is the provider key of the bundled techniques.
const TechniquesKey = "techniques"

type techniqueRecord struct {
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
	Symbol  string `json:"symbol" yaml:"symbol"`
}

func (r techniqueRecord) validate() error {
	if r.Title == "" {
		return errors.New("missing title")
	}
	return nil
}

// TechniqueProvider loads techniques from a resource file.
//
// Records come out in the reverse of the file's order, each dated a
// millisecond after the previous one. Listing the stored techniques most
// recent first therefore shows them exactly as the file lists them.
type TechniqueProvider struct {
	fsys fs.FS
	name string
	now  func() time.Time
}

// NewTechniqueProvider reads name from fsys. A nil now uses time.Now.
func NewTechniqueProvider(fsys fs.FS, name string, now func() time.Time) *TechniqueProvider {
	if now == nil {
		now = time.Now
	}
	return &TechniqueProvider{fsys: fsys, name: name, now: now}
}

func (p *TechniqueProvider) Key() string { return TechniquesKey }

func (p *TechniqueProvider) Load(ctx context.Context) ([]core.Technique, error) {
	recs, err := readResource[techniqueRecord](p.fsys, p.name)
	if err != nil {
		return nil, err
	}
	slices.Reverse(recs)

	base := p.now()
	out := make([]core.Technique, 0, len(recs))
	for i, r := range recs {
		t := core.NewTechnique(r.Title, r.Content, r.Symbol)
		t.Date = base.Add(time.Duration(i) * time.Millisecond)
		out = append(out, t)
	}
	return out, nil
}
