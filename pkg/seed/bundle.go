package seed

import (
	"embed"
	"io/fs"
	"time"

	"github.com/aretw0/dreamdiary/pkg/core"
)

//go:embed data/*.json
var bundled embed.FS

// Bundled resource names inside Bundled().
const (
	TechniquesResource = "techniques.json"
	DreamsResource     = "dreams.json"
)

// Bundled returns the seed resources shipped with the module.
func Bundled() fs.FS {
	sub, err := fs.Sub(bundled, "data")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory
	}
	return sub
}

// DefaultSources returns the bundled sources in registration order.
// Example dreams are only included when requested.
func DefaultSources(now func() time.Time, exampleDreams bool) []Source {
	fsys := Bundled()
	sources := []Source{
		Bind(NewTechniqueProvider(fsys, TechniquesResource, now), core.TechniqueCodec),
	}
	if exampleDreams {
		sources = append(sources, Bind(NewDreamProvider(fsys, DreamsResource, now), core.DreamCodec))
	}
	return sources
}
