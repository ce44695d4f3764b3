package seed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/dreamdiary/pkg/core"
)

// record is implemented by the on-disk shapes of seed entries.
type record interface {
	validate() error
}

// readResource decodes the list stored in name. The format follows the
// extension: .json, .yaml or .yml.
func readResource[R record](fsys fs.FS, name string) ([]R, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &core.SeedError{Reason: core.FileNotFound, Resource: name, Err: err}
		}
		return nil, &core.SeedError{Reason: core.DecodingFailed, Resource: name, Err: err}
	}

	var out []R
	switch ext := path.Ext(name); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		err = dec.Decode(&out)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &out)
	default:
		err = fmt.Errorf("unsupported resource format %q", ext)
	}
	if err != nil {
		return nil, &core.SeedError{Reason: core.DecodingFailed, Resource: name, Err: err}
	}

	for i, r := range out {
		if err := r.validate(); err != nil {
			return nil, &core.SeedError{
				Reason:   core.DecodingFailed,
				Resource: name,
				Err:      fmt.Errorf("entry %d: %w", i, err),
			}
		}
	}
	return out, nil
}
