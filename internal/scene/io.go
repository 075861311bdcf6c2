package scene

import (
	"os"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/segmentio/encoding/json"
)

// Load reads a Scene from a JSON file and fills its missing fields with
// defaults.
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.New("opening scene failed").
			WithTag("path", path).
			Wrap(err)
	}
	defer f.Close()

	var sc Scene
	if err := json.NewDecoder(f).Decode(&sc); err != nil {
		return nil, errors.New("decoding scene failed").
			WithType(ErrTypeInvalidScene).
			WithTag("path", path).
			Wrap(err)
	}

	sc.Normalize()
	return &sc, nil
}

// Save writes a Scene to a JSON file.
func Save(path string, sc *Scene) error {
	data, err := json.MarshalIndent(sc, "", "  ")
	if err != nil {
		return errors.New("encoding scene failed").
			WithTag("scene", sc.Name).
			Wrap(err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.New("writing scene failed").
			WithTag("path", path).
			Wrap(err)
	}
	return nil
}
