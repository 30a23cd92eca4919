package drill

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// File is the on-disk drill table overlay:
//
//	[[drills]]
//	id = "touch_drill_windy"
//	kind = "attempts"
//
//	[[drills]]
//	id = "short_makes"
//	kind = "makes"
//	baseline = 14
//	total = 18
//
// Rows replace same-id defaults; unknown ids are appended.
type File struct {
	Drills []Definition `toml:"drills"`
}

// Load builds the registry from the built-in table overlaid with rows from
// the TOML file at path. An empty path or a missing file yields defaults.
func Load(path string) (*Registry, error) {
	defs, err := loadDefinitions(path)
	if err != nil {
		return nil, err
	}
	return NewRegistry(defs...), nil
}

func loadDefinitions(path string) ([]Definition, error) {
	defs := Defaults()
	if path == "" {
		return defs, nil
	}

	var file File
	if _, err := toml.DecodeFile(path, &file); err != nil {
		if os.IsNotExist(err) {
			return defs, nil
		}
		return nil, fmt.Errorf("load drill config: %w", err)
	}

	for i := range file.Drills {
		if err := file.Drills[i].normalize(); err != nil {
			return nil, fmt.Errorf("load drill config: %w", err)
		}
	}
	return merge(defs, file.Drills), nil
}

// normalize validates a configured row and fills the direction from the
// kind when omitted.
func (d *Definition) normalize() error {
	if d.ID == "" {
		return fmt.Errorf("drill row is missing an id")
	}
	switch d.Kind {
	case KindCheck, KindAttempts, KindPutts, KindMakes, KindPoints:
	case "":
		return fmt.Errorf("drill %q: kind is required", d.ID)
	default:
		return fmt.Errorf("drill %q: unknown kind %q", d.ID, d.Kind)
	}
	switch d.Direction {
	case Lower, Higher, None:
	case "":
		d.Direction = defaultDirection(d.Kind)
	default:
		return fmt.Errorf("drill %q: unknown direction %q", d.ID, d.Direction)
	}
	return nil
}

func defaultDirection(kind string) Direction {
	switch kind {
	case KindAttempts, KindPutts:
		return Lower
	case KindMakes, KindPoints:
		return Higher
	default:
		return None
	}
}

func merge(base, overlay []Definition) []Definition {
	out := make([]Definition, len(base))
	copy(out, base)
	index := make(map[string]int, len(out))
	for i, d := range out {
		index[d.ID] = i
	}
	for _, d := range overlay {
		if i, ok := index[d.ID]; ok {
			out[i] = d
			continue
		}
		index[d.ID] = len(out)
		out = append(out, d)
	}
	return out
}
