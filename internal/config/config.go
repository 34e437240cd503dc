package config

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Defaults for the optional styling parameters.
const (
	DefaultTextAreaHeight = 100
	DefaultTextAreaColor  = "white"
	DefaultFontSize       = 30
	DefaultFontColor      = "black"

	// Allowed number of videos per comparison.
	MinVideos = 1
	MaxVideos = 4
)

// VideoEntry is one clip to compare: where it lives and the caption drawn
// beneath it. Entries are immutable once validation has produced them.
type VideoEntry struct {
	Path    string
	Caption string
}

// Config is the fully validated and defaulted configuration for one
// comparison run.
type Config struct {
	Videos         []VideoEntry
	OutputPath     string
	TextAreaHeight int
	TextAreaColor  string
	FontSize       int
	FontColor      string
}

// Diagnostic records a non-fatal default substitution made during
// validation. The validator never prints; callers decide how to surface
// these.
type Diagnostic struct {
	Field  string
	Reason string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Field, d.Reason)
}

// Load reads and decodes the YAML configuration file. It returns the raw
// decoded value; shape checking is Validate's job.
func Load(path string) (interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, errors.Wrapf(err, "failed to read configuration file %s", path)
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Err: err}
	}

	return raw, nil
}
