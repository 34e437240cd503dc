// Package verify cross-checks that the clips named in a validated
// configuration share frame size, frame rate and duration, so the
// compositor can assume one column width and one timeline.
package verify

import (
	"fmt"
	"log"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/videoforge/compare-video/internal/config"
)

// Comparison tolerances. Frame size is discrete and compared exactly;
// fps absorbs floating-point rate encoding noise and duration absorbs
// container-level rounding.
const (
	fpsTolerance      = 0.001
	durationTolerance = 0.1
)

// Handle is an opened media file. Every Handle obtained from an Opener
// must be closed, on success and failure paths alike.
type Handle interface {
	Size() (width, height int)
	FPS() float64
	Duration() float64
	Close() error
}

// Opener opens media files for property inspection.
type Opener interface {
	Open(path string) (Handle, error)
}

// Baseline holds the properties of the first clip, which every other
// clip must match.
type Baseline struct {
	Width    int
	Height   int
	FPS      float64
	Duration float64
}

// MissingFileError indicates a referenced video path does not exist.
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("video file not found: %s", e.Path)
}

// PropertyMismatchError indicates a clip disagrees with the baseline on
// size, fps or duration.
type PropertyMismatchError struct {
	Property  string
	Path      string
	Value     string
	BasePath  string
	BaseValue string
}

func (e *PropertyMismatchError) Error() string {
	return fmt.Sprintf("video %s mismatch: %q has %s %s, expected %s from %q",
		e.Property, e.Path, e.Property, e.Value, e.BaseValue, e.BasePath)
}

// Verify opens every entry in declaration order and asserts that its
// properties match those of the first entry, failing fast on the first
// mismatch. The returned baseline carries the verified frame rate the
// compositor must render at.
func Verify(opener Opener, entries []config.VideoEntry, verbose bool) (Baseline, error) {
	if len(entries) == 0 {
		return Baseline{}, errors.New("no video entries provided for verification")
	}

	basePath := entries[0].Path
	base, err := readProps(opener, basePath)
	if err != nil {
		return Baseline{}, err
	}

	if verbose {
		log.Printf("Base properties: size=%dx%d fps=%.3f duration=%.2fs (%s)\n",
			base.Width, base.Height, base.FPS, base.Duration, basePath)
	}

	for _, entry := range entries[1:] {
		props, err := readProps(opener, entry.Path)
		if err != nil {
			return Baseline{}, err
		}

		if props.Width != base.Width || props.Height != base.Height {
			return Baseline{}, &PropertyMismatchError{
				Property:  "size",
				Path:      entry.Path,
				Value:     fmt.Sprintf("%dx%d", props.Width, props.Height),
				BasePath:  basePath,
				BaseValue: fmt.Sprintf("%dx%d", base.Width, base.Height),
			}
		}
		if math.Abs(props.FPS-base.FPS) > fpsTolerance {
			return Baseline{}, &PropertyMismatchError{
				Property:  "fps",
				Path:      entry.Path,
				Value:     fmt.Sprintf("%.3f", props.FPS),
				BasePath:  basePath,
				BaseValue: fmt.Sprintf("%.3f", base.FPS),
			}
		}
		if math.Abs(props.Duration-base.Duration) > durationTolerance {
			return Baseline{}, &PropertyMismatchError{
				Property:  "duration",
				Path:      entry.Path,
				Value:     fmt.Sprintf("%.2fs", props.Duration),
				BasePath:  basePath,
				BaseValue: fmt.Sprintf("%.2fs", base.Duration),
			}
		}
	}

	return base, nil
}

// readProps opens one clip, copies its properties and closes it before
// returning, so no handle outlives this function on any path.
func readProps(opener Opener, path string) (Baseline, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Baseline{}, &MissingFileError{Path: path}
		}
		return Baseline{}, errors.Wrapf(err, "failed to stat video file %s", path)
	}

	handle, err := opener.Open(path)
	if err != nil {
		return Baseline{}, errors.Wrapf(err, "failed to open video %s", path)
	}
	defer handle.Close()

	width, height := handle.Size()
	return Baseline{
		Width:    width,
		Height:   height,
		FPS:      handle.FPS(),
		Duration: handle.Duration(),
	}, nil
}
