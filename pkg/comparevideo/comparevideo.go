// Package comparevideo exposes the comparison pipeline as a library:
// validate a YAML config, verify the referenced clips share size, frame
// rate and duration, then composite them side by side with caption bands.
package comparevideo

import (
	"log"

	"github.com/videoforge/compare-video/internal/compositor"
	"github.com/videoforge/compare-video/internal/config"
	"github.com/videoforge/compare-video/internal/ffmpeg"
	"github.com/videoforge/compare-video/internal/verify"
)

// Options configures one pipeline run.
type Options struct {
	ConfigPath string
	Verbose    bool
}

// Pipeline runs validate, verify and compose in order. The opener,
// prober and compose function are injectable so embedders and tests can
// substitute the media backend.
type Pipeline struct {
	Opener  verify.Opener
	Prober  compositor.Prober
	Compose func(compositor.Prober, compositor.Options) error
	Verbose bool
}

// New returns a Pipeline backed by the ffmpeg processor.
func New(verbose bool) *Pipeline {
	processor := ffmpeg.NewProcessor(verbose)
	return &Pipeline{
		Opener:  clipOpener{processor},
		Prober:  clipProber{processor},
		Compose: compositor.Compose,
		Verbose: verbose,
	}
}

// Run executes the whole pipeline for opts.
func Run(opts Options) error {
	return New(opts.Verbose).Run(opts.ConfigPath)
}

// SupportedOutputFormats returns the output container formats the
// renderer has codec presets for.
func SupportedOutputFormats() []string {
	return ffmpeg.SupportedFormats()
}

// Run loads and validates configPath, verifies the clips and renders the
// composite. Default-substitution diagnostics from validation are logged
// as warnings; all other failures abort before any output is written.
func (p *Pipeline) Run(configPath string) error {
	raw, err := config.Load(configPath)
	if err != nil {
		return err
	}

	cfg, diags, err := config.Validate(raw)
	if err != nil {
		return err
	}
	for _, d := range diags {
		log.Printf("Warning: %s\n", d)
	}

	if p.Verbose {
		log.Printf("Verifying properties of %d videos...\n", len(cfg.Videos))
	}

	baseline, err := verify.Verify(p.Opener, cfg.Videos, p.Verbose)
	if err != nil {
		return err
	}

	return p.Compose(p.Prober, compositor.Options{
		Entries:        cfg.Videos,
		OutputPath:     cfg.OutputPath,
		TextAreaHeight: cfg.TextAreaHeight,
		TextAreaColor:  cfg.TextAreaColor,
		FontSize:       cfg.FontSize,
		FontColor:      cfg.FontColor,
		FPS:            baseline.FPS,
		Verbose:        p.Verbose,
	})
}

// clipOpener and clipProber adapt *ffmpeg.Processor to the interfaces the
// verifier and compositor are written against.
type clipOpener struct {
	processor *ffmpeg.Processor
}

func (o clipOpener) Open(path string) (verify.Handle, error) {
	clip, err := o.processor.Open(path)
	if err != nil {
		return nil, err
	}
	return clip, nil
}

type clipProber struct {
	processor *ffmpeg.Processor
}

func (p clipProber) Open(path string) (compositor.Source, error) {
	clip, err := p.processor.Open(path)
	if err != nil {
		return nil, err
	}
	return clip, nil
}
