// Package compositor builds the comparison layout: one column per clip,
// each column the clip stacked over a captioned color band, all columns
// arranged in a single horizontal row, rendered through ffmpeg.
package compositor

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/videoforge/compare-video/internal/config"
	ffmpegWrap "github.com/videoforge/compare-video/internal/ffmpeg"
)

// Caption text is constrained to this share of the column width before
// wrapping onto the next line.
const captionWidthRatio = 0.9

// Source is an opened media file used as a dimension and duration probe.
type Source interface {
	Size() (width, height int)
	Duration() float64
	Close() error
}

// Prober opens media files for probing.
type Prober interface {
	Open(path string) (Source, error)
}

// Options carries everything Compose needs: the verified entries, the
// render target and the layout parameters. FPS must be the frame rate
// established during verification; it is never re-derived here.
type Options struct {
	Entries        []config.VideoEntry
	OutputPath     string
	TextAreaHeight int
	TextAreaColor  string
	FontSize       int
	FontColor      string
	FPS            float64
	Verbose        bool
}

// CompositionError wraps any failure during layout construction or
// rendering.
type CompositionError struct {
	Op  string
	Err error
}

func (e *CompositionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("composition failed: %s", e.Op)
	}
	return fmt.Sprintf("composition failed: %s: %v", e.Op, e.Err)
}

func (e *CompositionError) Unwrap() error { return e.Err }

// Compose builds the comparison composite and renders it to
// opts.OutputPath. The render goes to a staging file next to the target
// and is moved into place only after the encode fully succeeds, so a
// failed run never leaves a partial output behind.
func Compose(prober Prober, opts Options) error {
	if len(opts.Entries) == 0 {
		return &CompositionError{Op: "no columns to composite"}
	}

	if opts.TextAreaHeight <= 0 && opts.Verbose {
		for _, entry := range opts.Entries {
			if entry.Caption != "" {
				log.Printf("Warning: text_area_height is 0, captions will not be drawn\n")
				break
			}
		}
	}

	// Dimension probe only; verification already guaranteed all entries
	// share this size.
	firstPath := opts.Entries[0].Path
	first, err := prober.Open(firstPath)
	if err != nil {
		return &CompositionError{Op: fmt.Sprintf("probe %s", firstPath), Err: err}
	}
	width, _ := first.Size()
	first.Close()

	durations := make([]float64, len(opts.Entries))
	for i, entry := range opts.Entries {
		src, err := prober.Open(entry.Path)
		if err != nil {
			return &CompositionError{Op: fmt.Sprintf("probe %s", entry.Path), Err: err}
		}
		durations[i] = src.Duration()
		src.Close()
	}

	settings := ffmpegWrap.GetCodecSettings(outputFormat(opts.OutputPath))
	outputPath := ffmpegWrap.EnsureExtension(opts.OutputPath, settings.FileExtension)
	staging := stagingPath(outputPath)

	stream := buildComposite(opts.Entries, width, durations, opts, staging, settings).
		OverWriteOutput()
	if opts.Verbose {
		log.Printf("Rendering %d-column composite to %s at %.3f fps\n",
			len(opts.Entries), outputPath, opts.FPS)
		stream = stream.ErrorToStdOut()
	}

	if err := stream.Run(); err != nil {
		os.Remove(staging)
		return &CompositionError{Op: fmt.Sprintf("render %s", outputPath), Err: err}
	}

	if err := os.Rename(staging, outputPath); err != nil {
		os.Remove(staging)
		return &CompositionError{Op: fmt.Sprintf("finalize %s", outputPath), Err: err}
	}

	if opts.Verbose {
		log.Printf("Successfully created composite: %s\n", outputPath)
	}

	return nil
}

// buildComposite constructs the full filter graph and output node without
// running it. Per entry: a lavfi color band the width of the clip with
// the caption drawn centered on it, vstacked under the clip; columns are
// hstacked left to right when there is more than one.
func buildComposite(entries []config.VideoEntry, width int, durations []float64,
	opts Options, target string, settings ffmpegWrap.CodecSettings) *ffmpeg.Stream {

	columns := make([]*ffmpeg.Stream, 0, len(entries))
	for i, entry := range entries {
		video := ffmpeg.Input(entry.Path)

		column := video
		if opts.TextAreaHeight > 0 {
			band := ffmpeg.Input(
				fmt.Sprintf("color=c=%s:s=%dx%d:d=%.3f",
					opts.TextAreaColor, width, opts.TextAreaHeight, durations[i]),
				ffmpeg.KwArgs{"f": "lavfi"},
			)
			if entry.Caption != "" {
				band = band.Filter("drawtext", ffmpeg.Args{
					captionFilter(entry.Caption, width, opts.FontSize, opts.FontColor),
				})
			}
			column = ffmpeg.Filter([]*ffmpeg.Stream{video, band}, "vstack", ffmpeg.Args{"inputs=2"})
		}

		columns = append(columns, column)
	}

	final := columns[0]
	if len(columns) > 1 {
		final = ffmpeg.Filter(columns, "hstack", ffmpeg.Args{
			fmt.Sprintf("inputs=%d", len(columns)),
		})
	}

	outputKwargs := ffmpeg.KwArgs{
		"c:v":     settings.VideoCodec,
		"pix_fmt": "yuv420p",
		"r":       strconv.FormatFloat(opts.FPS, 'f', -1, 64),
		"threads": ffmpegWrap.GetOptimalThreadCount(),
	}
	for k, v := range settings.EncoderPresets["balanced"] {
		outputKwargs[k] = v
	}

	return final.Output(target, outputKwargs)
}

// captionFilter renders the drawtext argument for a caption centered on
// the band, wrapped to 90% of the column width.
func captionFilter(caption string, width, fontSize int, fontColor string) string {
	maxWidth := int(float64(width) * captionWidthRatio)
	wrapped := wrapCaption(caption, fontSize, maxWidth)
	return fmt.Sprintf("text='%s':fontsize=%d:fontcolor=%s:x=(w-text_w)/2:y=(h-text_h)/2",
		escapeDrawtext(wrapped), fontSize, fontColor)
}

var drawtextEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`:`, `\:`,
	`%`, `\%`,
)

func escapeDrawtext(text string) string {
	return drawtextEscaper.Replace(text)
}

func outputFormat(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// stagingPath returns a hidden sibling of the target that keeps the
// target's extension, so ffmpeg still infers the container from it.
func stagingPath(outputPath string) string {
	dir := filepath.Dir(outputPath)
	base := filepath.Base(outputPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, "."+name+".partial"+ext)
}
