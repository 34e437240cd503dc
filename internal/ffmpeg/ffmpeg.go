package ffmpeg

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"runtime"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type CodecSettings struct {
	VideoCodec      string
	AudioCodec      string
	ContainerFormat string
	FileExtension   string
	EncoderPresets  map[string]ffmpeg.KwArgs
}

var codecPresets = map[string]CodecSettings{
	"mp4": {
		VideoCodec:      "libx264",
		AudioCodec:      "aac",
		ContainerFormat: "mp4",
		FileExtension:   ".mp4",
		EncoderPresets: map[string]ffmpeg.KwArgs{
			"balanced": {
				"preset":   "medium",
				"movflags": "+faststart",
			},
		},
	},
	"webm": {
		VideoCodec:      "libvpx-vp9",
		AudioCodec:      "libopus",
		ContainerFormat: "webm",
		FileExtension:   ".webm",
		EncoderPresets: map[string]ffmpeg.KwArgs{
			"balanced": {
				"deadline": "good",
				"cpu-used": 2,
				"row-mt":   1,
			},
		},
	},
}

func GetCodecSettings(outputFormat string) CodecSettings {
	if settings, ok := codecPresets[outputFormat]; ok {
		return settings
	}
	// Default to MP4 for broad container compatibility
	return codecPresets["mp4"]
}

// SupportedFormats returns the output formats that have codec presets.
func SupportedFormats() []string {
	formats := maps.Keys(codecPresets)
	slices.Sort(formats)
	return formats
}

// Clip holds the probed properties of a single video file.
type Clip struct {
	width    int
	height   int
	fps      float64
	duration float64
}

// Size returns the frame dimensions in pixels.
func (c *Clip) Size() (width, height int) { return c.width, c.height }

// FPS returns the frame rate.
func (c *Clip) FPS() float64 { return c.fps }

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 { return c.duration }

// Close releases the clip. Probing holds no OS resources, but callers
// pair every Open with a Close so acquisition stays scoped.
func (c *Clip) Close() error { return nil }

// Processor wraps FFmpeg functionality
type Processor struct {
	verbose bool
}

// NewProcessor creates a new FFmpeg processor
func NewProcessor(verbose bool) *Processor {
	return &Processor{
		verbose: verbose,
	}
}

// Open probes a video file and returns a Clip with its properties.
func (p *Processor) Open(inputPath string) (*Clip, error) {
	probe, err := ffmpeg.Probe(inputPath)
	if err != nil {
		return nil, errors.Wrapf(err, "error probing video %s", inputPath)
	}

	clip, err := parseProbe(probe)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading video properties of %s", inputPath)
	}

	if p.verbose {
		log.Printf("Opened %s: %dx%d, %.3f fps, %.2fs\n",
			inputPath, clip.width, clip.height, clip.fps, clip.duration)
	}

	return clip, nil
}

// parseProbe extracts frame size, frame rate and duration from ffprobe
// JSON output. Duration falls back from the video stream to the container
// format, then to nb_frames divided by the frame rate.
func parseProbe(probe string) (*Clip, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(probe), &data); err != nil {
		return nil, errors.WithStack(err)
	}

	streams, ok := data["streams"].([]interface{})
	if !ok || len(streams) == 0 {
		return nil, fmt.Errorf("no streams found in video")
	}

	var videoStream map[string]interface{}
	for _, stream := range streams {
		s, ok := stream.(map[string]interface{})
		if !ok {
			continue
		}
		if codecType, _ := s["codec_type"].(string); codecType == "video" {
			videoStream = s
			break
		}
	}

	if videoStream == nil {
		return nil, fmt.Errorf("no video stream found")
	}

	width, wok := videoStream["width"].(float64)
	height, hok := videoStream["height"].(float64)
	if !wok || !hok {
		return nil, fmt.Errorf("video stream has no dimensions")
	}

	fps := parseFrameRate(videoStream)
	if fps == 0 {
		return nil, fmt.Errorf("could not determine video frame rate")
	}

	var duration float64

	// First try video stream duration
	if durationStr, ok := videoStream["duration"].(string); ok {
		if d, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil {
			duration = d
		}
	}

	// If stream duration is not available, try format duration
	if duration == 0 {
		if format, ok := data["format"].(map[string]interface{}); ok {
			if durationStr, ok := format["duration"].(string); ok {
				if d, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64); err == nil {
					duration = d
				}
			}
		}
	}

	// If still no duration found, try calculating from frames and frame rate
	if duration == 0 {
		if nbFrames, ok := videoStream["nb_frames"].(string); ok {
			if frames, err := strconv.ParseFloat(nbFrames, 64); err == nil {
				duration = frames / fps
			}
		}
	}

	if duration == 0 {
		return nil, fmt.Errorf("could not determine video duration")
	}

	return &Clip{
		width:    int(width),
		height:   int(height),
		fps:      fps,
		duration: duration,
	}, nil
}

// parseFrameRate reads r_frame_rate (falling back to avg_frame_rate) as a
// "num/den" fraction and returns it as a float, or 0 when unavailable.
func parseFrameRate(videoStream map[string]interface{}) float64 {
	for _, key := range []string{"r_frame_rate", "avg_frame_rate"} {
		rate, ok := videoStream[key].(string)
		if !ok {
			continue
		}
		nums := strings.Split(rate, "/")
		if len(nums) != 2 {
			continue
		}
		num, err1 := strconv.ParseFloat(nums[0], 64)
		den, err2 := strconv.ParseFloat(nums[1], 64)
		if err1 == nil && err2 == nil && den != 0 && num != 0 {
			return num / den
		}
	}
	return 0
}

func GetOptimalThreadCount() int {
	cpuCount := runtime.NumCPU()
	// Use 75% of available cores to prevent overload
	return int(math.Max(1, float64(cpuCount)*0.75))
}

// Helper function to ensure correct file extension
func EnsureExtension(filename, extension string) string {
	// Remove any existing video extension
	extensions := []string{".mp4", ".webm", ".mkv", ".avi", ".mov"}
	for _, ext := range extensions {
		filename = strings.TrimSuffix(filename, ext)
	}
	return filename + extension
}
