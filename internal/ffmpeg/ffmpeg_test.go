package ffmpeg

import (
	"reflect"
	"testing"
)

const sampleProbe = `{
	"streams": [
		{"codec_type": "audio", "codec_name": "aac"},
		{
			"codec_type": "video",
			"codec_name": "h264",
			"width": 640,
			"height": 360,
			"r_frame_rate": "30/1",
			"duration": "2.000000"
		}
	],
	"format": {"duration": "2.002000"}
}`

func TestParseProbe(t *testing.T) {
	clip, err := parseProbe(sampleProbe)
	if err != nil {
		t.Fatalf("parseProbe() error = %v", err)
	}

	width, height := clip.Size()
	if width != 640 || height != 360 {
		t.Errorf("Size() = %dx%d, want 640x360", width, height)
	}
	if clip.FPS() != 30 {
		t.Errorf("FPS() = %v, want 30", clip.FPS())
	}
	if clip.Duration() != 2.0 {
		t.Errorf("Duration() = %v, want 2.0 (stream duration preferred)", clip.Duration())
	}
	if err := clip.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestParseProbe_FormatDurationFallback(t *testing.T) {
	probe := `{
		"streams": [{"codec_type": "video", "width": 1280, "height": 720, "r_frame_rate": "24000/1001"}],
		"format": {"duration": "10.5"}
	}`

	clip, err := parseProbe(probe)
	if err != nil {
		t.Fatalf("parseProbe() error = %v", err)
	}
	if clip.Duration() != 10.5 {
		t.Errorf("Duration() = %v, want 10.5 from format", clip.Duration())
	}
	if got := clip.FPS(); got < 23.975 || got > 23.977 {
		t.Errorf("FPS() = %v, want ~23.976", got)
	}
}

func TestParseProbe_FrameCountFallback(t *testing.T) {
	probe := `{
		"streams": [{"codec_type": "video", "width": 320, "height": 240, "r_frame_rate": "25/1", "nb_frames": "50"}]
	}`

	clip, err := parseProbe(probe)
	if err != nil {
		t.Fatalf("parseProbe() error = %v", err)
	}
	if clip.Duration() != 2.0 {
		t.Errorf("Duration() = %v, want 2.0 from nb_frames/fps", clip.Duration())
	}
}

func TestParseProbe_Errors(t *testing.T) {
	tests := []struct {
		name  string
		probe string
	}{
		{"not json", "not json"},
		{"no streams", `{"streams": []}`},
		{"no video stream", `{"streams": [{"codec_type": "audio"}]}`},
		{"no dimensions", `{"streams": [{"codec_type": "video", "r_frame_rate": "30/1"}]}`},
		{"no frame rate", `{"streams": [{"codec_type": "video", "width": 1, "height": 1, "duration": "1.0"}]}`},
		{"no duration", `{"streams": [{"codec_type": "video", "width": 1, "height": 1, "r_frame_rate": "30/1"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseProbe(tt.probe); err == nil {
				t.Error("parseProbe() error = nil, want error")
			}
		})
	}
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		name   string
		stream map[string]interface{}
		want   float64
	}{
		{"integer rate", map[string]interface{}{"r_frame_rate": "30/1"}, 30},
		{"ntsc rate", map[string]interface{}{"r_frame_rate": "30000/1001"}, 30000.0 / 1001.0},
		{"avg fallback", map[string]interface{}{"r_frame_rate": "0/0", "avg_frame_rate": "25/1"}, 25},
		{"missing", map[string]interface{}{}, 0},
		{"malformed", map[string]interface{}{"r_frame_rate": "thirty"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFrameRate(tt.stream); got != tt.want {
				t.Errorf("parseFrameRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCodecSettings(t *testing.T) {
	if got := GetCodecSettings("webm").VideoCodec; got != "libvpx-vp9" {
		t.Errorf("webm codec = %q, want libvpx-vp9", got)
	}
	if got := GetCodecSettings("mp4").VideoCodec; got != "libx264" {
		t.Errorf("mp4 codec = %q, want libx264", got)
	}
	// Unknown formats fall back to mp4
	if got := GetCodecSettings("avi").VideoCodec; got != "libx264" {
		t.Errorf("fallback codec = %q, want libx264", got)
	}
}

func TestSupportedFormats(t *testing.T) {
	if got := SupportedFormats(); !reflect.DeepEqual(got, []string{"mp4", "webm"}) {
		t.Errorf("SupportedFormats() = %v, want [mp4 webm]", got)
	}
}

func TestEnsureExtension(t *testing.T) {
	tests := []struct {
		in   string
		ext  string
		want string
	}{
		{"out", ".mp4", "out.mp4"},
		{"out.mp4", ".mp4", "out.mp4"},
		{"out.webm", ".mp4", "out.mp4"},
		{"out.mov", ".webm", "out.webm"},
	}
	for _, tt := range tests {
		if got := EnsureExtension(tt.in, tt.ext); got != tt.want {
			t.Errorf("EnsureExtension(%q, %q) = %q, want %q", tt.in, tt.ext, got, tt.want)
		}
	}
}

func TestGetOptimalThreadCount(t *testing.T) {
	if got := GetOptimalThreadCount(); got < 1 {
		t.Errorf("GetOptimalThreadCount() = %d, want >= 1", got)
	}
}
