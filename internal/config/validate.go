package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Validate checks a raw decoded configuration and produces a typed,
// fully-defaulted Config. Missing or misshapen required fields (the video
// list, the output path) are fatal; malformed optional styling fields are
// replaced by their defaults and reported in the returned diagnostics.
//
// As a side effect, parent directories of the output path are created.
func Validate(raw interface{}) (*Config, []Diagnostic, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, nil, &ValidationError{Reason: "expected a mapping at the top level"}
	}

	videosRaw, ok := m["videos"].([]interface{})
	if !ok {
		return nil, nil, &ValidationError{Reason: "'videos' key missing or not a list"}
	}
	if len(videosRaw) < MinVideos || len(videosRaw) > MaxVideos {
		return nil, nil, &ValidationError{
			Reason: fmt.Sprintf("invalid number of videos: %d, must be between %d and %d",
				len(videosRaw), MinVideos, MaxVideos),
		}
	}

	var diags []Diagnostic

	videos := make([]VideoEntry, 0, len(videosRaw))
	for i, entryRaw := range videosRaw {
		entry, ok := entryRaw.(map[string]interface{})
		if !ok {
			return nil, nil, &ValidationError{
				Reason: fmt.Sprintf("videos entry %d is not a mapping", i),
			}
		}

		path, ok := entry["path"].(string)
		if !ok || path == "" {
			return nil, nil, &ValidationError{
				Reason: fmt.Sprintf("videos entry %d missing 'path' key or it is not a string", i),
			}
		}

		caption := ""
		if descRaw, present := entry["description"]; !present {
			diags = append(diags, Diagnostic{
				Field:  fmt.Sprintf("videos[%d].description", i),
				Reason: "missing, using empty string",
			})
		} else if desc, ok := descRaw.(string); ok {
			caption = desc
		} else {
			diags = append(diags, Diagnostic{
				Field:  fmt.Sprintf("videos[%d].description", i),
				Reason: "not a string, using empty string",
			})
		}

		videos = append(videos, VideoEntry{Path: path, Caption: caption})
	}

	outputPath, ok := m["output_video"].(string)
	if !ok || outputPath == "" {
		return nil, nil, &ValidationError{Reason: "'output_video' key missing or not a string"}
	}
	if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, nil, errors.Wrapf(err, "failed to create output directory %s", dir)
		}
	}

	cfg := &Config{
		Videos:         videos,
		OutputPath:     outputPath,
		TextAreaHeight: DefaultTextAreaHeight,
		TextAreaColor:  DefaultTextAreaColor,
		FontSize:       DefaultFontSize,
		FontColor:      DefaultFontColor,
	}

	if v, present := m["text_area_height"]; present {
		if n, ok := asNumber(v); ok && n >= 0 {
			cfg.TextAreaHeight = int(n)
		} else {
			diags = append(diags, Diagnostic{
				Field:  "text_area_height",
				Reason: fmt.Sprintf("invalid, using default %d", DefaultTextAreaHeight),
			})
		}
	}

	if v, present := m["text_area_color"]; present {
		if c, ok := asColor(v); ok {
			cfg.TextAreaColor = c
		} else {
			diags = append(diags, Diagnostic{
				Field:  "text_area_color",
				Reason: fmt.Sprintf("invalid, using default %q", DefaultTextAreaColor),
			})
		}
	}

	if v, present := m["font_size"]; present {
		if n, ok := asNumber(v); ok && n > 0 {
			cfg.FontSize = int(n)
		} else {
			diags = append(diags, Diagnostic{
				Field:  "font_size",
				Reason: fmt.Sprintf("invalid, using default %d", DefaultFontSize),
			})
		}
	}

	if v, present := m["font_color"]; present {
		if c, ok := asColor(v); ok {
			cfg.FontColor = c
		} else {
			diags = append(diags, Diagnostic{
				Field:  "font_color",
				Reason: fmt.Sprintf("invalid, using default %q", DefaultFontColor),
			})
		}
	}

	return cfg, diags, nil
}

func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

var (
	colorNameRe = regexp.MustCompile(`^[A-Za-z]+$`)
	colorHexRe  = regexp.MustCompile(`^(0x|#)[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)
)

// validColorString accepts ffmpeg's color syntax: a color name or a
// 0xRRGGBB[AA]/#RRGGBB[AA] value, with an optional @alpha suffix in
// [0, 1]. Anything else could rewrite the filter graph it is
// interpolated into, so it is rejected here.
func validColorString(color string) bool {
	base, alpha, hasAlpha := strings.Cut(color, "@")
	if hasAlpha {
		a, err := strconv.ParseFloat(alpha, 64)
		if err != nil || a < 0 || a > 1 {
			return false
		}
	}
	return colorNameRe.MatchString(base) || colorHexRe.MatchString(base)
}

// asColor accepts either a color string in ffmpeg syntax or a 3-element
// RGB list with components in [0, 255], normalized to ffmpeg's 0xRRGGBB
// form.
func asColor(v interface{}) (string, bool) {
	switch c := v.(type) {
	case string:
		if validColorString(c) {
			return c, true
		}
	case []interface{}:
		if len(c) != 3 {
			return "", false
		}
		rgb := make([]int, 3)
		for i, comp := range c {
			n, ok := asNumber(comp)
			if !ok || n < 0 || n > 255 {
				return "", false
			}
			rgb[i] = int(n)
		}
		return fmt.Sprintf("0x%02X%02X%02X", rgb[0], rgb[1], rgb[2]), true
	}
	return "", false
}
