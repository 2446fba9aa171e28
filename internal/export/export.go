// Package export writes viewport scenes to image files.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/san-kum/armsim/internal/viz"
)

type Format string

const (
	SVG  Format = "svg"
	PNG  Format = "png"
	WebP Format = "webp"
)

var ErrUnknownFormat = errors.New("export: unknown image format")

// ParseFormat accepts a format name or a file extension, with or without
// the leading dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "svg":
		return SVG, nil
	case "png":
		return PNG, nil
	case "webp":
		return WebP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Write encodes sc in the given format.
func Write(w io.Writer, sc viz.Scene, f Format) error {
	switch f {
	case SVG:
		return WriteSVG(w, sc)
	case PNG:
		return WritePNG(w, sc)
	case WebP:
		return WriteWebP(w, sc)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// WriteFile renders sc to path, choosing the format from its extension.
func WriteFile(path string, sc viz.Scene) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(out, sc, f); err != nil {
		out.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	return out.Close()
}

// rgb parses "#rrggbb". Anything else is mid grey.
func rgb(hex string) (r, g, b uint8) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0x80, 0x80, 0x80
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0x80, 0x80, 0x80
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}
