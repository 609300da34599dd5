package render

import (
	"bytes"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Format is an export format for rendered graphs.
type Format string

// Export formats. SVG and DOT are produced in-process; PDF and PNG are
// converted from SVG with rsvg-convert.
const (
	FormatSVG Format = "svg"
	FormatDOT Format = "dot"
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatSVG, FormatDOT, FormatPDF, FormatPNG:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want svg, dot, pdf, or png)", s)
	}
}

// FormatFromPath infers the export format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("no file extension in %q", path)
	}
	return ParseFormat(ext)
}

// Convert turns SVG bytes into the requested format. SVG input is returned
// unchanged; scale applies to PNG only.
func Convert(svg []byte, f Format, scale float64) ([]byte, error) {
	switch f {
	case FormatSVG:
		return svg, nil
	case FormatPDF:
		return rsvgConvert(svg, "pdf")
	case FormatPNG:
		if scale <= 0 {
			scale = 1
		}
		return rsvgConvert(svg, "png", "-z", fmt.Sprintf("%.2f", scale))
	default:
		return nil, fmt.Errorf("cannot convert SVG to %s", f)
	}
}

// rsvgConvert shells out to rsvg-convert for format conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func rsvgConvert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, fmt.Errorf("%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.Command("rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
