package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	apperr "github.com/matzehuels/chronoline/pkg/errors"
)

// rsvgTool is the librsvg command line converter. Tests point it elsewhere.
var rsvgTool = "rsvg-convert"

// convertTimeout bounds a single rasterization. Wide timelines with many
// achievements can take a few seconds as PDF.
const convertTimeout = time.Minute

const installHint = `install librsvg to export %s:
  macOS:  brew install librsvg
  Linux:  apt install librsvg2-bin`

// ToPDF converts SVG bytes to a vector PDF.
func ToPDF(svg []byte) ([]byte, error) {
	return rasterize(context.Background(), svg, "pdf")
}

// ToPNG converts SVG bytes to PNG. A scale of 2 doubles the resolution;
// non-positive scales render at 1x.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return rasterize(context.Background(), svg, "png", "--zoom", strconv.FormatFloat(scale, 'f', 2, 64))
}

func rasterize(ctx context.Context, svg []byte, format string, flags ...string) ([]byte, error) {
	bin, err := exec.LookPath(rsvgTool)
	if err != nil {
		return nil, apperr.New(apperr.ErrCodeUnsupported, installHint, strings.ToUpper(format))
	}

	ctx, cancel := context.WithTimeout(ctx, convertTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, append([]string{"--format", format}, flags...)...)
	cmd.Stdin = bytes.NewReader(svg)
	var stdout, stderr bytes.Buffer
	cmd.Stdout, cmd.Stderr = &stdout, &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, apperr.Wrap(apperr.ErrCodeInternal, err, "convert to %s: %s", format, msg)
	}
	return stdout.Bytes(), nil
}
