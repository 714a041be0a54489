package imageproc

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/chai2010/webp"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestToWebPShrinksLargeImages(t *testing.T) {
	out, err := ToWebP(bytes.NewReader(pngOf(t, 1200, 600)), DefaultMaxSide)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode webp: %v", err)
	}
	if cfg.Width != 512 || cfg.Height != 256 {
		t.Fatalf("expected 512x256, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestToWebPKeepsSmallImages(t *testing.T) {
	out, err := ToWebP(bytes.NewReader(pngOf(t, 40, 30)), DefaultMaxSide)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	cfg, err := webp.DecodeConfig(bytes.NewReader(out))
	if err != nil || cfg.Width != 40 || cfg.Height != 30 {
		t.Fatalf("expected 40x30, got %+v %v", cfg, err)
	}
}

func TestToWebPRejectsGarbage(t *testing.T) {
	if _, err := ToWebP(strings.NewReader("not an image"), DefaultMaxSide); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
