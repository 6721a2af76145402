package artwork

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7 % 256), G: 80, B: uint8(y * 11 % 256), A: 255})
		}
	}
	return img
}

func TestFetch(t *testing.T) {
	t.Run("Decodes PNG", func(t *testing.T) {
		var buf bytes.Buffer
		if err := png.Encode(&buf, testImage(16, 16)); err != nil {
			t.Fatalf("failed to encode test image: %v", err)
		}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(buf.Bytes())
		}))
		defer server.Close()

		img, err := Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if img.Bounds().Dx() != 16 {
			t.Errorf("unexpected bounds %v", img.Bounds())
		}
	})

	t.Run("Empty URL", func(t *testing.T) {
		if _, err := Fetch(context.Background(), ""); err == nil {
			t.Error("expected error for empty URL")
		}
	})

	t.Run("Non-200", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		if _, err := Fetch(context.Background(), server.URL); err == nil {
			t.Error("expected error for 404")
		}
	})
}

func TestAccent(t *testing.T) {
	t.Run("Nil Image", func(t *testing.T) {
		if got := Accent(nil); got != DefaultAccent {
			t.Errorf("Accent(nil) = %q", got)
		}
	})

	t.Run("Hex Output", func(t *testing.T) {
		got := Accent(testImage(64, 64))
		if !strings.HasPrefix(got, "#") || len(got) != 7 {
			t.Errorf("expected hex color, got %q", got)
		}
	})
}

func TestRenderHalfBlock(t *testing.T) {
	t.Run("Line Count", func(t *testing.T) {
		lines := RenderHalfBlock(testImage(32, 32), 16, 8)
		if len(lines) != 8 {
			t.Errorf("expected 8 lines, got %d", len(lines))
		}
		for i, line := range lines {
			if !strings.Contains(line, "▀") {
				t.Errorf("line %d missing half-block cells", i)
			}
		}
	})

	t.Run("Too Small", func(t *testing.T) {
		if lines := RenderHalfBlock(testImage(8, 8), 2, 1); lines != nil {
			t.Errorf("tiny targets should render nothing, got %d lines", len(lines))
		}
	})

	t.Run("Nil Image", func(t *testing.T) {
		if lines := RenderHalfBlock(nil, 16, 8); lines != nil {
			t.Error("nil image should render nothing")
		}
	})
}
