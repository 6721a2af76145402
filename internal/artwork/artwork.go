// package artwork fetches cover images and renders them as terminal
// half-block art with an accent color extracted from the image.
package artwork

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"
	"time"

	"github.com/EdlinOrg/prominentcolor"
	"github.com/charmbracelet/lipgloss"
	"github.com/nfnt/resize"
)

// DefaultAccent is used when no usable color can be extracted.
const DefaultAccent = "#8BA4E8"

// Fetch downloads and decodes a cover image.
func Fetch(ctx context.Context, coverURL string) (image.Image, error) {
	if coverURL == "" {
		return nil, errors.New("empty artwork url")
	}

	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, coverURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artwork: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("artwork fetch returned status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode artwork: %w", err)
	}

	return img, nil
}

// Accent extracts a single prominent color from the image as a hex string,
// falling back to DefaultAccent.
func Accent(img image.Image) string {
	if img == nil {
		return DefaultAccent
	}

	colors, err := prominentcolor.KmeansWithAll(3, img, prominentcolor.ArgumentDefault, prominentcolor.DefaultSize, nil)
	if err != nil || len(colors) == 0 {
		return DefaultAccent
	}

	c := colors[0].Color
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// RenderHalfBlock downscales the image and renders it as lipgloss-styled
// half-block cells, two pixel rows per terminal row. Returns nil when the
// target is too small to be useful.
func RenderHalfBlock(img image.Image, targetWidth, targetHeight int) []string {
	if img == nil || targetWidth < 4 || targetHeight < 2 {
		return nil
	}

	actualHeight := targetHeight * 2

	resized := resize.Resize(uint(targetWidth), uint(actualHeight), img, resize.Lanczos3)
	bounds := resized.Bounds()

	lines := make([]string, targetHeight)

	for y := 0; y < targetHeight; y++ {
		var line strings.Builder
		topY := y * 2
		bottomY := topY + 1

		for x := 0; x < bounds.Dx(); x++ {
			topR, topG, topB, _ := resized.At(bounds.Min.X+x, bounds.Min.Y+topY).RGBA()

			var bottomR, bottomG, bottomB uint32
			if bottomY < bounds.Dy() {
				bottomR, bottomG, bottomB, _ = resized.At(bounds.Min.X+x, bounds.Min.Y+bottomY).RGBA()
			} else {
				bottomR, bottomG, bottomB = topR, topG, topB
			}

			topColor := fmt.Sprintf("#%02X%02X%02X", topR>>8, topG>>8, topB>>8)
			bottomColor := fmt.Sprintf("#%02X%02X%02X", bottomR>>8, bottomG>>8, bottomB>>8)

			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(topColor)).
				Background(lipgloss.Color(bottomColor))

			line.WriteString(style.Render("▀"))
		}
		lines[y] = line.String()
	}

	return lines
}
