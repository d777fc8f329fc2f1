package extract

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"sort"
)

const (
	screenshotMaxColors = 5
	sampleStride        = 8
	quantStep           = 16
)

// SampleScreenshot extracts up to five dominant non-neutral colors from a
// rendered page screenshot. Near-white, near-black and low-saturation
// pixels are skipped so grays and page background do not drown out the
// brand palette. Returns nil when the image cannot be decoded or holds
// no saturated color.
func SampleScreenshot(data []byte) []string {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	counts := make(map[rgb]int)
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y += sampleStride {
		for x := bounds.Min.X; x < bounds.Max.X; x += sampleStride {
			r16, g16, b16, _ := img.At(x, y).RGBA()
			c := rgb{int(r16 >> 8), int(g16 >> 8), int(b16 >> 8)}
			if c.nearWhite() || c.nearBlack() || lowSaturation(c) {
				continue
			}
			counts[quantize(c)]++
		}
	}

	if len(counts) == 0 {
		return nil
	}

	colors := make([]rgb, 0, len(counts))
	for c := range counts {
		colors = append(colors, c)
	}
	sort.Slice(colors, func(i, j int) bool {
		if counts[colors[i]] != counts[colors[j]] {
			return counts[colors[i]] > counts[colors[j]]
		}
		return colors[i].hex() < colors[j].hex()
	})

	if len(colors) > screenshotMaxColors {
		colors = colors[:screenshotMaxColors]
	}
	return toHex(colors)
}

// lowSaturation reports whether a color is effectively gray (HSV s < 0.1)
func lowSaturation(c rgb) bool {
	max := c.r
	if c.g > max {
		max = c.g
	}
	if c.b > max {
		max = c.b
	}
	min := c.r
	if c.g < min {
		min = c.g
	}
	if c.b < min {
		min = c.b
	}
	if max == 0 {
		return true
	}
	return float64(max-min)/float64(max) < 0.1
}

// quantize buckets channels so near-identical pixels aggregate
func quantize(c rgb) rgb {
	q := func(v int) int {
		v = v / quantStep * quantStep
		if v > 255 {
			v = 255
		}
		return v
	}
	return rgb{q(c.r), q(c.g), q(c.b)}
}
