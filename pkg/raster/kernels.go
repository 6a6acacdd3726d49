// Package raster implements the resample and overlay kernels shared by
// heightmap, mask-plane, and embedded-texture editing: nearest-neighbour and
// inverse-distance-weighted resampling, and additive or replacing overlay
// composition. Every kernel operates on row-major arrays, row stride equal
// to width, over any integer element type.
package raster

import "golang.org/x/exp/constraints"

// Element constrains the array element type of the kernels to any integer
// type. This module uses them with the heightmap's int16 samples and the
// unsigned pixel widths found in byte planes and embedded texture payloads
// (1/2/4/8 bytes per pixel).
type Element interface {
	constraints.Integer
}

// ResampleMode selects how Resample derives a destination sample from the
// source grid.
type ResampleMode int

const (
	// Nearest picks the single closest source cell.
	Nearest ResampleMode = iota
	// Weighted averages a 4x4 neighbourhood by inverse squared distance.
	Weighted
)

// CombineMode selects how Overlay merges a source sample into destination.
type CombineMode int

const (
	// Replace overwrites the destination cell.
	Replace CombineMode = iota
	// Accumulate adds the source cell onto the destination cell.
	Accumulate
)

// Resample writes a dw x dh grid into dst by resampling the sw x sh grid in
// src, using mode to select nearest-neighbour or weighted interpolation.
// dst must already be sized dw*dh.
func Resample[T Element](src []T, sw, sh int, dst []T, dw, dh int, mode ResampleMode) {
	switch mode {
	case Nearest:
		resampleNearest(src, sw, sh, dst, dw, dh)
	case Weighted:
		resampleWeighted(src, sw, sh, dst, dw, dh)
	}
}

func resampleNearest[T Element](src []T, sw, sh int, dst []T, dw, dh int) {
	for r := 0; r < dh; r++ {
		sr := r * sh / dh
		for c := 0; c < dw; c++ {
			sc := c * sw / dw
			dst[r*dw+c] = src[sr*sw+sc]
		}
	}
}

func resampleWeighted[T Element](src []T, sw, sh int, dst []T, dw, dh int) {
	for r := 0; r < dh; r++ {
		sr := float64(r) * float64(sh) / float64(dh)
		sri := int(sr)
		for c := 0; c < dw; c++ {
			sc := float64(c) * float64(sw) / float64(dw)
			sci := int(sc)

			var sum, weight float64
			for dr := -1; dr <= 2; dr++ {
				rr := sri + dr
				if rr < 0 || rr >= sh {
					continue
				}
				for dc := -1; dc <= 2; dc++ {
					cc := sci + dc
					if cc < 0 || cc >= sw {
						continue
					}
					ddx := sc - float64(cc)
					ddz := sr - float64(rr)
					d := ddx*ddx + ddz*ddz
					if d < 0.1 {
						d = 0.1
					}
					w := 1 / d
					sum += float64(src[rr*sw+cc]) * w
					weight += w
				}
			}
			var v T
			if weight > 0 {
				v = T(sum / weight)
			}
			dst[r*dw+c] = v
		}
	}
}

// Overlay composites the sw x sh grid src into the dw x dh grid dst at
// destination offset (col0, row0). Cells that land outside dst are skipped.
func Overlay[T Element](src []T, sw, sh int, dst []T, dw, dh, col0, row0 int, mode CombineMode) {
	for r := 0; r < sh; r++ {
		dr := r + row0
		if dr < 0 || dr >= dh {
			continue
		}
		for c := 0; c < sw; c++ {
			dc := c + col0
			if dc < 0 || dc >= dw {
				continue
			}
			v := src[r*sw+c]
			switch mode {
			case Replace:
				dst[dr*dw+dc] = v
			case Accumulate:
				dst[dr*dw+dc] += v
			}
		}
	}
}
