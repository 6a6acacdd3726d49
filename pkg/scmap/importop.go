package scmap

import (
	"encoding/binary"
	"fmt"

	"github.com/axle-forge/scmaptool/pkg/ddstexture"
	"github.com/axle-forge/scmaptool/pkg/raster"
	"github.com/axle-forge/scmaptool/pkg/scmaperr"
)

// Import composites other into c at destination pixel offset (col0, row0):
// the heightmap and terrain-type plane are overlaid directly, matching
// embedded-texture blobs are composited through ImportBlob, and every
// position-bearing sequence (waveGenerators, decals, props) is rebuilt by
// dropping c's own elements that fall inside the imported rectangle and
// splicing in translated copies of other's elements that land inside it.
// additive is accepted for API symmetry with the original editor but, like
// the source this is ported from, does not change the (always-replacing)
// overlay combine mode used here.
func (c *Container) Import(other *Container, col0, row0 int32, additive bool) error {
	dw, dh := int(c.Width+1), int(c.Height+1)
	sw, sh := int(other.Width+1), int(other.Height+1)
	raster.Overlay(other.HeightMap, sw, sh, c.HeightMap, dw, dh, int(col0), int(row0), raster.Replace)

	raster.Overlay(other.TerrainTypeData, int(other.Width), int(other.Height),
		c.TerrainTypeData, int(c.Width), int(c.Height), int(col0), int(row0), raster.Replace)

	blobLists := [][2][][]byte{
		{other.NormalMapBlobs, c.NormalMapBlobs},
		{other.StrataLerpBlobs, c.StrataLerpBlobs},
		{other.WaterLerpBlobs, c.WaterLerpBlobs},
	}
	for _, pair := range blobLists {
		srcBlobs, dstBlobs := pair[0], pair[1]
		n := len(srcBlobs)
		if len(dstBlobs) < n {
			n = len(dstBlobs)
		}
		for i := 0; i < n; i++ {
			if err := ImportBlob(srcBlobs[i], dstBlobs[i], other.Width, other.Height, c.Width, c.Height, col0, row0); err != nil {
				return err
			}
		}
	}

	xlow, zlow := float32(col0), float32(row0)
	xhigh, zhigh := float32(col0+other.Width), float32(row0+other.Height)

	c.WaveGenerators = importWaveGenerators(c.WaveGenerators, other.WaveGenerators, xlow, zlow, xhigh, zhigh)
	c.Decals = importDecals(c.Decals, other.Decals, xlow, zlow, xhigh, zhigh)
	c.Props = importProps(c.Props, other.Props, xlow, zlow, xhigh, zhigh)

	return nil
}

func inRectangle(x, z, xlow, zlow, xhigh, zhigh float32) bool {
	return x >= xlow && x < xhigh && z >= zlow && z < zhigh
}

func importWaveGenerators(dst, src []WaveGenerator, xlow, zlow, xhigh, zhigh float32) []WaveGenerator {
	out := make([]WaveGenerator, 0, len(dst))
	for _, wg := range dst {
		if !inRectangle(wg.Position[0], wg.Position[2], xlow, zlow, xhigh, zhigh) {
			out = append(out, wg)
		}
	}
	for _, wg := range src {
		cp := wg
		cp.Position[0] += xlow
		cp.Position[2] += zlow
		if inRectangle(cp.Position[0], cp.Position[2], xlow, zlow, xhigh, zhigh) {
			out = append(out, cp)
		}
	}
	return out
}

func importDecals(dst, src []Decal, xlow, zlow, xhigh, zhigh float32) []Decal {
	out := make([]Decal, 0, len(dst))
	for _, d := range dst {
		if !inRectangle(d.Position[0], d.Position[2], xlow, zlow, xhigh, zhigh) {
			out = append(out, d)
		}
	}
	for _, d := range src {
		cp := d
		cp.TexturePaths = append([]string(nil), d.TexturePaths...)
		cp.Position[0] += xlow
		cp.Position[2] += zlow
		if inRectangle(cp.Position[0], cp.Position[2], xlow, zlow, xhigh, zhigh) {
			out = append(out, cp)
		}
	}
	return out
}

func importProps(dst, src []Prop, xlow, zlow, xhigh, zhigh float32) []Prop {
	out := make([]Prop, 0, len(dst))
	for _, p := range dst {
		if !inRectangle(p.Position[0], p.Position[2], xlow, zlow, xhigh, zhigh) {
			out = append(out, p)
		}
	}
	for _, p := range src {
		cp := p
		cp.Position[0] += xlow
		cp.Position[2] += zlow
		if inRectangle(cp.Position[0], cp.Position[2], xlow, zlow, xhigh, zhigh) {
			out = append(out, cp)
		}
	}
	return out
}

// ImportBlob composites the embedded-texture payload of src into dst in
// place, mapping the game-world offset (col0, row0) into dst's pixel
// coordinates by the ratio of dst's pixel width/height to the destination
// map extent destMapW x destMapH.
func ImportBlob(src, dst []byte, srcMapW, srcMapH, destMapW, destMapH, col0, row0 int32) error {
	srcHdr, err := ddstexture.ParseHeader(src)
	if err != nil {
		return err
	}
	dstHdr, err := ddstexture.ParseHeader(dst)
	if err != nil {
		return err
	}
	if srcHdr.Format != dstHdr.Format || srcHdr.BytesPerPixel != dstHdr.BytesPerPixel {
		return fmt.Errorf("scmap: blob pixel format mismatch (%v/%d vs %v/%d): %w",
			srcHdr.Format, srcHdr.BytesPerPixel, dstHdr.Format, dstHdr.BytesPerPixel, scmaperr.ErrIncompatiblePixelFormat)
	}

	tc := int(0.5 + float64(col0)*float64(dstHdr.Width)/float64(destMapW))
	tr := int(0.5 + float64(row0)*float64(dstHdr.Height)/float64(destMapH))
	srcWScaled := int(0.5 + float64(srcMapW)*float64(dstHdr.Width)/float64(destMapW))
	srcHScaled := int(0.5 + float64(srcMapH)*float64(dstHdr.Height)/float64(destMapH))

	switch srcHdr.BytesPerPixel {
	case 1:
		return importBlobPixels[uint8](srcHdr, dstHdr, srcWScaled, srcHScaled, tc, tr,
			func(b []byte) []uint8 { return b },
			func(v []uint8, b []byte) { copy(b, v) })
	case 2:
		return importBlobPixels[uint16](srcHdr, dstHdr, srcWScaled, srcHScaled, tc, tr, bytesToU16, u16ToBytes)
	case 4:
		return importBlobPixels[uint32](srcHdr, dstHdr, srcWScaled, srcHScaled, tc, tr, bytesToU32, u32ToBytes)
	case 8:
		return importBlobPixels[uint64](srcHdr, dstHdr, srcWScaled, srcHScaled, tc, tr, bytesToU64, u64ToBytes)
	default:
		return fmt.Errorf("scmap: blob bytes-per-pixel %d not supported by kernels: %w", srcHdr.BytesPerPixel, scmaperr.ErrUnsupportedPixelFormat)
	}
}

func importBlobPixels[T raster.Element](srcHdr, dstHdr *ddstexture.Header, srcWScaled, srcHScaled, tc, tr int, decode func([]byte) []T, encode func([]T, []byte)) error {
	srcPixels := decode(srcHdr.Payload())
	scaled := make([]T, srcWScaled*srcHScaled)
	raster.Resample(srcPixels, int(srcHdr.Width), int(srcHdr.Height), scaled, srcWScaled, srcHScaled, raster.Nearest)

	dstPixels := decode(dstHdr.PayloadMut())
	raster.Overlay(scaled, srcWScaled, srcHScaled, dstPixels, int(dstHdr.Width), int(dstHdr.Height), tc, tr, raster.Replace)
	encode(dstPixels, dstHdr.PayloadMut())
	return nil
}

func bytesToU16(b []byte) []uint16 {
	out := make([]uint16, len(b)/2)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return out
}

func u16ToBytes(v []uint16, b []byte) {
	for i, x := range v {
		binary.LittleEndian.PutUint16(b[i*2:], x)
	}
}

func bytesToU32(b []byte) []uint32 {
	out := make([]uint32, len(b)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return out
}

func u32ToBytes(v []uint32, b []byte) {
	for i, x := range v {
		binary.LittleEndian.PutUint32(b[i*4:], x)
	}
}

func bytesToU64(b []byte) []uint64 {
	out := make([]uint64, len(b)/8)
	for i := range out {
		out[i] = binary.LittleEndian.Uint64(b[i*8:])
	}
	return out
}

func u64ToBytes(v []uint64, b []byte) {
	for i, x := range v {
		binary.LittleEndian.PutUint64(b[i*8:], x)
	}
}
