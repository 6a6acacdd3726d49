package scmap

import (
	"fmt"
	"math"

	"github.com/axle-forge/scmaptool/pkg/raster"
)

// Resize rescales the map extent to newWidth x newHeight, rescaling every
// size-dependent sub-asset (heightmap, water elevations, wave generators,
// strata, decals, props, mask planes, and terrain-type data) consistently.
// Embedded-texture blobs are passed through unchanged; the game re-derives
// them on load.
func (c *Container) Resize(newWidth, newHeight int32) error {
	if newWidth <= 0 || newHeight <= 0 {
		return fmt.Errorf("scmap: resize dimensions must be positive, got %dx%d", newWidth, newHeight)
	}

	sx := float64(newWidth) / float64(c.Width)
	sz := float64(newHeight) / float64(c.Height)
	sy := math.Sqrt(sx * sz)

	c.resizeHeightmap(newWidth, newHeight, sy)

	c.WaterShader.Elevation *= float32(sy)
	c.WaterShader.ElevationDeep *= float32(sy)
	c.WaterShader.ElevationAbyss *= float32(sy)

	for i := range c.WaveGenerators {
		wg := &c.WaveGenerators[i]
		wg.Position[0] *= float32(sx)
		wg.Position[1] *= float32(sy)
		wg.Position[2] *= float32(sz)
	}

	sAlbedoNormal := float32(math.Sqrt(sx * sz))
	for i := range c.Strata {
		c.Strata[i].AlbedoScale *= sAlbedoNormal
		c.Strata[i].NormalsScale *= sAlbedoNormal
	}

	for i := range c.Decals {
		d := &c.Decals[i]
		d.Position[0] *= float32(sx)
		d.Position[1] *= float32(sy)
		d.Position[2] *= float32(sz)
		d.Scale[0] *= float32(sx)
		d.Scale[1] *= float32(sy)
		d.Scale[2] *= float32(sz)
	}

	for i := range c.Props {
		p := &c.Props[i]
		p.Position[0] *= float32(sx)
		p.Position[1] *= float32(sy)
		p.Position[2] *= float32(sz)
	}

	c.resizeBytePlanes(newWidth, newHeight)

	c.WidthOther = uint32(float64(c.WidthOther) * float64(newWidth) / float64(c.Width))
	c.HeightOther = uint32(float64(c.HeightOther) * float64(newHeight) / float64(c.Height))

	c.Width = newWidth
	c.Height = newHeight
	return nil
}

func (c *Container) resizeHeightmap(newWidth, newHeight int32, sy float64) {
	sw, sh := int(c.Width+1), int(c.Height+1)
	dw, dh := int(newWidth+1), int(newHeight+1)
	dst := make([]int16, dw*dh)
	raster.Resample(c.HeightMap, sw, sh, dst, dw, dh, raster.Weighted)
	for i, v := range dst {
		dst[i] = int16(float64(v) * sy)
	}
	c.HeightMap = dst
}

// resizeBytePlanes resamples the three water masks and the terrain-type
// plane, each at its own sub-resolution recovered from its current length.
func (c *Container) resizeBytePlanes(newWidth, newHeight int32) {
	planes := []*[]byte{&c.WaterFoamMask, &c.WaterFlatnessMask, &c.WaterDepthBiasMask, &c.TerrainTypeData}
	for _, plane := range planes {
		area := int(c.Width) * int(c.Height)
		n := area / len(*plane) // 1 for terrainTypeData, 4 for mask planes
		widthDivisor := int(0.5 + math.Sqrt(float64(n)))

		sw := int(c.Width) / widthDivisor
		sh := int(c.Height) / widthDivisor
		dw := int(newWidth) / widthDivisor
		dh := int(newHeight) / widthDivisor

		dst := make([]byte, dw*dh)
		raster.Resample(*plane, sw, sh, dst, dw, dh, raster.Nearest)
		*plane = dst
	}
}
