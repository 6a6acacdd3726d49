package scmap

import (
	"fmt"
	"sort"

	"github.com/axle-forge/scmaptool/pkg/binio"
	"github.com/axle-forge/scmaptool/pkg/scmaperr"
)

// Save validates invariants and encodes the container back to bytes in the
// same field order Load consumed them.
func Save(c *Container) ([]byte, error) {
	if err := checkInvariants(c); err != nil {
		return nil, err
	}

	w := binio.NewWriter()
	binio.WriteScalar(w, c.MagicMap1A)
	binio.WriteScalar(w, c.VersionMajor)

	savePreview(w, c)

	binio.WriteScalar(w, c.VersionMinor)
	binio.WriteScalar(w, c.Width)
	binio.WriteScalar(w, c.Height)
	binio.WriteScalar(w, c.HeightScale)
	w.WriteInt16Slice(c.HeightMap)
	if c.VersionMinor >= 54 {
		w.WriteNulString(c.UnknownV54)
	}

	saveTextureDefinition(w, c)
	saveWater(w, c)
	saveMinimap(w, c)
	saveStrata(w, c)
	saveDecals(w, c)

	binio.WriteScalar(w, c.WidthOther)
	binio.WriteScalar(w, c.HeightOther)
	saveBlobList(w, c.NormalMapBlobs, true)

	if c.VersionMinor < 54 {
		binio.WriteScalar(w, uint32(len(c.StrataLerpBlobs)))
	}
	saveBlobList(w, c.StrataLerpBlobs, false)

	saveBlobList(w, c.WaterLerpBlobs, true)

	w.WriteBuffer(c.WaterFoamMask)
	w.WriteBuffer(c.WaterFlatnessMask)
	w.WriteBuffer(c.WaterDepthBiasMask)
	w.WriteBuffer(c.TerrainTypeData)

	if c.VersionMinor < 53 {
		for _, s := range c.PreV53DummyStrings {
			w.WriteNulString(s)
		}
	}

	if c.VersionMinor >= 59 {
		saveVariants(w, c)
	}

	saveProps(w, c)

	return w.Bytes(), nil
}

func savePreview(w *binio.Writer, c *Container) {
	binio.WriteScalar(w, c.MagicBeeffeed)
	binio.WriteScalar(w, c.PreviewSubVersion)
	binio.WriteScalar(w, c.PreviewWidth)
	binio.WriteScalar(w, c.PreviewHeight)
	binio.WriteScalar(w, c.PreviewWstring1)
	binio.WriteScalar(w, c.PreviewAlwaysZero)
	binio.WriteScalar(w, uint32(len(c.Preview)))
	w.WriteBuffer(c.Preview)
}

func saveTextureDefinition(w *binio.Writer, c *Container) {
	w.WriteNulString(c.TerrainShader)
	w.WriteNulString(c.BackgroundTexturePath)
	w.WriteNulString(c.SkyCubeMapTexturePath)

	if c.VersionMinor >= 55 {
		binio.WriteScalar(w, int32(len(c.EnvironmentCubeMapTextures)))
		profiles := make([]string, 0, len(c.EnvironmentCubeMapTextures))
		for profile := range c.EnvironmentCubeMapTextures {
			profiles = append(profiles, profile)
		}
		sort.Strings(profiles)
		for _, profile := range profiles {
			w.WriteNulString(profile)
			w.WriteNulString(c.EnvironmentCubeMapTextures[profile])
		}
	} else {
		w.WriteNulString(c.EnvironmentCubeMapTextures["<default>"])
	}

	binio.WriteScalar(w, c.LightingMultiplier)
	writeVec3(w, c.SunDirection)
	writeVec3(w, c.SunAmbience)
	writeVec3(w, c.SunColour)
	writeVec3(w, c.ShadowFillColour)
	writeVec4(w, c.SpecularColour)
	binio.WriteScalar(w, c.Bloom)
	writeVec3(w, c.FogColour)
	binio.WriteScalar(w, c.FogStart)
	binio.WriteScalar(w, c.FogEnd)
}

func saveWater(w *binio.Writer, c *Container) {
	ws := &c.WaterShader
	binio.WriteScalar(w, ws.HasWater)
	if ws.HasWater == 1 {
		binio.WriteScalar(w, ws.Elevation)
		binio.WriteScalar(w, ws.ElevationDeep)
		binio.WriteScalar(w, ws.ElevationAbyss)
	} else {
		w.WriteBuffer(make([]byte, 12))
	}

	writeVec3(w, ws.SurfaceColor)
	binio.WriteFloat32Array(w, ws.ColorLerp[:])
	binio.WriteFloat32Array(w, ws.Scalars[:])
	writeVec3(w, ws.SunDirection)
	writeVec3(w, ws.SunColor)
	binio.WriteFloat32Array(w, ws.SunScalars[:])
	w.WriteNulString(ws.CubemapTexture)
	w.WriteNulString(ws.RampTexture)

	normalRepeats := make([]float32, 4)
	for i, wt := range ws.WaveTextures {
		normalRepeats[i] = wt.NormalRepeat
	}
	binio.WriteFloat32Array(w, normalRepeats)
	for _, wt := range ws.WaveTextures {
		writeVec2(w, wt.NormalMovement)
		w.WriteNulString(wt.Path)
	}

	binio.WriteScalar(w, uint32(len(c.WaveGenerators)))
	for _, wg := range c.WaveGenerators {
		saveWaveGenerator(w, &wg)
	}
}

func saveWaveGenerator(w *binio.Writer, wg *WaveGenerator) {
	w.WriteNulString(wg.TextureName)
	w.WriteNulString(wg.RampName)
	writeVec3(w, wg.Position)
	binio.WriteScalar(w, wg.Rotation)
	writeVec3(w, wg.Velocity)
	binio.WriteFloat32Array(w, []float32{
		wg.LifetimeFirst, wg.LifetimeSecond,
		wg.PeriodFirst, wg.PeriodSecond,
		wg.ScaleFirst, wg.ScaleSecond,
		wg.FrameCount,
		wg.FrameRateFirst, wg.FrameRateSecond,
		wg.StripCount,
	})
}

func saveMinimap(w *binio.Writer, c *Container) {
	if c.VersionMinor >= 56 {
		binio.WriteScalar(w, c.MinimapContourInterval)
		binio.WriteScalar(w, c.MinimapDeepWaterColor)
		binio.WriteScalar(w, c.MinimapContourColor)
		binio.WriteScalar(w, c.MinimapShoreColor)
		binio.WriteScalar(w, c.MinimapLandStartColor)
		binio.WriteScalar(w, c.MinimapLandEndColor)
	}
	if c.VersionMinor >= 57 {
		binio.WriteScalar(w, c.UnknownV57)
	}
}

func saveStrata(w *binio.Writer, c *Container) {
	if c.VersionMinor < 54 {
		w.WriteNulString(c.Tileset)
		binio.WriteScalar(w, c.StratumCount)
		remaining := c.StratumCount
		for _, slot := range []int{0, 1, 2, 3, 4, 8, 9} {
			if remaining == 0 {
				break
			}
			s := &c.Strata[slot]
			w.WriteNulString(s.AlbedoPath)
			w.WriteNulString(s.NormalsPath)
			binio.WriteScalar(w, s.AlbedoScale)
			binio.WriteScalar(w, s.NormalsScale)
			remaining--
		}
		return
	}

	for i := 0; i < 10; i++ {
		w.WriteNulString(c.Strata[i].AlbedoPath)
		binio.WriteScalar(w, c.Strata[i].AlbedoScale)
	}
	for i := 0; i < 9; i++ {
		w.WriteNulString(c.Strata[i].NormalsPath)
		binio.WriteScalar(w, c.Strata[i].NormalsScale)
	}
}

func saveDecals(w *binio.Writer, c *Container) {
	for _, v := range c.UnknownPreDecals {
		binio.WriteScalar(w, v)
	}

	binio.WriteScalar(w, uint32(len(c.Decals)))
	for _, d := range c.Decals {
		binio.WriteScalar(w, d.Unknown)
		binio.WriteScalar(w, d.Type)
		binio.WriteScalar(w, uint32(len(d.TexturePaths)))
		for _, p := range d.TexturePaths {
			binio.WriteScalar(w, uint32(len(p)))
			w.WriteBuffer([]byte(p))
		}
		writeVec3(w, d.Scale)
		writeVec3(w, d.Position)
		writeVec3(w, d.Rotation)
		binio.WriteScalar(w, d.CutOffLOD)
		binio.WriteScalar(w, d.NearCutOffLOD)
		binio.WriteScalar(w, d.OwnerArmy)
	}

	binio.WriteScalar(w, uint32(len(c.DecalGroups)))
	for _, g := range c.DecalGroups {
		binio.WriteScalar(w, g.ID)
		w.WriteNulString(g.Name)
		binio.WriteScalar(w, uint32(len(g.Members)))
		w.WriteInt32Slice(g.Members)
	}
}

func saveBlobList(w *binio.Writer, blobs [][]byte, withCount bool) {
	if withCount {
		binio.WriteScalar(w, uint32(len(blobs)))
	}
	for _, b := range blobs {
		binio.WriteScalar(w, uint32(len(b)))
		w.WriteBuffer(b)
	}
}

func saveVariants(w *binio.Writer, c *Container) {
	va := c.VariantA
	if va == nil {
		va = &VariantA{}
	}
	writeVec3(w, va.P1)
	binio.WriteScalar(w, va.P2)
	binio.WriteScalar(w, va.P3)
	binio.WriteScalar(w, va.P4)
	binio.WriteScalar(w, va.P5)
	binio.WriteScalar(w, va.P6)
	binio.WriteScalar(w, va.P7)
	writeVec3(w, va.P8)
	writeVec3(w, va.P9)
	binio.WriteScalar(w, va.P10)
	w.WriteNulString(va.P11)
	w.WriteNulString(va.P12)

	binio.WriteScalar(w, uint32(len(va.Buffers40)))
	for _, b := range va.Buffers40 {
		w.WriteBuffer(b)
	}

	w.WriteNulString(va.P15)
	w.WriteNulString(va.P16)
	w.WriteNulString(va.P17)
	binio.WriteScalar(w, va.P18)
	writeVec3(w, va.P19)
	w.WriteNulString(va.P20)

	binio.WriteScalar(w, uint32(len(va.Buffers20)))
	for _, b := range va.Buffers20 {
		w.WriteBuffer(b)
	}

	binio.WriteScalar(w, uint32(len(c.VariantB)))
	for _, vb := range c.VariantB {
		w.WriteNulString(vb.P1)
		w.WriteNulString(vb.P2)
		binio.WriteScalar(w, uint32(len(vb.Entries)))
		for _, e := range vb.Entries {
			w.WriteBuffer(e[:])
		}
	}
}

func saveProps(w *binio.Writer, c *Container) {
	binio.WriteScalar(w, uint32(len(c.Props)))
	for _, p := range c.Props {
		w.WriteNulString(p.BlueprintPath)
		writeVec3(w, p.Position)
		writeVec3(w, p.RotationX)
		writeVec3(w, p.RotationY)
		writeVec3(w, p.RotationZ)
		w.WriteUint32Slice(p.Unknown[:])
	}
}

func checkInvariants(c *Container) error {
	if c.MagicMap1A != MagicMap1A {
		return fmt.Errorf("scmap: magicMap1A corrupted: %w", scmaperr.ErrMalformedHeader)
	}
	if c.VersionMajor != 2 || !SupportedVersionMinors[c.VersionMinor] {
		return fmt.Errorf("scmap: version out of range: %w", scmaperr.ErrUnsupportedVersion)
	}
	if len(c.HeightMap) != int(c.Width+1)*int(c.Height+1) {
		return fmt.Errorf("scmap: heightMap length %d, want %d: %w",
			len(c.HeightMap), int(c.Width+1)*int(c.Height+1), scmaperr.ErrDimensionMismatch)
	}
	planeLen := int(c.Width) * int(c.Height) / 4
	if len(c.WaterFoamMask) != planeLen || len(c.WaterFlatnessMask) != planeLen || len(c.WaterDepthBiasMask) != planeLen {
		return fmt.Errorf("scmap: mask plane length mismatch: %w", scmaperr.ErrDimensionMismatch)
	}
	if len(c.TerrainTypeData) != int(c.Width)*int(c.Height) {
		return fmt.Errorf("scmap: terrainTypeData length %d, want %d: %w",
			len(c.TerrainTypeData), int(c.Width)*int(c.Height), scmaperr.ErrDimensionMismatch)
	}
	return nil
}
