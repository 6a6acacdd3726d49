package scmap

import (
	"fmt"

	"github.com/axle-forge/scmaptool/pkg/binio"
	"github.com/axle-forge/scmaptool/pkg/scmaperr"
)

func readVec2(r *binio.Reader) (Vec2, error) {
	f, err := binio.ReadFloat32Array(r, 2)
	if err != nil {
		return Vec2{}, err
	}
	return Vec2{f[0], f[1]}, nil
}

func readVec3(r *binio.Reader) (Vec3, error) {
	f, err := binio.ReadFloat32Array(r, 3)
	if err != nil {
		return Vec3{}, err
	}
	return Vec3{f[0], f[1], f[2]}, nil
}

func readVec4(r *binio.Reader) (Vec4, error) {
	f, err := binio.ReadFloat32Array(r, 4)
	if err != nil {
		return Vec4{}, err
	}
	return Vec4{f[0], f[1], f[2], f[3]}, nil
}

func writeVec2(w *binio.Writer, v Vec2) { binio.WriteFloat32Array(w, v[:]) }
func writeVec3(w *binio.Writer, v Vec3) { binio.WriteFloat32Array(w, v[:]) }
func writeVec4(w *binio.Writer, v Vec4) { binio.WriteFloat32Array(w, v[:]) }

func checkHealth(r *binio.Reader, section string, minRemaining int) error {
	if r.BytesRemaining() < minRemaining {
		return fmt.Errorf("scmap: truncated at %s section: %w", section, scmaperr.ErrTruncated)
	}
	return nil
}

// Load decodes a complete map container from data, walking the byte stream
// in the field order mandated by the container format.
func Load(data []byte) (*Container, error) {
	r := binio.NewReader(data)
	c := &Container{EnvironmentCubeMapTextures: map[string]string{}}

	if err := checkHealth(r, "header", 8); err != nil {
		return nil, err
	}
	magic, err := binio.ReadScalar[uint32](r)
	if err != nil {
		return nil, err
	}
	c.MagicMap1A = magic
	if c.MagicMap1A != MagicMap1A {
		return nil, fmt.Errorf("scmap: bad magic 0x%X: %w", c.MagicMap1A, scmaperr.ErrMalformedHeader)
	}
	if c.VersionMajor, err = binio.ReadScalar[int32](r); err != nil {
		return nil, err
	}
	if c.VersionMajor != 2 {
		return nil, fmt.Errorf("scmap: bad versionMajor %d: %w", c.VersionMajor, scmaperr.ErrMalformedHeader)
	}

	if err := loadPreview(r, c); err != nil {
		return nil, err
	}
	if err := loadHeightmap(r, c); err != nil {
		return nil, err
	}
	if err := loadTextureDefinition(r, c); err != nil {
		return nil, err
	}
	if err := loadWater(r, c); err != nil {
		return nil, err
	}
	if err := loadMinimap(r, c); err != nil {
		return nil, err
	}
	if err := loadStrata(r, c); err != nil {
		return nil, err
	}
	if err := loadDecals(r, c); err != nil {
		return nil, err
	}

	if err := checkHealth(r, "normal-map", 4); err != nil {
		return nil, err
	}
	if c.WidthOther, err = binio.ReadScalar[uint32](r); err != nil {
		return nil, err
	}
	if c.HeightOther, err = binio.ReadScalar[uint32](r); err != nil {
		return nil, err
	}
	if c.NormalMapBlobs, err = loadBlobList(r); err != nil {
		return nil, err
	}

	if err := checkHealth(r, "texture-map", 4); err != nil {
		return nil, err
	}
	strataLerpCount := uint32(2)
	if c.VersionMinor < 54 {
		if strataLerpCount, err = binio.ReadScalar[uint32](r); err != nil {
			return nil, err
		}
	}
	if c.StrataLerpBlobs, err = loadBlobListN(r, strataLerpCount); err != nil {
		return nil, err
	}

	if err := checkHealth(r, "watermap", 4); err != nil {
		return nil, err
	}
	if c.WaterLerpBlobs, err = loadBlobList(r); err != nil {
		return nil, err
	}

	if err := loadMaskPlanes(r, c); err != nil {
		return nil, err
	}

	if c.VersionMinor < 53 {
		for i := range c.PreV53DummyStrings {
			if c.PreV53DummyStrings[i], err = r.ReadNulString(); err != nil {
				return nil, err
			}
		}
	}

	if err := checkHealth(r, "variant", 0); err != nil {
		return nil, err
	}
	if c.VersionMinor >= 59 {
		if err := loadVariants(r, c); err != nil {
			return nil, err
		}
	}

	if err := loadProps(r, c); err != nil {
		return nil, err
	}

	return c, nil
}

func loadPreview(r *binio.Reader, c *Container) error {
	if err := checkHealth(r, "preview", 24); err != nil {
		return err
	}
	var err error
	if c.MagicBeeffeed, err = binio.ReadScalar[uint32](r); err != nil {
		return err
	}
	if c.PreviewSubVersion, err = binio.ReadScalar[uint32](r); err != nil {
		return err
	}
	if c.PreviewWidth, err = binio.ReadScalar[float32](r); err != nil {
		return err
	}
	if c.PreviewHeight, err = binio.ReadScalar[float32](r); err != nil {
		return err
	}
	if c.PreviewWstring1, err = binio.ReadScalar[uint16](r); err != nil {
		return err
	}
	if c.PreviewAlwaysZero, err = binio.ReadScalar[uint32](r); err != nil {
		return err
	}
	previewBytes, err := binio.ReadScalar[uint32](r)
	if err != nil {
		return err
	}
	if c.Preview, err = r.ReadBuffer(int(previewBytes), 1); err != nil {
		return err
	}
	return nil
}

func loadHeightmap(r *binio.Reader, c *Container) error {
	if err := checkHealth(r, "heightmap", 4); err != nil {
		return err
	}
	versionMinor, err := binio.ReadScalar[int32](r)
	if err != nil {
		return err
	}
	if versionMinor <= 0 {
		versionMinor = DefaultVersionMinor
	}
	if !SupportedVersionMinors[versionMinor] {
		return fmt.Errorf("scmap: versionMinor %d: %w", versionMinor, scmaperr.ErrUnsupportedVersion)
	}
	c.VersionMinor = versionMinor

	if c.Width, err = binio.ReadScalar[int32](r); err != nil {
		return err
	}
	if c.Height, err = binio.ReadScalar[int32](r); err != nil {
		return err
	}
	if c.HeightScale, err = binio.ReadScalar[float32](r); err != nil {
		return err
	}
	count := int(c.Width+1) * int(c.Height+1)
	if c.HeightMap, err = r.ReadInt16Slice(count); err != nil {
		return err
	}
	if c.VersionMinor >= 54 {
		if c.UnknownV54, err = r.ReadNulString(); err != nil {
			return err
		}
	}
	return nil
}

func loadTextureDefinition(r *binio.Reader, c *Container) error {
	if err := checkHealth(r, "texture-definition", 0); err != nil {
		return err
	}
	var err error
	if c.TerrainShader, err = r.ReadNulString(); err != nil {
		return err
	}
	if c.BackgroundTexturePath, err = r.ReadNulString(); err != nil {
		return err
	}
	if c.SkyCubeMapTexturePath, err = r.ReadNulString(); err != nil {
		return err
	}

	if c.VersionMinor >= 55 {
		n, err := binio.ReadScalar[int32](r)
		if err != nil {
			return err
		}
		for i := int32(0); i < n; i++ {
			profile, err := r.ReadNulString()
			if err != nil {
				return err
			}
			path, err := r.ReadNulString()
			if err != nil {
				return err
			}
			c.EnvironmentCubeMapTextures[profile] = path
		}
	} else {
		path, err := r.ReadNulString()
		if err != nil {
			return err
		}
		c.EnvironmentCubeMapTextures["<default>"] = path
	}

	if c.LightingMultiplier, err = binio.ReadScalar[float32](r); err != nil {
		return err
	}
	if c.SunDirection, err = readVec3(r); err != nil {
		return err
	}
	if c.SunAmbience, err = readVec3(r); err != nil {
		return err
	}
	if c.SunColour, err = readVec3(r); err != nil {
		return err
	}
	if c.ShadowFillColour, err = readVec3(r); err != nil {
		return err
	}
	if c.SpecularColour, err = readVec4(r); err != nil {
		return err
	}
	if c.Bloom, err = binio.ReadScalar[float32](r); err != nil {
		return err
	}
	if c.FogColour, err = readVec3(r); err != nil {
		return err
	}
	if c.FogStart, err = binio.ReadScalar[float32](r); err != nil {
		return err
	}
	if c.FogEnd, err = binio.ReadScalar[float32](r); err != nil {
		return err
	}
	return nil
}

func loadWater(r *binio.Reader, c *Container) error {
	if err := checkHealth(r, "water", 1); err != nil {
		return err
	}
	ws := &c.WaterShader
	var err error
	if ws.HasWater, err = binio.ReadScalar[uint8](r); err != nil {
		return err
	}
	if ws.HasWater == 1 {
		if ws.Elevation, err = binio.ReadScalar[float32](r); err != nil {
			return err
		}
		if ws.ElevationDeep, err = binio.ReadScalar[float32](r); err != nil {
			return err
		}
		if ws.ElevationAbyss, err = binio.ReadScalar[float32](r); err != nil {
			return err
		}
	} else {
		if _, err = r.ReadBuffer(12, 1); err != nil {
			return err
		}
		ws.Elevation = 17.5
		ws.ElevationDeep = 15.0
		ws.ElevationAbyss = 2.5
	}

	if ws.SurfaceColor, err = readVec3(r); err != nil {
		return err
	}
	surfScalars, err := binio.ReadFloat32Array(r, 2)
	if err != nil {
		return err
	}
	ws.ColorLerp = [2]float32{surfScalars[0], surfScalars[1]}

	scalars, err := binio.ReadFloat32Array(r, 6)
	if err != nil {
		return err
	}
	copy(ws.Scalars[:], scalars)

	if ws.SunDirection, err = readVec3(r); err != nil {
		return err
	}
	if ws.SunColor, err = readVec3(r); err != nil {
		return err
	}
	sunScalars, err := binio.ReadFloat32Array(r, 2)
	if err != nil {
		return err
	}
	ws.SunScalars = [2]float32{sunScalars[0], sunScalars[1]}

	if ws.CubemapTexture, err = r.ReadNulString(); err != nil {
		return err
	}
	if ws.RampTexture, err = r.ReadNulString(); err != nil {
		return err
	}

	normalRepeats, err := binio.ReadFloat32Array(r, 4)
	if err != nil {
		return err
	}
	for i := 0; i < 4; i++ {
		wt := &ws.WaveTextures[i]
		if wt.NormalMovement, err = readVec2(r); err != nil {
			return err
		}
		if wt.Path, err = r.ReadNulString(); err != nil {
			return err
		}
		wt.NormalRepeat = normalRepeats[i]
	}

	waveGeneratorCount, err := binio.ReadScalar[uint32](r)
	if err != nil {
		return err
	}
	c.WaveGenerators = make([]WaveGenerator, waveGeneratorCount)
	for i := range c.WaveGenerators {
		if err := loadWaveGenerator(r, &c.WaveGenerators[i]); err != nil {
			return err
		}
	}
	return nil
}

func loadWaveGenerator(r *binio.Reader, wg *WaveGenerator) error {
	var err error
	if wg.TextureName, err = r.ReadNulString(); err != nil {
		return err
	}
	if wg.RampName, err = r.ReadNulString(); err != nil {
		return err
	}
	if wg.Position, err = readVec3(r); err != nil {
		return err
	}
	if wg.Rotation, err = binio.ReadScalar[float32](r); err != nil {
		return err
	}
	if wg.Velocity, err = readVec3(r); err != nil {
		return err
	}
	trailing, err := binio.ReadFloat32Array(r, 10)
	if err != nil {
		return err
	}
	wg.LifetimeFirst, wg.LifetimeSecond = trailing[0], trailing[1]
	wg.PeriodFirst, wg.PeriodSecond = trailing[2], trailing[3]
	wg.ScaleFirst, wg.ScaleSecond = trailing[4], trailing[5]
	wg.FrameCount = trailing[6]
	wg.FrameRateFirst, wg.FrameRateSecond = trailing[7], trailing[8]
	wg.StripCount = trailing[9]
	return nil
}

func loadMinimap(r *binio.Reader, c *Container) error {
	if err := checkHealth(r, "minimap", 0); err != nil {
		return err
	}
	var err error
	if c.VersionMinor >= 56 {
		if c.MinimapContourInterval, err = binio.ReadScalar[int32](r); err != nil {
			return err
		}
		if c.MinimapDeepWaterColor, err = binio.ReadScalar[uint32](r); err != nil {
			return err
		}
		if c.MinimapContourColor, err = binio.ReadScalar[uint32](r); err != nil {
			return err
		}
		if c.MinimapShoreColor, err = binio.ReadScalar[uint32](r); err != nil {
			return err
		}
		if c.MinimapLandStartColor, err = binio.ReadScalar[uint32](r); err != nil {
			return err
		}
		if c.MinimapLandEndColor, err = binio.ReadScalar[uint32](r); err != nil {
			return err
		}
	} else {
		c.MinimapContourInterval = 20
		c.MinimapDeepWaterColor = 0xff0e3eff
		c.MinimapContourColor = 0xff215cff
		c.MinimapShoreColor = 0xff4785ff
		c.MinimapLandStartColor = 0xff4c9d32
		c.MinimapLandEndColor = 0xffffffff
	}
	if c.VersionMinor >= 57 {
		if c.UnknownV57, err = binio.ReadScalar[uint32](r); err != nil {
			return err
		}
	}
	return nil
}

func loadStrata(r *binio.Reader, c *Container) error {
	if err := checkHealth(r, "strata", 0); err != nil {
		return err
	}
	var err error
	if c.VersionMinor < 54 {
		if c.Tileset, err = r.ReadNulString(); err != nil {
			return err
		}
		if c.StratumCount, err = binio.ReadScalar[uint32](r); err != nil {
			return err
		}
		remaining := c.StratumCount
		for _, slot := range []int{0, 1, 2, 3, 4, 8, 9} {
			if remaining == 0 {
				break
			}
			if err := loadStratumFull(r, &c.Strata[slot]); err != nil {
				return err
			}
			remaining--
		}
		return nil
	}

	c.StratumCount = 10
	for i := 0; i < 10; i++ {
		if c.Strata[i].AlbedoPath, err = r.ReadNulString(); err != nil {
			return err
		}
		if c.Strata[i].AlbedoScale, err = binio.ReadScalar[float32](r); err != nil {
			return err
		}
	}
	for i := 0; i < 9; i++ {
		if c.Strata[i].NormalsPath, err = r.ReadNulString(); err != nil {
			return err
		}
		if c.Strata[i].NormalsScale, err = binio.ReadScalar[float32](r); err != nil {
			return err
		}
	}
	return nil
}

func loadStratumFull(r *binio.Reader, s *Stratum) error {
	var err error
	if s.AlbedoPath, err = r.ReadNulString(); err != nil {
		return err
	}
	if s.NormalsPath, err = r.ReadNulString(); err != nil {
		return err
	}
	if s.AlbedoScale, err = binio.ReadScalar[float32](r); err != nil {
		return err
	}
	if s.NormalsScale, err = binio.ReadScalar[float32](r); err != nil {
		return err
	}
	return nil
}

func loadDecals(r *binio.Reader, c *Container) error {
	if err := checkHealth(r, "decals", 8); err != nil {
		return err
	}
	var err error
	for i := range c.UnknownPreDecals {
		if c.UnknownPreDecals[i], err = binio.ReadScalar[uint32](r); err != nil {
			return err
		}
	}

	decalCount, err := binio.ReadScalar[uint32](r)
	if err != nil {
		return err
	}
	c.Decals = make([]Decal, decalCount)
	for i := range c.Decals {
		if err := loadDecal(r, &c.Decals[i]); err != nil {
			return err
		}
	}

	decalGroupCount, err := binio.ReadScalar[uint32](r)
	if err != nil {
		return err
	}
	c.DecalGroups = make([]DecalGroup, decalGroupCount)
	for i := range c.DecalGroups {
		if err := loadDecalGroup(r, &c.DecalGroups[i]); err != nil {
			return err
		}
	}
	return nil
}

func loadDecal(r *binio.Reader, d *Decal) error {
	var err error
	if d.Unknown, err = binio.ReadScalar[uint32](r); err != nil {
		return err
	}
	if d.Type, err = binio.ReadScalar[int32](r); err != nil {
		return err
	}
	numTex, err := binio.ReadScalar[uint32](r)
	if err != nil {
		return err
	}
	d.TexturePaths = make([]string, numTex)
	for i := range d.TexturePaths {
		length, err := binio.ReadScalar[uint32](r)
		if err != nil {
			return err
		}
		buf, err := r.ReadBuffer(int(length), 1)
		if err != nil {
			return err
		}
		d.TexturePaths[i] = string(buf)
	}
	if d.Scale, err = readVec3(r); err != nil {
		return err
	}
	if d.Position, err = readVec3(r); err != nil {
		return err
	}
	if d.Rotation, err = readVec3(r); err != nil {
		return err
	}
	if d.CutOffLOD, err = binio.ReadScalar[float32](r); err != nil {
		return err
	}
	if d.NearCutOffLOD, err = binio.ReadScalar[float32](r); err != nil {
		return err
	}
	if d.OwnerArmy, err = binio.ReadScalar[int32](r); err != nil {
		return err
	}
	return nil
}

func loadDecalGroup(r *binio.Reader, g *DecalGroup) error {
	var err error
	if g.ID, err = binio.ReadScalar[int32](r); err != nil {
		return err
	}
	if g.Name, err = r.ReadNulString(); err != nil {
		return err
	}
	count, err := binio.ReadScalar[uint32](r)
	if err != nil {
		return err
	}
	g.Members, err = r.ReadInt32Slice(int(count))
	return err
}

func loadBlobList(r *binio.Reader) ([][]byte, error) {
	count, err := binio.ReadScalar[uint32](r)
	if err != nil {
		return nil, err
	}
	return loadBlobListN(r, count)
}

func loadBlobListN(r *binio.Reader, count uint32) ([][]byte, error) {
	blobs := make([][]byte, count)
	for i := range blobs {
		size, err := binio.ReadScalar[uint32](r)
		if err != nil {
			return nil, err
		}
		if blobs[i], err = r.ReadBuffer(int(size), 1); err != nil {
			return nil, err
		}
	}
	return blobs, nil
}

func loadMaskPlanes(r *binio.Reader, c *Container) error {
	if err := checkHealth(r, "mask-planes", 0); err != nil {
		return err
	}
	planeLen := int(c.Width) * int(c.Height) / 4
	var err error
	if c.WaterFoamMask, err = r.ReadBuffer(planeLen, 1); err != nil {
		return err
	}
	if c.WaterFlatnessMask, err = r.ReadBuffer(planeLen, 1); err != nil {
		return err
	}
	if c.WaterDepthBiasMask, err = r.ReadBuffer(planeLen, 1); err != nil {
		return err
	}
	if c.TerrainTypeData, err = r.ReadBuffer(int(c.Width)*int(c.Height), 1); err != nil {
		return err
	}
	return nil
}

func loadVariants(r *binio.Reader, c *Container) error {
	va := &VariantA{}
	var err error
	if va.P1, err = readVec3(r); err != nil {
		return err
	}
	if va.P2, err = binio.ReadScalar[float32](r); err != nil {
		return err
	}
	if va.P3, err = binio.ReadScalar[float32](r); err != nil {
		return err
	}
	if va.P4, err = binio.ReadScalar[float32](r); err != nil {
		return err
	}
	if va.P5, err = binio.ReadScalar[uint32](r); err != nil {
		return err
	}
	if va.P6, err = binio.ReadScalar[uint32](r); err != nil {
		return err
	}
	if va.P7, err = binio.ReadScalar[float32](r); err != nil {
		return err
	}
	if va.P8, err = readVec3(r); err != nil {
		return err
	}
	if va.P9, err = readVec3(r); err != nil {
		return err
	}
	if va.P10, err = binio.ReadScalar[float32](r); err != nil {
		return err
	}
	if va.P11, err = r.ReadNulString(); err != nil {
		return err
	}
	if va.P12, err = r.ReadNulString(); err != nil {
		return err
	}

	count40, err := binio.ReadScalar[uint32](r)
	if err != nil {
		return err
	}
	va.Buffers40 = make([][]byte, count40)
	for i := range va.Buffers40 {
		if va.Buffers40[i], err = r.ReadBuffer(40, 1); err != nil {
			return err
		}
	}

	if va.P15, err = r.ReadNulString(); err != nil {
		return err
	}
	if va.P16, err = r.ReadNulString(); err != nil {
		return err
	}
	if va.P17, err = r.ReadNulString(); err != nil {
		return err
	}
	if va.P18, err = binio.ReadScalar[float32](r); err != nil {
		return err
	}
	if va.P19, err = readVec3(r); err != nil {
		return err
	}
	if va.P20, err = r.ReadNulString(); err != nil {
		return err
	}

	count20, err := binio.ReadScalar[uint32](r)
	if err != nil {
		return err
	}
	va.Buffers20 = make([][]byte, count20)
	for i := range va.Buffers20 {
		if va.Buffers20[i], err = r.ReadBuffer(20, 1); err != nil {
			return err
		}
	}
	c.VariantA = va

	vbCount, err := binio.ReadScalar[uint32](r)
	if err != nil {
		return err
	}
	c.VariantB = make([]VariantB, vbCount)
	for i := range c.VariantB {
		vb := &c.VariantB[i]
		if vb.P1, err = r.ReadNulString(); err != nil {
			return err
		}
		if vb.P2, err = r.ReadNulString(); err != nil {
			return err
		}
		count, err := binio.ReadScalar[uint32](r)
		if err != nil {
			return err
		}
		vb.Entries = make([][36]byte, count)
		for j := range vb.Entries {
			buf, err := r.ReadBuffer(36, 1)
			if err != nil {
				return err
			}
			copy(vb.Entries[j][:], buf)
		}
	}
	return nil
}

func loadProps(r *binio.Reader, c *Container) error {
	if err := checkHealth(r, "prop", 4); err != nil {
		return err
	}
	propCount, err := binio.ReadScalar[uint32](r)
	if err != nil {
		return err
	}
	c.Props = make([]Prop, propCount)
	for i := range c.Props {
		p := &c.Props[i]
		if p.BlueprintPath, err = r.ReadNulString(); err != nil {
			return err
		}
		if p.Position, err = readVec3(r); err != nil {
			return err
		}
		if p.RotationX, err = readVec3(r); err != nil {
			return err
		}
		if p.RotationY, err = readVec3(r); err != nil {
			return err
		}
		if p.RotationZ, err = readVec3(r); err != nil {
			return err
		}
		u, err := r.ReadUint32Slice(3)
		if err != nil {
			return err
		}
		copy(p.Unknown[:], u)
	}
	return nil
}
