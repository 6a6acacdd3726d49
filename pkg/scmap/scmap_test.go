package scmap

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/axle-forge/scmaptool/pkg/binio"
	"github.com/axle-forge/scmaptool/pkg/ddstexture"
	"github.com/axle-forge/scmaptool/pkg/scmaperr"
)

// buildDDSBlob assembles a minimal well-formed DXT5 embedded-texture blob
// at the given pixel dimensions, with a payload sized so it divides evenly
// (one byte per pixel), mirroring pkg/ddstexture's own test fixture shape.
func buildDDSBlob(width, height uint32) []byte {
	const (
		magic           = 0x20534444
		headerSize      = 124
		pixelFormatSize = 32
		ddpfFourCC      = 0x4
		fourCCDXT5      = 0x35545844
		offHeaderSize   = 4
		offHeight       = 12
		offWidth        = 16
		offPFSize       = 76
		offPFFlags      = 80
		offPFFourCC     = 84
	)
	payload := make([]byte, width*height)
	buf := make([]byte, ddstexture.PayloadOffset+len(payload))
	binary.LittleEndian.PutUint32(buf[0:4], magic)
	binary.LittleEndian.PutUint32(buf[offHeaderSize:], headerSize)
	binary.LittleEndian.PutUint32(buf[offHeight:], height)
	binary.LittleEndian.PutUint32(buf[offWidth:], width)
	binary.LittleEndian.PutUint32(buf[offPFSize:], pixelFormatSize)
	binary.LittleEndian.PutUint32(buf[offPFFlags:], ddpfFourCC)
	binary.LittleEndian.PutUint32(buf[offPFFourCC:], fourCCDXT5)
	copy(buf[ddstexture.PayloadOffset:], payload)
	return buf
}

// newMinimalContainer builds a structurally valid container at the given
// extent and versionMinor, satisfying every Container Invariant so that
// Save succeeds without further field population.
func newMinimalContainer(width, height, versionMinor int32) *Container {
	c := &Container{
		MagicMap1A:                 MagicMap1A,
		VersionMajor:               2,
		MagicBeeffeed:              MagicBeeffeed,
		Width:                      width,
		Height:                     height,
		VersionMinor:               versionMinor,
		HeightScale:                1,
		HeightMap:                  make([]int16, int(width+1)*int(height+1)),
		EnvironmentCubeMapTextures: map[string]string{},
		WaterFoamMask:              make([]byte, int(width)*int(height)/4),
		WaterFlatnessMask:          make([]byte, int(width)*int(height)/4),
		WaterDepthBiasMask:         make([]byte, int(width)*int(height)/4),
		TerrainTypeData:            make([]byte, int(width)*int(height)),
	}
	if versionMinor >= 55 {
		c.EnvironmentCubeMapTextures["Alpha"] = "/env/alpha.dds"
	} else {
		c.EnvironmentCubeMapTextures["<default>"] = "/env/default.dds"
	}
	c.NormalMapBlobs = [][]byte{buildDDSBlob(uint32(width), uint32(height))}
	c.StrataLerpBlobs = [][]byte{buildDDSBlob(uint32(width), uint32(height))}
	c.WaterLerpBlobs = [][]byte{buildDDSBlob(uint32(width), uint32(height))}
	return c
}

func TestLoadSaveRoundTrip(t *testing.T) {
	versions := []int32{52, 53, 54, 55, 56, 57, 58, 59, 60}
	for _, v := range versions {
		t.Run(versionLabel(v), func(t *testing.T) {
			c := newMinimalContainer(8, 8, v)
			c.HeightMap[5] = 512
			if v < 53 {
				c.PreV53DummyStrings = [2]string{"a", "b"}
			}
			if v >= 59 {
				c.VariantA = &VariantA{P11: "x", P12: "y", P15: "z", P16: "w", P17: "v", P20: "u"}
			}

			data, err := Save(c)
			if err != nil {
				t.Fatalf("save: %v", err)
			}

			got, err := Load(data)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if got.VersionMinor != v {
				t.Errorf("versionMinor: got %d, want %d", got.VersionMinor, v)
			}
			if got.Width != 8 || got.Height != 8 {
				t.Errorf("dimensions: got %dx%d", got.Width, got.Height)
			}
			if got.HeightMap[5] != 512 {
				t.Errorf("heightmap sample: got %d, want 512", got.HeightMap[5])
			}
			if len(got.NormalMapBlobs) != 1 || len(got.StrataLerpBlobs) != 1 || len(got.WaterLerpBlobs) != 1 {
				t.Errorf("blob counts: got %d/%d/%d", len(got.NormalMapBlobs), len(got.StrataLerpBlobs), len(got.WaterLerpBlobs))
			}
		})
	}
}

func versionLabel(v int32) string {
	switch {
	case v < 54:
		return "pre54"
	case v < 55:
		return "v54"
	case v < 59:
		return "v55to58"
	default:
		return "v59plus"
	}
}

// Scenario 1: resizing a 256x256 v56 container to 512x512 scales a uniform
// heightmap by sy=sqrt(sx*sz)=2, and every size-dependent buffer is resized
// to match. The weighted kernel truncates its floating-point mean toward
// zero, so a uniform 100 can come out as 99 before scaling: every sample
// must land in [198, 200].
func TestResize256To512(t *testing.T) {
	c := newMinimalContainer(256, 256, 56)
	for i := range c.HeightMap {
		c.HeightMap[i] = 100
	}

	if err := c.Resize(512, 512); err != nil {
		t.Fatalf("resize: %v", err)
	}

	if c.Width != 512 || c.Height != 512 {
		t.Fatalf("dimensions: got %dx%d", c.Width, c.Height)
	}
	if len(c.HeightMap) != 513*513 {
		t.Fatalf("heightmap length: got %d, want %d", len(c.HeightMap), 513*513)
	}
	for i, v := range c.HeightMap {
		if v < 198 || v > 200 {
			t.Fatalf("heightmap[%d]: got %d, want 198..200 (uniform field scaled by sy=2)", i, v)
			break
		}
	}
	if len(c.TerrainTypeData) != 512*512 {
		t.Errorf("terrainTypeData length: got %d, want %d", len(c.TerrainTypeData), 512*512)
	}
	if len(c.WaterFoamMask) != 512*512/4 {
		t.Errorf("waterFoamMask length: got %d, want %d", len(c.WaterFoamMask), 512*512/4)
	}
}

// Scenario 2: hasWater==0 yields the documented elevation defaults and
// consumes exactly 12 filler bytes.
func TestHasWaterZeroDefaults(t *testing.T) {
	c := newMinimalContainer(4, 4, 56)
	c.WaterShader.HasWater = 0

	data, err := Save(c)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(data)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got.WaterShader.Elevation != 17.5 || got.WaterShader.ElevationDeep != 15.0 || got.WaterShader.ElevationAbyss != 2.5 {
		t.Errorf("defaults: got %+v", got.WaterShader)
	}
}

// Scenario 3: a pre-55 container's environment-texture section round-trips
// as exactly one nul-terminated string keyed "<default>".
func TestPre55EnvironmentTexture(t *testing.T) {
	c := newMinimalContainer(4, 4, 52)
	c.EnvironmentCubeMapTextures = map[string]string{"<default>": "/env/sky.dds"}

	data, err := Save(c)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(data)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.EnvironmentCubeMapTextures) != 1 || got.EnvironmentCubeMapTextures["<default>"] != "/env/sky.dds" {
		t.Errorf("environmentCubeMapTextures: got %+v", got.EnvironmentCubeMapTextures)
	}
}

// A v55+ container with several profiles must serialize its environment
// textures in sorted key order every time, so that saving the same
// container repeatedly produces byte-identical output.
func TestEnvironmentTextureOrderIsDeterministic(t *testing.T) {
	c := newMinimalContainer(4, 4, 56)
	c.EnvironmentCubeMapTextures = map[string]string{
		"Zulu":  "/env/zulu.dds",
		"Alpha": "/env/alpha.dds",
		"Mike":  "/env/mike.dds",
		"Bravo": "/env/bravo.dds",
	}

	first, err := Save(c)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Save(c)
		if err != nil {
			t.Fatalf("save (rep %d): %v", i, err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("save output is not stable across repeated calls (rep %d)", i)
		}
	}

	got, err := Load(first)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for profile, path := range c.EnvironmentCubeMapTextures {
		if got.EnvironmentCubeMapTextures[profile] != path {
			t.Errorf("profile %q: got %q, want %q", profile, got.EnvironmentCubeMapTextures[profile], path)
		}
	}
}

// loadStratumFull reads a pre-v54 stratum record as albedoPath,
// normalsPath, albedoScale, normalsScale — both paths before either
// scale, matching the original reader used on this exact path.
func TestLoadStratumFullFieldOrder(t *testing.T) {
	w := binio.NewWriter()
	w.WriteNulString("albedo.dds")
	w.WriteNulString("normals.dds")
	binio.WriteScalar(w, float32(2.5))
	binio.WriteScalar(w, float32(4.5))

	var s Stratum
	if err := loadStratumFull(binio.NewReader(w.Bytes()), &s); err != nil {
		t.Fatalf("loadStratumFull: %v", err)
	}
	if s.AlbedoPath != "albedo.dds" {
		t.Errorf("albedoPath: got %q, want %q", s.AlbedoPath, "albedo.dds")
	}
	if s.NormalsPath != "normals.dds" {
		t.Errorf("normalsPath: got %q, want %q", s.NormalsPath, "normals.dds")
	}
	if s.AlbedoScale != 2.5 {
		t.Errorf("albedoScale: got %g, want 2.5", s.AlbedoScale)
	}
	if s.NormalsScale != 4.5 {
		t.Errorf("normalsScale: got %g, want 4.5", s.NormalsScale)
	}
}

// A pre-v54 container's strata slots must round-trip every field
// independently, guarding against the albedo/normals path-and-scale
// fields silently swapping pairs.
func TestPreV54StrataRoundTrip(t *testing.T) {
	c := newMinimalContainer(4, 4, 52)
	c.StratumCount = 2
	c.Strata[0] = Stratum{AlbedoPath: "a0.dds", AlbedoScale: 10, NormalsPath: "n0.dds", NormalsScale: 20}
	c.Strata[1] = Stratum{AlbedoPath: "a1.dds", AlbedoScale: 30, NormalsPath: "n1.dds", NormalsScale: 40}

	data, err := Save(c)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(data)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Strata[0] != c.Strata[0] {
		t.Errorf("strata[0]: got %+v, want %+v", got.Strata[0], c.Strata[0])
	}
	if got.Strata[1] != c.Strata[1] {
		t.Errorf("strata[1]: got %+v, want %+v", got.Strata[1], c.Strata[1])
	}
}

// Scenario 4: importing a 128x128 container into a 256x256 container at
// (64,64) replaces exactly the props inside the rectangle, and mutating the
// source afterwards does not affect the destination.
func TestImportPropsRectangle(t *testing.T) {
	dst := newMinimalContainer(256, 256, 56)
	dst.Props = []Prop{
		{BlueprintPath: "outside", Position: Vec3{10, 0, 10}},
		{BlueprintPath: "inside-before", Position: Vec3{100, 0, 100}},
	}

	src := newMinimalContainer(128, 128, 56)
	src.Props = []Prop{
		{BlueprintPath: "inside-after", Position: Vec3{30, 0, 30}}, // -> (94,94), inside [64,192)
		{BlueprintPath: "also-outside", Position: Vec3{-10, 0, 30}}, // -> (54,94), outside
	}

	if err := dst.Import(src, 64, 64, false); err != nil {
		t.Fatalf("import: %v", err)
	}

	var names []string
	for _, p := range dst.Props {
		names = append(names, p.BlueprintPath)
	}

	wantPresent := map[string]bool{"outside": true, "inside-after": true}
	wantAbsent := map[string]bool{"inside-before": true, "also-outside": true}
	for _, n := range names {
		if wantAbsent[n] {
			t.Errorf("prop %q should have been removed, present: %v", n, names)
		}
	}
	for want := range wantPresent {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Errorf("prop %q missing, got: %v", want, names)
		}
	}

	// Mutating the source after Import must not affect dst's copy.
	src.Props[0].BlueprintPath = "mutated"
	for _, p := range dst.Props {
		if p.BlueprintPath == "mutated" {
			t.Error("destination prop aliases source slice")
		}
	}
}

// Scenario 5: a bad magic number fails with MalformedHeader.
func TestLoadBadMagic(t *testing.T) {
	c := newMinimalContainer(4, 4, 56)
	data, err := Save(c)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	binary.LittleEndian.PutUint32(data[0:4], 0xDEADBEEF)

	if _, err := Load(data); !errors.Is(err, scmaperr.ErrMalformedHeader) {
		t.Errorf("expected ErrMalformedHeader, got %v", err)
	}
}

// Scenario 6: a DXT5 blob whose payload length does not divide width*height
// fails ImportBlob with UnsupportedPixelFormat, leaving the destination
// bytes unchanged.
func TestImportBlobNonDividingPayload(t *testing.T) {
	src := buildDDSBlob(8, 8)
	// Corrupt src so its payload no longer divides 8*8 evenly.
	src = append(src, 0x00)

	dst := buildDDSBlob(8, 8)
	dstBefore := append([]byte(nil), dst...)

	err := ImportBlob(src, dst, 8, 8, 8, 8, 0, 0)
	if !errors.Is(err, scmaperr.ErrUnsupportedPixelFormat) {
		t.Errorf("expected ErrUnsupportedPixelFormat, got %v", err)
	}
	if !bytes.Equal(dst, dstBefore) {
		t.Error("destination blob was modified on error")
	}
}

func TestCheckInvariantsRejectsBadDimensions(t *testing.T) {
	c := newMinimalContainer(4, 4, 56)
	c.HeightMap = c.HeightMap[:len(c.HeightMap)-1]

	if _, err := Save(c); !errors.Is(err, scmaperr.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestCheckInvariantsRejectsUnsupportedVersion(t *testing.T) {
	c := newMinimalContainer(4, 4, 99)

	if _, err := Save(c); !errors.Is(err, scmaperr.ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestValidateNormalMaps(t *testing.T) {
	c := newMinimalContainer(4, 4, 56)
	if err := c.ValidateNormalMaps(); err != nil {
		t.Fatalf("expected valid normal maps, got %v", err)
	}

	c.NormalMapBlobs[0] = bytes.Repeat([]byte{0}, ddstexture.PayloadOffset+16)
	if err := c.ValidateNormalMaps(); err == nil {
		t.Error("expected error for corrupted normal map blob")
	}
}
