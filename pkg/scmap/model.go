// Package scmap implements the versioned map-container format: the typed
// record model (Container and its sub-records), the version-branching
// binary codec that reads and writes it, and the Resize/Import editing
// operations defined in terms of the raster and embedded-texture packages.
package scmap

// Vec2, Vec3, and Vec4 are the fixed-size float vectors the container
// format uses for positions, colours, and directions.
type Vec2 [2]float32
type Vec3 [3]float32
type Vec4 [4]float32

const (
	// MagicMap1A is the container's leading magic number.
	MagicMap1A = 0x1A70614D
	// MagicBeeffeed tags the start of the preview section.
	MagicBeeffeed = 0xBEEFFEED

	// DefaultVersionMinor is substituted for a non-positive versionMinor on load.
	DefaultVersionMinor = 56
)

// SupportedVersionMinors is the recognised set of versionMinor values.
var SupportedVersionMinors = map[int32]bool{
	52: true, 53: true, 54: true, 55: true, 56: true,
	57: true, 58: true, 59: true, 60: true,
}

// WaveTexture is one of the water shader's four animated normal-map layers.
type WaveTexture struct {
	NormalMovement Vec2
	Path           string
	NormalRepeat   float32
}

// WaterShaderProperties holds the water rendering parameters and the four
// wave textures that ride on top of them.
type WaterShaderProperties struct {
	HasWater        uint8
	Elevation       float32
	ElevationDeep   float32
	ElevationAbyss  float32
	SurfaceColor    Vec3
	ColorLerp       [2]float32
	Scalars         [6]float32 // refraction, fresnel bias/power, reflection, shininess
	SunDirection    Vec3
	SunColor        Vec3
	SunScalars      [2]float32 // sun reflection, sun glow
	CubemapTexture  string
	RampTexture     string
	WaveTextures    [4]WaveTexture
}

// WaveGenerator is a parametric emitter of water-surface wave sprites.
type WaveGenerator struct {
	TextureName    string
	RampName       string
	Position       Vec3
	Rotation       float32
	Velocity       Vec3
	LifetimeFirst  float32
	LifetimeSecond float32
	PeriodFirst    float32
	PeriodSecond   float32
	ScaleFirst     float32
	ScaleSecond    float32
	FrameCount     float32
	FrameRateFirst float32
	FrameRateSecond float32
	StripCount     float32
}

// Stratum is a single terrain material layer: albedo texture, normal
// texture, and their independent tiling scales.
type Stratum struct {
	AlbedoPath   string
	AlbedoScale  float32
	NormalsPath  string
	NormalsScale float32
}

// Decal is a projected texture placed on the terrain.
type Decal struct {
	Unknown       uint32
	Type          int32
	TexturePaths  []string
	Scale         Vec3
	Position      Vec3
	Rotation      Vec3
	CutOffLOD     float32
	NearCutOffLOD float32
	OwnerArmy     int32
}

// DecalGroup links a named group of decals by index into the decal list.
type DecalGroup struct {
	ID      int32
	Name    string
	Members []int32
}

// Prop is a static placed object: a blueprint path, a world position, and
// three rotation bases.
type Prop struct {
	BlueprintPath string
	Position      Vec3
	RotationX     Vec3
	RotationY     Vec3
	RotationZ     Vec3
	Unknown       [3]uint32
}

// VariantA is the first of the versionMinor>=59 extension records; its
// field purposes beyond their wire type were never recovered from the
// original toolchain, so they are named positionally and preserved
// byte-for-byte across load/save.
type VariantA struct {
	P1  Vec3
	P2  float32
	P3  float32
	P4  float32
	P5  uint32
	P6  uint32
	P7  float32
	P8  Vec3
	P9  Vec3
	P10 float32
	P11 string
	P12 string

	Buffers40 [][]byte // each exactly 40 bytes

	P15 string
	P16 string
	P17 string
	P18 float32
	P19 Vec3
	P20 string

	Buffers20 [][]byte // each exactly 20 bytes
}

// VariantB is the second versionMinor>=59 extension record; observed empty
// in every sample container but preserved in full for round-trip fidelity.
type VariantB struct {
	P1      string
	P2      string
	Entries [][36]byte
}

// Container is the full in-memory representation of a parsed map file: the
// root aggregate owning every sub-record. Mutation happens only through
// Resize and Import or direct field assignment; the codec does not retain
// any state of its own between Load and Save.
type Container struct {
	MagicMap1A    uint32
	VersionMajor  int32
	VersionMinor  int32

	MagicBeeffeed     uint32
	PreviewSubVersion uint32
	PreviewWidth      float32
	PreviewHeight     float32
	PreviewWstring1   uint16
	PreviewAlwaysZero uint32
	Preview           []byte

	Width       int32
	Height      int32
	HeightScale float32
	HeightMap   []int16
	UnknownV54  string

	TerrainShader         string
	BackgroundTexturePath string
	SkyCubeMapTexturePath string

	EnvironmentCubeMapTextures map[string]string

	LightingMultiplier float32
	SunDirection       Vec3
	SunAmbience        Vec3
	SunColour          Vec3
	ShadowFillColour   Vec3
	SpecularColour     Vec4
	Bloom              float32
	FogColour          Vec3
	FogStart           float32
	FogEnd             float32

	WaterShader    WaterShaderProperties
	WaveGenerators []WaveGenerator

	MinimapContourInterval int32
	MinimapDeepWaterColor  uint32
	MinimapContourColor    uint32
	MinimapShoreColor      uint32
	MinimapLandStartColor  uint32
	MinimapLandEndColor    uint32
	UnknownV57             uint32

	Tileset      string
	StratumCount uint32
	Strata       [10]Stratum

	UnknownPreDecals [2]uint32
	Decals           []Decal
	DecalGroups      []DecalGroup

	WidthOther  uint32
	HeightOther uint32

	NormalMapBlobs  [][]byte
	StrataLerpBlobs [][]byte
	WaterLerpBlobs  [][]byte

	WaterFoamMask      []byte
	WaterFlatnessMask  []byte
	WaterDepthBiasMask []byte
	TerrainTypeData    []byte

	PreV53DummyStrings [2]string

	VariantA *VariantA
	VariantB []VariantB

	Props []Prop
}
