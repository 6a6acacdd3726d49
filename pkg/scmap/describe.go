package scmap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/axle-forge/scmaptool/pkg/ddstexture"
	"github.com/axle-forge/scmaptool/pkg/scmaperr"
)

// Describe writes a human-readable summary of the container's scalar and
// aggregate fields to w, in the spirit of a map-info dump a level designer
// would want before editing a file blind.
func (c *Container) Describe(w io.Writer) error {
	lines := []struct {
		format string
		args   []any
	}{
		{"version: %d.%d\n", []any{c.VersionMajor, c.VersionMinor}},
		{"heightmap: %dx%d scale=%g\n", []any{c.Width, c.Height, c.HeightScale}},
		{"terrainShader: %s\n", []any{c.TerrainShader}},
		{"backgroundTexturePath: %s\n", []any{c.BackgroundTexturePath}},
		{"skyCubeMapTexturePath: %s\n", []any{c.SkyCubeMapTexturePath}},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, l.format, l.args...); err != nil {
			return err
		}
	}
	for profile, path := range c.EnvironmentCubeMapTextures {
		if _, err := fmt.Fprintf(w, "environmentCubeMapTextures[%s]: %s\n", profile, path); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "waterShader hasWater=%d elevation=%g/%g/%g\n",
		c.WaterShader.HasWater, c.WaterShader.Elevation, c.WaterShader.ElevationDeep, c.WaterShader.ElevationAbyss); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "waveGenerators: %d\n", len(c.WaveGenerators)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "decals: %d, decalGroups: %d, props: %d\n", len(c.Decals), len(c.DecalGroups), len(c.Props)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "normalMapBlobs: %d, strataLerpBlobs: %d, waterLerpBlobs: %d\n",
		len(c.NormalMapBlobs), len(c.StrataLerpBlobs), len(c.WaterLerpBlobs))
	return err
}

// DumpBlobs writes every embedded-texture blob (preview, normal maps,
// strata-lerp maps, water-lerp maps) to individual files under dir, named
// by kind and index.
func (c *Container) DumpBlobs(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := dumpBlob(dir, "preview", 0, c.Preview); err != nil {
		return err
	}
	for i, b := range c.NormalMapBlobs {
		if err := dumpBlob(dir, "normalMap", i, b); err != nil {
			return err
		}
	}
	for i, b := range c.StrataLerpBlobs {
		if err := dumpBlob(dir, "strataLerp", i, b); err != nil {
			return err
		}
	}
	for i, b := range c.WaterLerpBlobs {
		if err := dumpBlob(dir, "waterLerp", i, b); err != nil {
			return err
		}
	}
	return nil
}

func dumpBlob(dir, kind string, index int, data []byte) error {
	name := filepath.Join(dir, fmt.Sprintf("%s_%03d.dds", kind, index))
	return os.WriteFile(name, data, 0o644)
}

// ValidateNormalMaps is an opt-in, non-load-time check: it fails with
// UnsupportedPixelFormat if any normal-map blob is not a valid DXT5
// embedded-texture blob, the format the game always writes for this slot.
func (c *Container) ValidateNormalMaps() error {
	for i, blob := range c.NormalMapBlobs {
		hdr, err := ddstexture.ParseHeader(blob)
		if err != nil {
			return fmt.Errorf("normalMapBlobs[%d]: %w", i, err)
		}
		if hdr.Format != ddstexture.FormatDXT5 {
			return fmt.Errorf("normalMapBlobs[%d]: format %v, want DXT5: %w", i, hdr.Format, scmaperr.ErrUnsupportedPixelFormat)
		}
	}
	return nil
}
