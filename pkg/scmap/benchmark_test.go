package scmap

import "testing"

// BenchmarkSave benchmarks full container encoding at a 257x257 heightmap
// scale, the smallest real FAF map size.
func BenchmarkSave(b *testing.B) {
	c := newMinimalContainer(256, 256, 56)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Save(c); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkLoad benchmarks full container decoding at the same scale.
func BenchmarkLoad(b *testing.B) {
	c := newMinimalContainer(256, 256, 56)
	data, err := Save(c)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Load(data); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkResize benchmarks the 256->512 upscale used in TestResize256To512.
func BenchmarkResize(b *testing.B) {
	base := newMinimalContainer(256, 256, 56)
	data, err := Save(base)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		c, err := Load(data)
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		if err := c.Resize(512, 512); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkImport benchmarks compositing a quarter-scale container into a
// larger one, the shape of a typical map-section import.
func BenchmarkImport(b *testing.B) {
	dst := newMinimalContainer(256, 256, 56)
	src := newMinimalContainer(128, 128, 56)
	src.Props = []Prop{{BlueprintPath: "bench", Position: Vec3{10, 0, 10}}}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := dst.Import(src, 64, 64, false); err != nil {
			b.Fatal(err)
		}
	}
}
