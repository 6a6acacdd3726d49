// Command scmaptool inspects, resizes, imports into, and bundles .scmap
// map-container files.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/axle-forge/scmaptool/pkg/bundle"
	"github.com/axle-forge/scmaptool/pkg/scmap"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "info":
		err = runInfo(os.Args[2:])
	case "resize":
		err = runResize(os.Args[2:])
	case "import":
		err = runImport(os.Args[2:])
	case "pack":
		err = runPack(os.Args[2:])
	case "unpack":
		err = runUnpack(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "scmaptool: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: scmaptool <command> [flags]

commands:
  info      print a summary of a .scmap file, optionally dump its embedded textures
  resize    rescale a .scmap file to new dimensions
  import    composite another .scmap file into one at a destination offset
  pack      bundle files into a single compressed archive
  unpack    extract files from a bundle archive`)
}

func loadContainer(path string) (*scmap.Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return scmap.Load(data)
}

func saveContainer(path string, c *scmap.Container) error {
	data, err := scmap.Save(c)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	dumpDir := fs.String("dump-dir", "", "directory to dump embedded texture blobs into")
	strict := fs.Bool("strict", false, "validate that every normal-map blob is DXT5")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("info requires a .scmap path")
	}

	c, err := loadContainer(fs.Arg(0))
	if err != nil {
		return err
	}

	if err := c.Describe(os.Stdout); err != nil {
		return fmt.Errorf("describe: %w", err)
	}

	if *strict {
		if err := c.ValidateNormalMaps(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Println("normal maps: ok")
	}

	if *dumpDir != "" {
		if err := c.DumpBlobs(*dumpDir); err != nil {
			return fmt.Errorf("dump blobs: %w", err)
		}
		fmt.Printf("blobs written to %s\n", *dumpDir)
	}

	return nil
}

func runResize(args []string) error {
	fs := flag.NewFlagSet("resize", flag.ExitOnError)
	width := fs.Int("width", 0, "new width in pixels")
	height := fs.Int("height", 0, "new height in pixels")
	output := fs.String("output", "", "output .scmap path")
	fs.Parse(args)
	if fs.NArg() < 1 || *width <= 0 || *height <= 0 || *output == "" {
		return fmt.Errorf("resize requires a .scmap path, -width, -height, and -output")
	}

	c, err := loadContainer(fs.Arg(0))
	if err != nil {
		return err
	}
	if err := c.Resize(int32(*width), int32(*height)); err != nil {
		return err
	}
	return saveContainer(*output, c)
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	dest := fs.String("dest", "", "destination .scmap path")
	col0 := fs.Int("col0", 0, "destination column offset")
	row0 := fs.Int("row0", 0, "destination row offset")
	additive := fs.Bool("additive", false, "accepted for parity, does not change overlay mode")
	output := fs.String("output", "", "output .scmap path")
	fs.Parse(args)
	if fs.NArg() < 1 || *dest == "" || *output == "" {
		return fmt.Errorf("import requires a source .scmap path, -dest, and -output")
	}

	src, err := loadContainer(fs.Arg(0))
	if err != nil {
		return err
	}
	dst, err := loadContainer(*dest)
	if err != nil {
		return err
	}
	if err := dst.Import(src, int32(*col0), int32(*row0), *additive); err != nil {
		return err
	}
	return saveContainer(*output, dst)
}

func runPack(args []string) error {
	fs := flag.NewFlagSet("pack", flag.ExitOnError)
	output := fs.String("output", "", "output bundle path")
	fs.Parse(args)
	if fs.NArg() < 1 || *output == "" {
		return fmt.Errorf("pack requires one or more input paths and -output")
	}

	entries := make(map[string][]byte, fs.NArg())
	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		entries[path] = data
	}

	f, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("create %s: %w", *output, err)
	}
	defer f.Close()

	return bundle.Write(f, entries, bundle.DefaultCompressionLevel)
}

func runUnpack(args []string) error {
	fs := flag.NewFlagSet("unpack", flag.ExitOnError)
	outDir := fs.String("output", ".", "directory to extract into")
	fs.Parse(args)
	if fs.NArg() < 1 {
		return fmt.Errorf("unpack requires a bundle path")
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("open %s: %w", fs.Arg(0), err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	entries, err := bundle.Read(f, info.Size())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}
	for name, data := range entries {
		target := *outDir + "/" + flatten(name)
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
	}
	return nil
}

// flatten collapses a stored entry name's path separators so extraction
// never escapes outDir via traversal components.
func flatten(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		switch name[i] {
		case '/', '\\':
			out = append(out, '_')
		default:
			out = append(out, name[i])
		}
	}
	return string(out)
}
