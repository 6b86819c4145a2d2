// Command planar2png decodes a planar interchange file through the full
// graphic pipeline and writes the result as PNG. It exists for inspecting
// normalizer output without a native JPEG2000 codec binding.
package main

import (
	"bytes"
	"flag"
	"image"
	"image/png"
	"log"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ajroetker/go-jp2graphic/jp2"
)

func main() {
	var (
		inputFile  = flag.String("input", "", "Input planar file")
		outputFile = flag.String("output", "", "Output PNG file (defaults to input with .png extension)")
		outWidth   = flag.Int("width", 0, "Stretch output to this width (0 = source width)")
		outHeight  = flag.Int("height", 0, "Stretch output to this height (0 = source height)")
		verbose    = flag.Bool("v", false, "Log decoder diagnostics to stderr")
	)
	flag.Parse()

	if *inputFile == "" {
		log.Fatal("Input file is required. Use -input flag.")
	}

	data, err := os.ReadFile(*inputFile)
	if err != nil {
		log.Fatalf("Failed to read input file: %v", err)
	}

	var opts []jp2.Option
	if *verbose {
		diag := logrus.New()
		diag.SetLevel(logrus.DebugLevel)
		opts = append(opts, jp2.WithDiagnostics(diag))
	}

	g := jp2.New(&jp2.PlanarLibrary{}, opts...)
	if err := g.LoadFrom(bytes.NewReader(data)); err != nil {
		log.Fatalf("Failed to decode: %v", err)
	}

	var out image.Image = g.Pixels()
	if *outWidth > 0 || *outHeight > 0 {
		w, h := *outWidth, *outHeight
		if w <= 0 {
			w = g.Width()
		}
		if h <= 0 {
			h = g.Height()
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		g.Draw(dst, dst.Bounds())
		out = dst
	}

	name := *outputFile
	if name == "" {
		name = strings.TrimSuffix(*inputFile, ".j2pl") + ".png"
	}
	f, err := os.Create(name)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, out); err != nil {
		log.Fatalf("Failed to encode PNG: %v", err)
	}
	log.Printf("Wrote %s (%dx%d)", name, out.Bounds().Dx(), out.Bounds().Dy())
}
