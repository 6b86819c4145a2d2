// Command create-test-planar generates planar interchange files with
// simple gradient content, for exercising planar2png and the decode
// pipeline.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/ajroetker/go-jp2graphic/jp2"
)

func main() {
	var (
		width      = flag.Int("width", 64, "Image width")
		height     = flag.Int("height", 64, "Image height")
		components = flag.Int("components", 3, "Component count (1, 3, or 4)")
		precision  = flag.Int("precision", 8, "Bits per sample")
		outputFile = flag.String("output", "test.j2pl", "Output file")
	)
	flag.Parse()

	img := jp2.NewPlanarImage(*width, *height, *components)
	maxVal := int32(1)<<*precision - 1
	for c := range *components {
		img.SetPrecision(c, *precision)
		for y := range *height {
			for x := range *width {
				// Diagonal gradient, phase-shifted per component.
				v := int32(x+y*2+c*37) % (maxVal + 1)
				img.SetSample(c, x, y, v)
			}
		}
	}

	if err := os.WriteFile(*outputFile, img.Marshal(), 0o644); err != nil {
		log.Fatalf("Failed to write output file: %v", err)
	}
	log.Printf("Wrote %s (%dx%d, %d components, %d-bit)",
		*outputFile, *width, *height, *components, *precision)
}
