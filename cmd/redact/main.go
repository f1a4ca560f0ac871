// seehuhn.de/go/redact - true content-stream redaction for PDF pages
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Command redact is a thin CLI collaborator around the seehuhn.de/go/redact
// core: it loads a PDF, runs a text search or explicit rectangle redaction
// on every page, and writes the result back out.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"seehuhn.de/go/redact/coord"
	"seehuhn.de/go/redact/fontmap"
	"seehuhn.de/go/redact/pdfstore"
	"seehuhn.de/go/redact/redact"
	"seehuhn.de/go/redact/selfextract"
)

func main() {
	input := flag.String("input", "", "input PDF file (required)")
	output := flag.String("output", "", "output PDF file (required)")
	search := flag.String("search", "", "search string to redact wherever it occurs")
	locations := flag.String("locations", "", "comma-separated x,y,w,h rectangles to redact explicitly, in page user-space points")
	caseInsensitive := flag.Bool("case-insensitive", false, "match --search case-insensitively")
	noMarker := flag.Bool("no-marker", false, "do not draw a visual marker over redacted areas")
	flag.Parse()

	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "Usage: redact --input P --output P' --search S [--locations x,y,w,h ...] [--case-insensitive] [--no-marker]")
		os.Exit(1)
	}
	if *search == "" && *locations == "" {
		log.Fatalf("at least one of --search or --locations is required")
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("failed to read input file: %v", err)
	}

	store, err := pdfstore.Parse(data)
	if err != nil {
		log.Fatalf("failed to parse input PDF: %v", err)
	}
	store.SetOutputPath(*output)

	decoder := fontmap.DefaultDecoder{}
	extractor := &selfextract.Extractor{Store: store, Decoder: decoder.Decode}
	rd := redact.NewRedactor(store, decoder.Decode, extractor)

	opts := redact.DefaultOptions()
	opts.CaseSensitive = !*caseInsensitive
	opts.DrawVisualMarker = !*noMarker

	var redacted, skipped int

	if *locations != "" {
		areas, err := parseLocations(*locations)
		if err != nil {
			log.Fatalf("invalid --locations: %v", err)
		}
		n, err := store.PageCount()
		if err != nil {
			log.Fatalf("failed to read page count: %v", err)
		}
		for page := 0; page < n; page++ {
			res, err := rd.RedactPage(page, areas, opts)
			if err != nil {
				log.Fatalf("page %d: %v", page, err)
			}
			if res.Err != nil {
				skipped++
				continue
			}
			redacted++
		}
	}

	if *search != "" {
		result, err := rd.RedactByText(*search, opts)
		if err != nil {
			log.Fatalf("search redaction failed: %v", err)
		}
		redacted += result.PagesRedacted()
		skipped += result.PagesSkipped()
		for _, e := range result.FirstErrors {
			fmt.Fprintf(os.Stderr, "redact: %v\n", e)
		}
	}

	if err := store.Save(); err != nil {
		log.Fatalf("failed to save output file: %v", err)
	}

	fmt.Printf("Redacted %d page(s), skipped %d, wrote %s\n", redacted, skipped, *output)
	if skipped > 0 {
		os.Exit(1)
	}
}

// parseLocations parses a comma-separated "x,y,w,h,x,y,w,h,..." list into
// page user-space rectangles.
func parseLocations(s string) ([]coord.Rectangle, error) {
	fields := strings.Split(s, ",")
	if len(fields)%4 != 0 {
		return nil, fmt.Errorf("expected a multiple of 4 comma-separated numbers, got %d", len(fields))
	}

	var areas []coord.Rectangle
	for i := 0; i < len(fields); i += 4 {
		nums := make([]float64, 4)
		for j := 0; j < 4; j++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(fields[i+j]), 64)
			if err != nil {
				return nil, fmt.Errorf("field %d: %w", i+j, err)
			}
			nums[j] = v
		}
		x, y, w, h := nums[0], nums[1], nums[2], nums[3]
		areas = append(areas, coord.NewRectangle(x, y, x+w, y+h))
	}
	return areas, nil
}
