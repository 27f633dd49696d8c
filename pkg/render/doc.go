// Package render turns placements into pictures.
//
// # Overview
//
//   - [sink]: native SVG output with leader lines, plus JSON, PNG and PDF
//   - [dot]: a Graphviz rendering with every node pinned to its placed position
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert any SVG with the external rsvg-convert tool
// (from librsvg). Both subpackages use them for raster and print output:
//
//	svg := sink.RenderSVG(placement)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0) // 2x scale
//
// Install librsvg with `brew install librsvg` (macOS) or
// `apt install librsvg2-bin` (Linux).
package render
