// Package pkg provides the core libraries for Leaderline chart label placement.
//
// # Overview
//
// Leaderline positions the text labels of annotated chart points. Every label
// is tied to its point by a leader line; placement searches for positions
// where labels do not cover each other or other points, leader lines stay
// short and do not cross, and labels prefer the upper right of their point.
// The search is simulated annealing over a weighted energy function.
//
// The pkg directory is organized into these areas:
//
//  1. [anneal] - The annealing engine (energy, moves, cooling schedules)
//  2. [chart] - Input charts and placement results
//  3. [render] - Output (native SVG, PNG, PDF, JSON and Graphviz DOT)
//  4. [pipeline] - Orchestration (place → render) with caching
//  5. [server] - HTTP API over the pipeline
//
// # Architecture
//
// The typical data flow through Leaderline:
//
//	chart.json / chart.yaml
//	         ↓
//	    [chart] package (validate, measure labels, initial positions)
//	         ↓
//	    [anneal] package (simulated annealing)
//	         ↓
//	    [chart.Placement] (final positions, energy, run statistics)
//	         ↓
//	    [render] package (SVG/PNG/PDF/JSON/DOT)
//
// # Quick Start
//
// Place a chart's labels and render them to SVG:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/leaderline/pkg/chart"
//	    "github.com/matzehuels/leaderline/pkg/pipeline"
//	    "github.com/matzehuels/leaderline/pkg/render/sink"
//	)
//
//	// 1. Load the chart
//	c, _ := chart.ReadChartFile("cities.json")
//
//	// 2. Place labels (defaults: 1000 sweeps, seed 42)
//	p, _ := pipeline.Place(context.Background(), c, pipeline.Options{})
//
//	// 3. Render to SVG
//	svg := sink.RenderSVG(p, sink.WithStyle(sink.Boxed{}))
//
// Drive the engine directly:
//
//	e := anneal.New(anneal.WithBounds(400, 300), anneal.WithSeed(7))
//	e.SetLabels(labels).SetAnchors(anchors)
//	err := e.Start(2000)
//
// # Main Packages
//
// [anneal] - Simulated annealing over labels and anchors. [anneal.Engine]
// proposes translations and rotations about the anchor, accepts them with
// the Metropolis rule and cools by a pluggable [anneal.Schedule]. The energy
// terms and their weights are in [anneal.WeightedEnergy].
//
// [chart] - The input document ([chart.Chart]) and the result
// ([chart.Placement]), with JSON and YAML decoding and label measurement.
//
// [render/sink] - Native SVG output in simple or boxed style, plus PNG, PDF
// and JSON.
//
// [render/dot] - Graphviz DOT output with every node pinned to its placed
// position, rendered with neato.
//
// [pipeline] - The place → render pipeline used by both the CLI and the HTTP
// API, with caching of placements and artifacts.
//
// [cache] - Cache backends (file, Redis, null) and cache key derivation.
//
// [config] - Settings files in TOML or YAML.
//
// [errors] - Structured errors with codes the API maps to HTTP statuses.
//
// [observability] - Hooks for placement, render, cache and HTTP events.
//
// [server] - The chi-based HTTP API.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/anneal/...    # Specific package
//	go test -run Example ./...  # Examples only
//
// [anneal]: https://pkg.go.dev/github.com/matzehuels/leaderline/pkg/anneal
// [anneal.Engine]: https://pkg.go.dev/github.com/matzehuels/leaderline/pkg/anneal#Engine
// [anneal.Schedule]: https://pkg.go.dev/github.com/matzehuels/leaderline/pkg/anneal#Schedule
// [anneal.WeightedEnergy]: https://pkg.go.dev/github.com/matzehuels/leaderline/pkg/anneal#WeightedEnergy
// [chart]: https://pkg.go.dev/github.com/matzehuels/leaderline/pkg/chart
// [chart.Chart]: https://pkg.go.dev/github.com/matzehuels/leaderline/pkg/chart#Chart
// [chart.Placement]: https://pkg.go.dev/github.com/matzehuels/leaderline/pkg/chart#Placement
// [render]: https://pkg.go.dev/github.com/matzehuels/leaderline/pkg/render
// [render/sink]: https://pkg.go.dev/github.com/matzehuels/leaderline/pkg/render/sink
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/leaderline/pkg/render/dot
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/leaderline/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/leaderline/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/leaderline/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/leaderline/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/leaderline/pkg/observability
// [server]: https://pkg.go.dev/github.com/matzehuels/leaderline/pkg/server
package pkg
