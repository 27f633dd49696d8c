// Package chart defines the documents that flow through leaderline.
//
// A [Chart] is the input: a viewport and a list of annotated points. Each
// point becomes an anchor and a label. [Chart.Prepare] turns a chart into a
// [Scene] ready for the annealer, seeding every label next to its anchor and
// measuring label text when no explicit size is given.
//
// A [Placement] is the output: the final label positions together with run
// statistics. Placements are what the renderers, the inspect view and the
// HTTP API consume.
//
// # Input Format
//
// Charts are JSON or YAML documents:
//
//	{
//	  "title": "European capitals",
//	  "width": 400,
//	  "height": 300,
//	  "points": [
//	    {"name": "Berlin", "x": 210, "y": 90, "r": 3},
//	    {"name": "Paris",  "x": 120, "y": 140, "r": 3, "label_x": 60, "label_y": 120}
//	  ]
//	}
//
// Only name, x and y are required per point. A width or height of zero means
// the caller's default viewport is used.
package chart
