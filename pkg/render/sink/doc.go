// Package sink writes placements to output formats.
//
// [RenderSVG] draws the chart natively: anchor dots, leader lines from each
// anchor to its label's reference corner, and the label text. The look is
// controlled by a [Style]:
//
//   - [Simple]: bare text next to thin grey leaders
//   - [Boxed]: text on white rounded boxes, suited to busy backgrounds
//
// PNG and PDF are produced from the SVG with [render.ToPNG] and
// [render.ToPDF]. [RenderJSON] emits the placement document itself.
//
//	svg := sink.RenderSVG(p, sink.WithStyle(sink.Boxed{}), sink.WithBoxes())
package sink
