package sink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/leaderline/pkg/anneal"
	"github.com/matzehuels/leaderline/pkg/chart"
	"github.com/matzehuels/leaderline/pkg/render/sink"
)

func ExampleRenderSVG() {
	p := &chart.Placement{
		Width:  120,
		Height: 80,
		Labels: []chart.PlacedLabel{
			{Name: "peak", X: 70, Y: 20, Width: 32, Height: 17, Anchor: anneal.Anchor{X: 60, Y: 30, R: 2}},
		},
	}

	svg := string(sink.RenderSVG(p, sink.WithStyle(sink.Boxed{})))
	fmt.Println(strings.Count(svg, "<line"), "leader")
	fmt.Println(strings.Count(svg, "<circle"), "anchor")
	fmt.Println(strings.Contains(svg, ">peak</text>"))
	// Output:
	// 1 leader
	// 1 anchor
	// true
}
