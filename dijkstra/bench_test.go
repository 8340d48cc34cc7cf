package dijkstra_test

import (
	"testing"

	"github.com/katalvlaran/trafficeq/builder"
	"github.com/katalvlaran/trafficeq/dijkstra"
)

// BenchmarkDijkstra_Grid50 grows a full tree on a 50×50 bidirectional grid
// (2 500 nodes, 9 800 links) from the top-left corner.
func BenchmarkDijkstra_Grid50(b *testing.B) {
	// 1. Build once; the network is immutable.
	n, err := builder.BuildNetwork([]builder.BuilderOption{builder.WithSeed(42)}, builder.Grid(50, 50, 1))
	if err != nil {
		b.Fatal(err)
	}
	costs := make([]float64, n.NumLinks())
	for i := range costs {
		l, _ := n.Link(i)
		costs[i] = l.FreeFlowTime * 4000 / l.Capacity
	}

	// 2. Exclude construction from the measurement.
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = dijkstra.Dijkstra(n, costs, dijkstra.Source(1))
	}
}
