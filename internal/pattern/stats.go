package pattern

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/openblast/kadview/internal/store"
	"github.com/openblast/kadview/pkg/geometry"
)

// Summary aggregates drill-pattern statistics over the loaded holes.
// Spacing is the plan-view nearest-neighbor distance between collars.
type Summary struct {
	HoleCount   int
	EntityCount int

	MeanLength float64
	MeanBench  float64

	MeanSpacing   float64
	StdDevSpacing float64
	MaxSpacing    float64

	Bounds geometry.BoundingBox
}

// Summarize computes pattern statistics from the store.
func Summarize(s *store.Store) Summary {
	holes := s.AllHoles()
	sum := Summary{
		HoleCount:   len(holes),
		EntityCount: len(s.AllEntities()),
		Bounds:      geometry.NewBoundingBox(),
	}

	if len(holes) == 0 {
		return sum
	}

	lengths := make([]float64, len(holes))
	benches := make([]float64, len(holes))
	collars := make([]geometry.Vector3, len(holes))
	for i, h := range holes {
		lengths[i] = h.Length
		benches[i] = h.BenchHeight
		collars[i] = geometry.NewVector3(h.Collar.X, h.Collar.Y, h.Collar.Z)
		sum.Bounds.Extend(collars[i])
		sum.Bounds.Extend(geometry.NewVector3(h.Toe.X, h.Toe.Y, h.Toe.Z))
	}
	sum.MeanLength = stat.Mean(lengths, nil)
	sum.MeanBench = stat.Mean(benches, nil)

	if len(holes) < 2 {
		return sum
	}

	spacings := make([]float64, len(holes))
	for i := range collars {
		nearest := math.Inf(1)
		for j := range collars {
			if i == j {
				continue
			}
			if d := collars[i].DistanceXY(collars[j]); d < nearest {
				nearest = d
			}
		}
		spacings[i] = nearest
	}
	sum.MeanSpacing = stat.Mean(spacings, nil)
	sum.StdDevSpacing = stat.StdDev(spacings, nil)
	sum.MaxSpacing = floats.Max(spacings)
	return sum
}
