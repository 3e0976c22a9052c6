// Package seed pre-claims organic regions on a fresh board using layered
// simplex noise, so new installs do not open onto a blank canvas.
package seed

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/hexclaim/internal/board"
	"github.com/talgya/hexclaim/internal/grid"
)

// Config holds seeding parameters.
type Config struct {
	Seed          int64 // Random seed (0 = random)
	Regions       int   // Number of regions to claim
	MaxRegionSize int   // Cells per region cap
	Palette       []string
}

// DefaultConfig returns a reasonable starting configuration.
func DefaultConfig() Config {
	return Config{
		Seed:          0,
		Regions:       12,
		MaxRegionSize: 24,
		Palette: []string{
			"#b5543c", "#c7913e", "#7c9e4b", "#3f8f6a",
			"#3e7fa0", "#5b63a8", "#8a5c9e", "#a85577",
		},
	}
}

// Minimum axial distance between region kernels.
const minKernelDistance = 6

// Cells below this density join a growing region; the threshold is what
// gives region edges their ragged coastline look.
const growThreshold = 0.35

// Summary reports what a seeding run did.
type Summary struct {
	Seed    int64
	Regions int
	Claimed int
	Skipped int
}

// Run claims noise-shaped regions through the regular save protocol.
// Cells that are already claimed are left alone, so re-running against a
// lived-in board only fills gaps.
func Run(store board.Store, layout *grid.Layout, cfg Config) (Summary, error) {
	if cfg.Regions <= 0 {
		cfg.Regions = DefaultConfig().Regions
	}
	if cfg.MaxRegionSize <= 0 {
		cfg.MaxRegionSize = DefaultConfig().MaxRegionSize
	}
	if len(cfg.Palette) == 0 {
		cfg.Palette = DefaultConfig().Palette
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	// Two noise layers: one shapes where regions cluster, one roughens
	// their edges.
	density := opensimplex.NewNormalized(seed)
	edge := opensimplex.NewNormalized(seed + 1)

	scores := cellScores(layout, density)
	kernels := pickKernels(layout, scores, cfg.Regions)

	names := regionNames(seed)
	proto := board.NewProtocol(store, board.SHA256Hex)
	taken := make(map[int]bool)

	summary := Summary{Seed: seed, Regions: len(kernels)}
	for i, kernel := range kernels {
		cells := growRegion(layout, scores, edge, kernel, cfg.MaxRegionSize, taken)

		color := cfg.Palette[i%len(cfg.Palette)]
		label := names[i%len(names)]
		secret := fmt.Sprintf("seed-%x-%d", seed, i)

		claimed := 0
		for _, index := range cells {
			current, err := store.GetCell(index)
			if err != nil {
				summary.Skipped++
				continue
			}
			if current.Claimed() {
				summary.Skipped++
				continue
			}
			if _, err := proto.Apply(current, board.SaveRequest{
				Index:  index,
				Color:  color,
				Label:  label,
				Secret: secret,
			}); err != nil {
				return summary, fmt.Errorf("claim cell %d: %w", index, err)
			}
			claimed++
		}

		summary.Claimed += claimed
		slog.Info("region seeded", "label", label, "color", color, "cells", claimed)
	}

	return summary, nil
}

// cellScores samples density noise at every cell center. Axial coords map
// to continuous space the usual way: x = q + r*0.5, y = r*sqrt(3)/2.
func cellScores(layout *grid.Layout, noise opensimplex.Noise) []float64 {
	scores := make([]float64, layout.Spec.CellCount())
	for _, c := range layout.Centers {
		a := grid.FromOffset(c.Row, c.Col)
		x := float64(a.Q) + float64(a.R)*0.5
		y := float64(a.R) * math.Sqrt(3.0) / 2.0
		scores[c.Index] = octaveNoise(noise, x, y, 4, 0.08, 0.5)
	}
	return scores
}

// pickKernels takes the highest-density cells as region anchors, keeping
// a minimum spacing so regions do not all pile into one corner.
func pickKernels(layout *grid.Layout, scores []float64, want int) []int {
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return scores[order[i]] > scores[order[j]] })

	var kernels []int
	for _, idx := range order {
		if len(kernels) >= want {
			break
		}
		c, _ := layout.Center(idx)
		a := grid.FromOffset(c.Row, c.Col)

		tooClose := false
		for _, k := range kernels {
			kc, _ := layout.Center(k)
			ka := grid.FromOffset(kc.Row, kc.Col)
			if grid.Distance(a, ka) < minKernelDistance {
				tooClose = true
				break
			}
		}
		if !tooClose {
			kernels = append(kernels, idx)
		}
	}
	return kernels
}

// growRegion floods outward from a kernel, following density ridges and
// letting the edge noise nibble at the frontier.
func growRegion(layout *grid.Layout, scores []float64, edge opensimplex.Noise, kernel, maxSize int, taken map[int]bool) []int {
	var cells []int
	queue := []int{kernel}
	visited := map[int]bool{kernel: true}

	for len(queue) > 0 && len(cells) < maxSize {
		index := queue[0]
		queue = queue[1:]

		if taken[index] {
			continue
		}
		if index != kernel {
			c, _ := layout.Center(index)
			a := grid.FromOffset(c.Row, c.Col)
			x := float64(a.Q) + float64(a.R)*0.5
			y := float64(a.R) * math.Sqrt(3.0) / 2.0
			if edge.Eval2(x*0.3, y*0.3) < growThreshold {
				continue
			}
		}

		cells = append(cells, index)
		taken[index] = true

		neighbors := layout.NeighborIndexes(index)
		sort.Slice(neighbors, func(i, j int) bool { return scores[neighbors[i]] > scores[neighbors[j]] })
		for _, n := range neighbors {
			if !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return cells
}

// regionNames returns the label pool in a seed-determined order.
func regionNames(seed int64) []string {
	names := make([]string, len(namePool))
	copy(names, namePool)
	rng := rand.New(rand.NewSource(seed + 100))
	rng.Shuffle(len(names), func(i, j int) {
		names[i], names[j] = names[j], names[i]
	})
	return names
}

// Name pool for seeded regions.
var namePool = []string{
	"Thornmere", "Greywatch", "Emberfall", "Duskhollow",
	"Bramblewick", "Fennridge", "Coldharbor", "Ashenmoor",
	"Wolfden", "Larkspur", "Mirefen", "Stonegate",
	"Hollowpine", "Ravenscar", "Gildermarsh", "Tarnwick",
	"Foxglove", "Heathersea", "Ironvale", "Saltmarsh",
	"Windrow", "Oakhaven", "Netherfield", "Cinderbrook",
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
