package bot

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gorgonia.org/tensor"

	"github.com/freeeve/battleship/pkg/battleship"
)

// Heatmap counts how often each cell was fired at across many matches.
// It is safe for concurrent use by arena workers.
type Heatmap struct {
	mu     sync.Mutex
	counts *tensor.Dense // [y][x] float32
	shots  int
}

func NewHeatmap() *Heatmap {
	data := make([]float32, battleship.BoardSize*battleship.BoardSize)
	return &Heatmap{
		counts: tensor.New(
			tensor.WithShape(battleship.BoardSize, battleship.BoardSize),
			tensor.Of(tensor.Float32),
			tensor.WithBacking(data),
		),
	}
}

// Record adds one shot at c. Off-board coordinates are ignored.
func (h *Heatmap) Record(c battleship.Coord) {
	if !c.InBounds() {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	v, err := h.counts.At(c.Y, c.X)
	if err != nil {
		log.Warn().Err(err).Str("coord", c.String()).Msg("Heatmap read failed, shot not recorded")
		return
	}
	if err := h.counts.SetAt(v.(float32)+1, c.Y, c.X); err != nil {
		log.Warn().Err(err).Str("coord", c.String()).Msg("Heatmap write failed, shot not recorded")
		return
	}
	h.shots++
}

// Count returns the number of shots recorded at c.
func (h *Heatmap) Count(c battleship.Coord) float32 {
	if !c.InBounds() {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	v, err := h.counts.At(c.Y, c.X)
	if err != nil {
		log.Warn().Err(err).Str("coord", c.String()).Msg("Heatmap read failed")
		return 0
	}
	return v.(float32)
}

// Shots returns the total number of recorded shots.
func (h *Heatmap) Shots() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.shots
}

// Frequencies returns each cell's share of all shots as a 10x10 tensor.
func (h *Heatmap) Frequencies() *tensor.Dense {
	h.mu.Lock()
	defer h.mu.Unlock()
	src := h.counts.Data().([]float32)
	out := make([]float32, len(src))
	if h.shots > 0 {
		total := float32(h.shots)
		for i, v := range src {
			out[i] = v / total
		}
	}
	return tensor.New(
		tensor.WithShape(battleship.BoardSize, battleship.BoardSize),
		tensor.Of(tensor.Float32),
		tensor.WithBacking(out),
	)
}

// Render prints per-cell shot percentages under A-J column headers.
func (h *Heatmap) Render() string {
	freq := h.Frequencies().Data().([]float32)
	var sb strings.Builder
	sb.WriteString("#  ")
	for x := 0; x < battleship.BoardSize; x++ {
		fmt.Fprintf(&sb, "%5c", 'A'+x)
	}
	sb.WriteByte('\n')
	for y := 0; y < battleship.BoardSize; y++ {
		fmt.Fprintf(&sb, "%-3d", y+1)
		for x := 0; x < battleship.BoardSize; x++ {
			fmt.Fprintf(&sb, "%5.1f", 100*freq[y*battleship.BoardSize+x])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
