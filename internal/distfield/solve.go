package distfield

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultPasses is the fixed relaxation budget. It is not a convergence
	// criterion: large or thin shapes will not have converged.
	DefaultPasses = 300
	// DefaultForcing is added at every interior pixel on every pass.
	DefaultForcing = 0.01
)

// Solver runs a fixed number of Jacobi relaxation passes over the shape
// interior, with edge and background pixels pinned to zero.
// A Solver owns its ping-pong buffers and must not be shared between goroutines.
type Solver struct {
	Passes  int
	Forcing float64
	// Workers bounds how many row bands of a pass are computed at once.
	Workers int

	cur  []float32
	next []float32
}

func NewSolver() *Solver {
	return &Solver{
		Passes:  DefaultPasses,
		Forcing: DefaultForcing,
		Workers: runtime.GOMAXPROCS(0),
	}
}

// Solve builds a Field from the shape and edge masks.
// ctx is only checked between passes.
func (s *Solver) Solve(ctx context.Context, shape, edge Mask) (Field, error) {
	if !shape.sameSize(edge) {
		return Field{}, fmt.Errorf("mask size mismatch: shape %dx%d, edge %dx%d",
			shape.Width, shape.Height, edge.Width, edge.Height)
	}
	if s.Passes < 0 {
		return Field{}, fmt.Errorf("negative pass count %d", s.Passes)
	}
	w, h := shape.Width, shape.Height
	n := w * h

	// Fresh buffers every call; nothing carries over between images.
	s.cur = make([]float32, n)
	s.next = make([]float32, n)

	bands := rowBands(h, max(s.Workers, 1))
	for pass := 0; pass < s.Passes; pass++ {
		if err := ctx.Err(); err != nil {
			return Field{}, fmt.Errorf("pass %d: %w", pass, err)
		}
		if len(bands) == 1 {
			s.relaxRows(shape, edge, 0, h)
		} else {
			g := errgroup.Group{}
			g.SetLimit(len(bands))
			for _, band := range bands {
				g.Go(func() error {
					s.relaxRows(shape, edge, band[0], band[1])
					return nil
				})
			}
			// relaxRows never fails.
			_ = g.Wait()
		}
		s.cur, s.next = s.next, s.cur
	}

	out := Field{Width: w, Height: h, Values: s.cur}
	s.cur, s.next = nil, nil
	return out, nil
}

// relaxRows computes rows [y0, y1) of the next buffer from the current one.
func (s *Solver) relaxRows(shape, edge Mask, y0, y1 int) {
	w, h := shape.Width, shape.Height
	cur, next := s.cur, s.next
	sample := func(x, y int) float64 {
		if x < 0 || x >= w || y < 0 || y >= h {
			return 0
		}
		i := y*w + x
		if !shape.Bits[i] {
			return 0
		}
		return float64(cur[i])
	}

	for y := y0; y < y1; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if !shape.Bits[i] || edge.Bits[i] {
				next[i] = 0
				continue
			}
			sum := sample(x+1, y) +
				sample(x-1, y) +
				sample(x, y+1) +
				sample(x, y-1)
			next[i] = float32((s.Forcing + sum) / 4)
		}
	}
}

// rowBands splits h rows into at most n contiguous [start, end) ranges.
func rowBands(h, n int) [][2]int {
	if h <= 0 {
		return [][2]int{{0, 0}}
	}
	n = min(n, h)
	bands := make([][2]int, 0, n)
	size := h / n
	rem := h % n
	start := 0
	for i := 0; i < n; i++ {
		end := start + size
		if i < rem {
			end++
		}
		bands = append(bands, [2]int{start, end})
		start = end
	}
	return bands
}
