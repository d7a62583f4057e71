package neighbor

import (
	"math"

	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
)

// CellListFinder buckets atoms into a grid of cells at least as large
// as the cutoff and scans only the 27 cells around each atom's own
// cell (spec §4.F "Cell list"), generalizing the spatial-hash grid
// used elsewhere in this codebase for protein-scale systems to
// arbitrary periodic or open boundaries.
type CellListFinder struct {
	CellSize float64
	Cutoff   float64
}

// NewCellListFinder builds a cell-list finder. cellSize should be at
// least cutoff; passing 0 defaults it to cutoff.
func NewCellListFinder(cutoff, cellSize float64) CellListFinder {
	if cellSize <= 0 {
		cellSize = cutoff
	}
	return CellListFinder{CellSize: cellSize, Cutoff: cutoff}
}

type cellKey [3]int

// dimGrid describes one axis of the cell grid: count cells spanning a
// periodic box, or an unbounded (non-wrapping) hash axis when the box
// extent is non-positive (spec §3 "dim ∈ {2,3}", 2D/open systems).
type dimGrid struct {
	count int
	wrap  bool
}

func buildDimGrid(boxLen, cellSize float64) dimGrid {
	if boxLen <= 0 {
		return dimGrid{wrap: false}
	}
	n := int(math.Floor(boxLen / cellSize))
	if n < 1 {
		n = 1
	}
	return dimGrid{count: n, wrap: true}
}

func (g dimGrid) indexOf(coord, cellSize float64) int {
	idx := int(math.Floor(coord / cellSize))
	if g.wrap {
		idx %= g.count
		if idx < 0 {
			idx += g.count
		}
	}
	return idx
}

func (g dimGrid) wrapOffset(idx int) int {
	if !g.wrap {
		return idx
	}
	idx %= g.count
	if idx < 0 {
		idx += g.count
	}
	return idx
}

func (c CellListFinder) FindNeighbors(sys *mdsystem.System, prev *mdsystem.NeighborList, stepIndex int, parallel bool) (*mdsystem.NeighborList, error) {
	n := sys.N()
	sqCutoff := c.Cutoff * c.Cutoff

	gx := buildDimGrid(sys.Box.X, c.CellSize)
	gy := buildDimGrid(sys.Box.Y, c.CellSize)
	gz := buildDimGrid(sys.Box.Z, c.CellSize)

	cellOf := make([]cellKey, n)
	grid := make(map[cellKey][]int, n)
	for i, p := range sys.Coords {
		key := cellKey{gx.indexOf(p.X, c.CellSize), gy.indexOf(p.Y, c.CellSize), gz.indexOf(p.Z, c.CellSize)}
		cellOf[i] = key
		grid[key] = append(grid[key], i)
	}

	pairs := make([]mdsystem.NeighborPair, 0, n*8)
	for i := 0; i < n; i++ {
		base := cellOf[i]
		// with fewer than 3 cells on a periodic axis, different offsets
		// wrap onto the same cell; scan each cell once
		visited := make(map[cellKey]bool, 27)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for dz := -1; dz <= 1; dz++ {
					nk := cellKey{gx.wrapOffset(base[0] + dx), gy.wrapOffset(base[1] + dy), gz.wrapOffset(base[2] + dz)}
					if visited[nk] {
						continue
					}
					visited[nk] = true
					for _, j := range grid[nk] {
						if j <= i {
							continue
						}
						if !sys.NBMatrix.Included(i, j) {
							continue
						}
						dr := geom.Displacement(sys.Coords[i], sys.Coords[j], sys.Box)
						if dr.Norm2() < sqCutoff {
							pairs = append(pairs, mdsystem.NeighborPair{I: i, J: j, Weight14: sys.NBMatrix.Is14(i, j)})
						}
					}
				}
			}
		}
	}

	return &mdsystem.NeighborList{Pairs: pairs, BuiltAtStep: stepIndex, Snapshot: sys.Coords}, nil
}
