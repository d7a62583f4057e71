package neighbor

import (
	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/sarat-asymmetrica/mdforge/internal/geom"
	"github.com/sarat-asymmetrica/mdforge/internal/mdsystem"
)

// TreeNeighborFinder builds a k-d tree over the wrapped coordinates and
// answers a periodic range query per atom by probing the handful of
// box-length shifts that can place a minimum-image neighbor within
// cutoff, rather than replicating every atom into 27 ghost copies
// (spec §4.F "KD-tree").
type TreeNeighborFinder struct {
	Cutoff float64
}

func NewTreeNeighborFinder(cutoff float64) TreeNeighborFinder {
	return TreeNeighborFinder{Cutoff: cutoff}
}

// point is a tree leaf: one atom's wrapped coordinate, tagged with its
// index in the system so a tree hit maps back to an atom.
type point struct {
	idx int
	pos geom.Vec3
}

func (p *point) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	o := c.(*point)
	return axis(p.pos, d) - axis(o.pos, d)
}

func (p *point) Dims() int { return 3 }

func (p *point) Distance(c kdtree.Comparable) float64 {
	o := c.(*point)
	dx := p.pos.X - o.pos.X
	dy := p.pos.Y - o.pos.Y
	dz := p.pos.Z - o.pos.Z
	return dx*dx + dy*dy + dz*dz
}

func axis(v geom.Vec3, d kdtree.Dim) float64 {
	switch d {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

type points []*point

func (p points) Len() int                   { return len(p) }
func (p points) Index(i int) kdtree.Comparable { return p[i] }

func (p points) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(ptSorter{p, d}, kdtree.MedianOfMedians(ptSorter{p, d}))
}

func (p points) Slice(start, end int) kdtree.Interface { return p[start:end] }

// ptSorter adapts points to sort.Interface/kdtree.SortSlicer for a
// single axis, as required by kdtree.Partition/MedianOfMedians.
type ptSorter struct {
	p points
	d kdtree.Dim
}

func (s ptSorter) Len() int { return len(s.p) }
func (s ptSorter) Less(i, j int) bool {
	return axis(s.p[i].pos, s.d) < axis(s.p[j].pos, s.d)
}
func (s ptSorter) Swap(i, j int) { s.p[i], s.p[j] = s.p[j], s.p[i] }
func (s ptSorter) Slice(start, end int) kdtree.SortSlicer {
	return ptSorter{s.p[start:end], s.d}
}

// rangeKeeper collects every Comparable found within the configured
// squared radius, implementing kdtree.Keeper for an unbounded-count
// range query rather than a k-nearest query.
type rangeKeeper struct {
	sqRadius float64
	hits     []*point
}

func (k *rangeKeeper) Keep(c kdtree.ComparableDist) {
	k.hits = append(k.hits, c.Comparable.(*point))
}

func (k *rangeKeeper) Kept(c kdtree.ComparableDist) bool { return c.Dist <= k.sqRadius }

func (k *rangeKeeper) Max() float64 { return k.sqRadius }

func (t TreeNeighborFinder) FindNeighbors(sys *mdsystem.System, prev *mdsystem.NeighborList, stepIndex int, parallel bool) (*mdsystem.NeighborList, error) {
	n := sys.N()
	sqCutoff := t.Cutoff * t.Cutoff

	leaves := make(points, n)
	for i, p := range sys.Coords {
		leaves[i] = &point{idx: i, pos: p}
	}
	tree := kdtree.New(leaves, false)

	shifts := periodicShifts(sys.Box)

	seen := make(map[[2]int]bool)
	pairs := make([]mdsystem.NeighborPair, 0, n*8)
	for i := 0; i < n; i++ {
		for _, shift := range shifts {
			q := &point{idx: i, pos: sys.Coords[i].Add(shift)}
			keeper := &rangeKeeper{sqRadius: sqCutoff}
			tree.NearestSet(keeper, q)
			for _, hit := range keeper.hits {
				j := hit.idx
				if j == i {
					continue
				}
				lo, hi := i, j
				if lo > hi {
					lo, hi = hi, lo
				}
				key := [2]int{lo, hi}
				if seen[key] {
					continue
				}
				if !sys.NBMatrix.Included(lo, hi) {
					continue
				}
				dr := geom.Displacement(sys.Coords[lo], sys.Coords[hi], sys.Box)
				if dr.Norm2() >= sqCutoff {
					continue
				}
				seen[key] = true
				pairs = append(pairs, mdsystem.NeighborPair{I: lo, J: hi, Weight14: sys.NBMatrix.Is14(lo, hi)})
			}
		}
	}

	return &mdsystem.NeighborList{Pairs: pairs, BuiltAtStep: stepIndex, Snapshot: sys.Coords}, nil
}

// periodicShifts enumerates the box-length translations that can bring
// a minimum-image neighbor within range of a plain (non-replicated)
// tree: zero shift plus ±1 box length along every periodic axis.
func periodicShifts(box geom.Vec3) []geom.Vec3 {
	axes := make([][3]float64, 0, 3)
	if box.X > 0 {
		axes = append(axes, [3]float64{box.X, 0, 0})
	}
	if box.Y > 0 {
		axes = append(axes, [3]float64{0, box.Y, 0})
	}
	if box.Z > 0 {
		axes = append(axes, [3]float64{0, 0, box.Z})
	}

	shifts := []geom.Vec3{{}}
	for _, ax := range axes {
		next := make([]geom.Vec3, 0, len(shifts)*3)
		for _, s := range shifts {
			next = append(next, s)
			next = append(next, s.Add(geom.Vec3{X: ax[0], Y: ax[1], Z: ax[2]}))
			next = append(next, s.Sub(geom.Vec3{X: ax[0], Y: ax[1], Z: ax[2]}))
		}
		shifts = next
	}
	return shifts
}
