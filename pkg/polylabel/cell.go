package polylabel

import (
	"container/heap"
	"math"

	"github.com/twpayne/go-geom"
)

// cell is one square probe region of the subdivision: its center, its
// half-extent, the oracle distance at the center, and the greatest
// distance any point inside the cell could achieve.
type cell struct {
	x, y float64
	h    float64
	dist float64
	max  float64
	seq  uint64
}

func newCell(x, y, h float64, rings [][]geom.Coord) cell {
	d := SignedDistance(x, y, rings)
	return cell{x: x, y: y, h: h, dist: d, max: d + h*math.Sqrt2}
}

// cellQueue is a max-heap of cells keyed by max. Cells with equal max pop
// in insertion order, so a search over identical input is reproducible
// bit for bit.
type cellQueue struct {
	cells []cell
	next  uint64
}

func (q *cellQueue) push(c cell) {
	c.seq = q.next
	q.next++
	heap.Push(q, c)
}

func (q *cellQueue) pop() cell {
	return heap.Pop(q).(cell)
}

func (q *cellQueue) Len() int { return len(q.cells) }

func (q *cellQueue) Less(i, j int) bool {
	if q.cells[i].max != q.cells[j].max {
		return q.cells[i].max > q.cells[j].max
	}
	return q.cells[i].seq < q.cells[j].seq
}

func (q *cellQueue) Swap(i, j int) {
	q.cells[i], q.cells[j] = q.cells[j], q.cells[i]
}

func (q *cellQueue) Push(v any) {
	q.cells = append(q.cells, v.(cell))
}

func (q *cellQueue) Pop() any {
	old := q.cells
	n := len(old)
	c := old[n-1]
	q.cells = old[:n-1]
	return c
}
