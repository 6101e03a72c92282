package cell

import (
	"container/heap"

	img "ring-tracer/internal/image"
)

// floodItem is a pixel waiting in the flooding queue. Ties on energy are
// broken by insertion order so basins grow evenly.
type floodItem struct {
	energy float64
	age    int
	index  int
}

type floodQueue []floodItem

func (q floodQueue) Len() int { return len(q) }
func (q floodQueue) Less(i, j int) bool {
	if q[i].energy != q[j].energy {
		return q[i].energy < q[j].energy
	}
	return q[i].age < q[j].age
}
func (q floodQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *floodQueue) Push(x interface{}) { *q = append(*q, x.(floodItem)) }
func (q *floodQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// watershed floods energy from the marker labels, lowest energy first,
// over 4-connected pixels where mask is set. Markers outside the mask are
// ignored and mask pixels unreachable from any marker stay 0.
func watershed(energy []float64, markers *img.LabelImage, mask []bool) *img.LabelImage {
	w, h := markers.Width, markers.Height
	out := img.NewLabelImage(w, h)

	q := &floodQueue{}
	age := 0
	for i, m := range markers.Labels {
		if m > 0 && mask[i] {
			out.Labels[i] = m
			heap.Push(q, floodItem{energy: energy[i], age: age, index: i})
			age++
		}
	}

	for q.Len() > 0 {
		item := heap.Pop(q).(floodItem)
		row, col := item.index/w, item.index%w
		label := out.Labels[item.index]

		for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			r, c := row+d[0], col+d[1]
			if r < 0 || r >= h || c < 0 || c >= w {
				continue
			}
			n := r*w + c
			if !mask[n] || out.Labels[n] != 0 {
				continue
			}
			out.Labels[n] = label
			heap.Push(q, floodItem{energy: energy[n], age: age, index: n})
			age++
		}
	}
	return out
}
