package embedding

// candidate is a node on the solver frontier with the best path weight
// found for it so far.
type candidate struct {
	node   string
	weight float64
}

// frontier is a max-heap of candidates for container/heap. The heaviest
// candidate is on top; ties go to the smaller node id so that traversal
// order is reproducible.
type frontier []candidate

func (h frontier) Len() int { return len(h) }

func (h frontier) Less(i, j int) bool {
	if h[i].weight != h[j].weight {
		return h[i].weight > h[j].weight
	}
	return h[i].node < h[j].node
}

func (h frontier) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *frontier) Push(x any) { *h = append(*h, x.(candidate)) }

func (h *frontier) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
