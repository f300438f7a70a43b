package embedding

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// formatVector renders a vector as "[0.8 0.5]".
func formatVector(vec []float64) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.FormatFloat(v, 'f', 6, 64))
	}
	b.WriteByte(']')
	return b.String()
}

// WriteDump writes a human-readable listing of the embedding of edgeType:
// the pivot sequence followed by one "node: [coords]" line per node, sorted
// by node. Meant for debugging, not for parsing.
func (e *Engine) WriteDump(w io.Writer, edgeType string) error {
	st, err := e.state(edgeType)
	if err != nil {
		return err
	}

	st.mu.RLock()
	if !st.live {
		st.mu.RUnlock()
		return &NotEmbeddedError{EdgeType: edgeType}
	}
	pivots := append([]string(nil), st.pivots...)
	nodes := make([]string, 0, len(st.vectors))
	lines := make(map[string]string, len(st.vectors))
	for n, vec := range st.vectors {
		nodes = append(nodes, n)
		lines[n] = formatVector(vec)
	}
	st.mu.RUnlock()

	sort.Strings(nodes)

	if _, err := fmt.Fprintf(w, "embedding %s: %d pivots %v, %d nodes\n", edgeType, len(pivots), pivots, len(nodes)); err != nil {
		return err
	}
	for _, n := range nodes {
		if _, err := fmt.Fprintf(w, "%s: %s\n", n, lines[n]); err != nil {
			return err
		}
	}
	return nil
}

// Dump returns the listing produced by WriteDump as a string.
func (e *Engine) Dump(edgeType string) (string, error) {
	var b strings.Builder
	if err := e.WriteDump(&b, edgeType); err != nil {
		return "", err
	}
	return b.String(), nil
}
