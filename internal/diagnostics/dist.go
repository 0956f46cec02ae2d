package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nfagan/mtype-sub001/internal/typesys"
)

// Distribution counts how many times each typesys.Kind appears among a
// set of root terms, walking every composite term reachable from them
// exactly once (original_source/bin/mtype/show.cpp's --show-dist: "a
// histogram of term-kind counts"). The seen set is shared across Add
// calls, so a term reachable through more than one root (e.g. a builtin
// scheme two functions share) is counted only once overall.
type Distribution struct {
	counts map[typesys.Kind]int
	seen   map[typesys.Term]bool
}

// NewDistribution builds an empty histogram.
func NewDistribution() *Distribution {
	return &Distribution{counts: make(map[typesys.Kind]int), seen: make(map[typesys.Term]bool)}
}

// Add walks t and every term reachable from it, incrementing each
// Kind's count once per distinct term visited.
func (d *Distribution) Add(t typesys.Term) {
	if t == nil || d.seen[t] {
		return
	}
	d.seen[t] = true
	d.counts[t.Kind()]++

	switch x := t.(type) {
	case *typesys.Scalar:
		for _, a := range x.Args {
			d.Add(a)
		}
	case *typesys.Tuple:
		for _, e := range x.Elements {
			d.Add(e)
		}
	case *typesys.DestructuredTuple:
		for _, m := range x.Members {
			d.Add(m)
		}
	case *typesys.List:
		for _, e := range x.Elements {
			d.Add(e)
		}
	case *typesys.Union:
		for _, m := range x.Members {
			d.Add(m)
		}
	case *typesys.Record:
		for _, id := range x.FieldOrder {
			d.Add(x.Fields[id])
		}
	case *typesys.Class:
		d.Add(x.Source)
	case *typesys.Abstraction:
		d.Add(x.Inputs)
		d.Add(x.Outputs)
	case *typesys.Scheme:
		for _, p := range x.Params {
			d.Add(p)
		}
		d.Add(x.Body)
	case *typesys.Application:
		d.Add(x.Target)
		d.Add(x.Inputs)
		d.Add(x.Outputs)
	case *typesys.Alias:
		d.Add(x.Target)
	case *typesys.Parameters:
		if x.Of != nil {
			d.Add(x.Of)
		}
	}
}

// String renders the histogram as one `kind: count` line per Kind seen,
// sorted by descending count then Kind name for determinism.
func (d *Distribution) String() string {
	type row struct {
		kind  typesys.Kind
		count int
	}
	rows := make([]row, 0, len(d.counts))
	for k, c := range d.counts {
		rows = append(rows, row{k, c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].kind.String() < rows[j].kind.String()
	})

	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%s: %d\n", r.kind, r.count)
	}
	return b.String()
}
