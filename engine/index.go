package engine

import (
	"slices"

	"github.com/Tsinling0525/flowrun/model"
)

// link is one outgoing edge together with its target id.
type link struct {
	edge   model.Edge
	target model.ID
}

// index holds the lookups the dispatch loop needs. Dangling edges are kept:
// they simply point at ids without a node.
type index struct {
	nodes    map[model.ID]model.Node
	outgoing map[model.ID][]link
	incoming map[model.ID][]model.ID
}

func buildIndex(flow model.Flow) *index {
	ix := &index{
		nodes:    make(map[model.ID]model.Node, len(flow.Nodes)),
		outgoing: map[model.ID][]link{},
		incoming: map[model.ID][]model.ID{},
	}
	for _, n := range flow.Nodes {
		ix.nodes[n.ID] = n // later duplicates win
	}
	for _, e := range flow.Edges {
		ix.outgoing[e.Source] = append(ix.outgoing[e.Source], link{edge: e, target: e.Target})
		ix.incoming[e.Target] = append(ix.incoming[e.Target], e.Source)
	}
	return ix
}

// roots returns every node without incoming edges plus every start node,
// sorted ascending without duplicates.
func (ix *index) roots(flow model.Flow) []model.ID {
	seen := map[model.ID]bool{}
	var ids []model.ID
	for _, n := range flow.Nodes {
		if seen[n.ID] {
			continue
		}
		if len(ix.incoming[n.ID]) == 0 || n.Type == model.TypeStart {
			seen[n.ID] = true
			ids = append(ids, n.ID)
		}
	}
	slices.Sort(ids)
	return ids
}
