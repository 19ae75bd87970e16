// Package serialize renders entity graphs as attribute trees.
//
// Every entity declares its columns, its loaded relationships and a set of
// default exclusion rules. Rules have the form "-name" (drop an attribute or
// relationship at this level) or "-a.b" (drop "b" inside relationship "a").
// Rules given by the caller are merged with the node's own defaults at every
// level, so the back-edges of a bidirectional relationship can be cut where
// the graph would otherwise loop.
package serialize

import "strings"

// maxDepth bounds relationship expansion when a rule set fails to cut a cycle.
const maxDepth = 8

// Node is an entity that can be rendered as an attribute tree.
type Node interface {
	// Columns returns the scalar attributes of the entity.
	Columns() map[string]any
	// Relationships returns the loaded relationships keyed by name.
	// Relationships that were never loaded must be omitted.
	Relationships() map[string]Relation
	// Rules returns the entity's default exclusion rules.
	Rules() []string
}

// Relation is a single related node or a collection of them.
type Relation struct {
	one    Node
	many   []Node
	isMany bool
}

// One wraps a to-one relationship.
func One(n Node) Relation {
	return Relation{one: n}
}

// Many wraps a to-many relationship over a slice of entity values.
func Many[T any, P interface {
	*T
	Node
}](items []T) Relation {
	nodes := make([]Node, len(items))
	for i := range items {
		nodes[i] = P(&items[i])
	}
	return Relation{many: nodes, isMany: true}
}

// ToMap renders n using its default rules plus the given overrides.
func ToMap(n Node, rules ...string) map[string]any {
	return render(n, rules, 0)
}

// ToMaps renders every item of a slice with the same overrides.
func ToMaps[T any, P interface {
	*T
	Node
}](items []T, rules ...string) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for i := range items {
		out = append(out, render(P(&items[i]), rules, 0))
	}
	return out
}

func render(n Node, extra []string, depth int) map[string]any {
	rs := parseRules(n.Rules(), extra)

	out := make(map[string]any)
	for name, v := range n.Columns() {
		if rs.drop[name] {
			continue
		}
		out[name] = v
	}

	if depth >= maxDepth {
		return out
	}

	for name, rel := range n.Relationships() {
		if rs.drop[name] {
			continue
		}
		child := rs.nested[name]
		if rel.isMany {
			list := make([]map[string]any, 0, len(rel.many))
			for _, m := range rel.many {
				list = append(list, render(m, child, depth+1))
			}
			out[name] = list
			continue
		}
		if rel.one != nil {
			out[name] = render(rel.one, child, depth+1)
		}
	}
	return out
}

type ruleSet struct {
	drop   map[string]bool
	nested map[string][]string
}

// parseRules splits exclusion rules into the names dropped at this level and
// the rules forwarded to each relationship. Rules without a leading "-" are
// ignored; only exclusions are supported.
func parseRules(groups ...[]string) ruleSet {
	rs := ruleSet{
		drop:   make(map[string]bool),
		nested: make(map[string][]string),
	}
	for _, rules := range groups {
		for _, r := range rules {
			path, ok := strings.CutPrefix(strings.TrimSpace(r), "-")
			if !ok || path == "" {
				continue
			}
			head, rest, nested := strings.Cut(path, ".")
			if nested {
				rs.nested[head] = append(rs.nested[head], "-"+rest)
				continue
			}
			rs.drop[head] = true
		}
	}
	return rs
}
