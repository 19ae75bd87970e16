package serialize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node struct {
	name     string
	parent   *node
	children []node
	rules    []string
}

func (n *node) Columns() map[string]any {
	return map[string]any{"name": n.name, "secret": "x"}
}

func (n *node) Relationships() map[string]Relation {
	rels := map[string]Relation{}
	if n.children != nil {
		rels["children"] = Many(n.children)
	}
	if n.parent != nil {
		rels["parent"] = One(n.parent)
	}
	return rels
}

func (n *node) Rules() []string { return n.rules }

func TestToMapDropsColumnsAndRelationships(t *testing.T) {
	root := &node{name: "root", rules: []string{"-secret"}}
	root.children = []node{{name: "a", parent: root}, {name: "b", parent: root}}

	out := ToMap(root, "-children.parent")
	assert.Equal(t, "root", out["name"])
	assert.NotContains(t, out, "secret")

	children, ok := out["children"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, children, 2)
	for _, c := range children {
		assert.NotContains(t, c, "parent")
		assert.Contains(t, c, "secret", "root rules do not leak into children")
	}
}

func TestToMapStopsAtMaxDepth(t *testing.T) {
	// No rule cuts parent <-> children, so expansion has to be bounded.
	root := &node{name: "root"}
	root.children = []node{{name: "leaf", parent: root}}

	out := ToMap(root)

	depth := 0
	cur := out
	for {
		next, ok := cur["children"].([]map[string]any)
		if !ok || len(next) == 0 {
			p, ok := cur["parent"].(map[string]any)
			if !ok {
				break
			}
			cur = p
		} else {
			cur = next[0]
		}
		depth++
		require.LessOrEqual(t, depth, maxDepth)
	}
	assert.Equal(t, maxDepth, depth)
}

func TestToMapsAppliesOverridesToEveryItem(t *testing.T) {
	items := []node{
		{name: "a", children: []node{{name: "a1"}}},
		{name: "b", children: []node{}},
	}

	out := ToMaps(items, "-children", "-secret")
	require.Len(t, out, 2)
	assert.Equal(t, []map[string]any{{"name": "a"}, {"name": "b"}}, out)
}

func TestParseRulesIgnoresInclusions(t *testing.T) {
	rs := parseRules([]string{"name", "-", " -a ", "-b.c.d"})
	assert.Equal(t, map[string]bool{"a": true}, rs.drop)
	assert.Equal(t, map[string][]string{"b": {"-c.d"}}, rs.nested)
}
