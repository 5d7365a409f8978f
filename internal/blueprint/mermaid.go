package blueprint

import (
	"fmt"
	"strings"
)

// ToMermaid renders the graph as a Mermaid flowchart. Exec edges are drawn
// solid, data edges dotted and labelled with the target socket name.
func (g *Graph) ToMermaid() string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	alias := make(map[string]string, len(g.Nodes))
	for i, n := range g.Nodes {
		alias[n.ID] = fmt.Sprintf("n%d", i)
		label := n.Title
		if label == "" {
			label = n.Type
		}
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", alias[n.ID], mermaidEscape(label)))
	}

	for _, c := range g.Connections {
		from, okFrom := alias[c.FromNodeID]
		to, okTo := alias[c.ToNodeID]
		if !okFrom || !okTo {
			continue
		}
		exec := false
		if n, ok := g.Node(c.FromNodeID); ok {
			if s, ok := n.Output(c.FromSocketID); ok && s.Type == TypeExec {
				exec = true
			}
		}
		if exec {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", from, to))
			continue
		}
		label := c.ToSocketID
		if n, ok := g.Node(c.ToNodeID); ok {
			if s, ok := n.Input(c.ToSocketID); ok && s.Name != "" {
				label = s.Name
			}
		}
		sb.WriteString(fmt.Sprintf("    %s -. %s .-> %s\n", from, mermaidEscape(label), to))
	}

	return sb.String()
}

func mermaidEscape(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}
