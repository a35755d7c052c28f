package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/module"
)

// GenerateMermaid produces a Mermaid flowchart of the module references in
// a loaded tree. root names the entry document.
// It applies semantic styling:
// - Entry document: ((Circle))
// - Function module: [[Subroutine]]
// - Structured file: [(Cylinder)]
// - Any other value: [Rectangle]
// Edges are labelled with the path of the referencing node; references
// that invoke their module (options present) are drawn thick.
func GenerateMermaid(loaded *domain.Node, root string) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	rootID := sanitizeMermaidID(root)
	sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", rootID, escape(root)))

	w := &walker{sb: &sb, declared: map[string]bool{rootID: true}}
	w.walk(loaded, rootID, "")
	return sb.String()
}

type walker struct {
	sb       *strings.Builder
	declared map[string]bool
}

func (w *walker) walk(n *domain.Node, from, path string) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case domain.KindSequence:
		for i, item := range n.Items() {
			w.walk(item, from, path+"["+strconv.Itoa(i)+"]")
		}
	case domain.KindMapping:
		if m := n.Module(); m != nil {
			to := w.declare(m)
			arrow := "-->"
			if n.Options() != nil {
				arrow = "==>"
			}
			label := path
			if label == "" {
				label = "."
			}
			w.sb.WriteString(fmt.Sprintf("    %s %s|\"%s\"| %s\n", from, arrow, escape(label), to))
			if m.Config != nil && !w.declared[to+"/walked"] {
				w.declared[to+"/walked"] = true
				w.walk(m.Config, to, "")
			}
		}
		if opts := n.Options(); opts != nil {
			w.walk(opts, from, join(path, "options"))
		}
		for _, k := range n.Keys() {
			child, _ := n.Field(k)
			w.walk(child, from, join(path, k))
		}
	}
}

// declare emits the node for m once and returns its id.
func (w *walker) declare(m *domain.Module) string {
	id := sanitizeMermaidID(m.Location)
	if w.declared[id] {
		return id
	}
	w.declared[id] = true

	opener, closer := "[", "]"
	switch {
	case m.Structured():
		opener, closer = "[(", ")]"
	case module.IsCallable(m.Value):
		opener, closer = "[[", "]]"
	}
	w.sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, escape(m.Name), closer))
	return id
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	var sb strings.Builder
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	if sb.Len() == 0 {
		return "_"
	}
	return sb.String()
}
