package htmldriver

import (
	"strings"

	"golang.org/x/net/html"
)

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, token := range strings.Fields(attr(n, "class")) {
		if token == class {
			return true
		}
	}
	return false
}

// nodeText returns the concatenated text content of a node.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}

// find returns the first element node matching the predicate, depth first.
func find(root *html.Node, pred func(*html.Node) bool) *html.Node {
	if root.Type == html.ElementNode && pred(root) {
		return root
	}
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if match := find(child, pred); match != nil {
			return match
		}
	}
	return nil
}

// findAll returns every element node whose tag matches one of tags, in
// document order.
func findAll(root *html.Node, tags ...string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			for _, tag := range tags {
				if node.Data == tag {
					out = append(out, node)
					break
				}
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		walk(child)
	}
	return out
}

// findBySelector resolves the two selector shapes the driver supports:
// "#id" and "tag.class" (bare "tag" also works).
func findBySelector(root *html.Node, selector string) *html.Node {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil
	}
	if strings.HasPrefix(selector, "#") {
		id := selector[1:]
		return find(root, func(n *html.Node) bool { return attr(n, "id") == id })
	}
	tag, class, hasDot := strings.Cut(selector, ".")
	return find(root, func(n *html.Node) bool {
		if n.Data != tag {
			return false
		}
		return !hasDot || hasClass(n, class)
	})
}

// controlValue reads the rendered value of a form control.
func controlValue(n *html.Node) string {
	switch n.Data {
	case "input":
		switch strings.ToLower(attr(n, "type")) {
		case "checkbox", "radio":
			if hasAttr(n, "checked") {
				return "true"
			}
			return "false"
		default:
			return attr(n, "value")
		}
	case "textarea":
		return nodeText(n)
	case "select":
		options := findAll(n, "option")
		for _, option := range options {
			if hasAttr(option, "selected") {
				return optionValue(option)
			}
		}
		if len(options) > 0 {
			return optionValue(options[0])
		}
		return ""
	default:
		return strings.TrimSpace(nodeText(n))
	}
}

func hasAttr(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if a.Key == name {
			return true
		}
	}
	return false
}

func optionValue(option *html.Node) string {
	if value := attr(option, "value"); value != "" {
		return value
	}
	return strings.TrimSpace(nodeText(option))
}
