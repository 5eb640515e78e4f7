package mdconvert

import (
	"strings"

	"golang.org/x/net/html"
)

// tidy prepares a parsed fragment for conversion. Non-content elements are
// dropped, then empty containers are removed innermost first, so placeholders
// such as <p class="mw-empty-elt"></p> leave no blank blocks behind.
func tidy(node *html.Node) {
	dropNonContent(node)
	removeEmptyNodesBottomUp(node)
}

func dropNonContent(node *html.Node) {
	var children []*html.Node
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		children = append(children, child)
	}
	for _, child := range children {
		if child.Type == html.CommentNode || (child.Type == html.ElementNode && isNonContent(child.Data)) {
			node.RemoveChild(child)
			continue
		}
		dropNonContent(child)
	}
}

func isNonContent(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "template":
		return true
	default:
		return false
	}
}

// removeEmptyNodesBottomUp performs a post-order traversal, so nested empty
// containers are fully cleaned.
func removeEmptyNodesBottomUp(node *html.Node) {
	if node == nil {
		return
	}

	// removing nodes changes the sibling list
	var children []*html.Node
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		children = append(children, child)
	}
	for _, child := range children {
		removeEmptyNodesBottomUp(child)
	}

	if node.Type == html.ElementNode && isEmptyNode(node) && shouldRemoveEmptyElement(node.Data) {
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}
}

// isEmptyNode reports an element with no child elements and only whitespace text.
func isEmptyNode(node *html.Node) bool {
	if node == nil || node.Type != html.ElementNode {
		return false
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.ElementNode:
			return false
		case html.TextNode:
			if strings.TrimSpace(child.Data) != "" {
				return false
			}
		}
	}
	return true
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

var structuralElements = map[string]bool{
	"html": true, "head": true, "body": true,
}

func shouldRemoveEmptyElement(tag string) bool {
	return !voidElements[tag] && !structuralElements[tag]
}
