package server

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	xhtml "golang.org/x/net/html"
)

const pageStyle = `body{max-width:48rem;margin:2rem auto;padding:0 1rem;font-family:system-ui,sans-serif;line-height:1.6}
.transclusion{border-left:3px solid #8884;padding-left:1rem;margin:0.5rem 0}
.transclusion-warning{color:#b00;font-style:italic}
.embed-unresolved{color:#888}`

// renderPage wraps rendered document HTML in a minimal page shell.
func renderPage(title string, body []byte) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%s</title>
<style>%s</style>
</head>
<body>
`, html.EscapeString(title), pageStyle)
	buf.Write(body)
	buf.WriteString("\n</body>\n</html>\n")
	return buf.Bytes()
}

// documentTitle extracts the text of the first h1 element in the rendered
// fragment. fallback is returned when the fragment has no h1 or cannot be
// parsed.
func documentTitle(fragment []byte, fallback string) string {
	root, err := xhtml.Parse(bytes.NewReader(fragment))
	if err != nil {
		return fallback
	}
	if h1 := findElement(root, "h1"); h1 != nil {
		if title := strings.TrimSpace(nodeText(h1)); title != "" {
			return title
		}
	}
	return fallback
}

func findElement(n *xhtml.Node, tag string) *xhtml.Node {
	if n.Type == xhtml.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func nodeText(n *xhtml.Node) string {
	var sb strings.Builder
	var walk func(*xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
