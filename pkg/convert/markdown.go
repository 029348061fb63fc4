package convert

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	spaceRun      = regexp.MustCompile(`[ \t]+`)
)

// inlineAtoms render into the surrounding text run instead of opening
// a new block.
var inlineAtoms = map[atom.Atom]bool{
	atom.A: true, atom.Abbr: true, atom.B: true, atom.Br: true,
	atom.Cite: true, atom.Code: true, atom.Em: true, atom.I: true,
	atom.Img: true, atom.Kbd: true, atom.Mark: true, atom.Q: true,
	atom.S: true, atom.Small: true, atom.Span: true, atom.Strong: true,
	atom.Sub: true, atom.Sup: true, atom.Time: true, atom.U: true,
	atom.Var: true,
}

func isInline(n *html.Node) bool {
	if n.Type == html.TextNode {
		return true
	}
	return n.Type == html.ElementNode && inlineAtoms[n.DataAtom]
}

// renderBlocks renders the children of n as markdown blocks separated
// by blank lines.
func renderBlocks(n *html.Node) string {
	return strings.Join(childBlocks(n), "\n\n")
}

// childBlocks walks the children of n, grouping runs of inline
// content into paragraphs and rendering block elements in place.
func childBlocks(n *html.Node) []string {
	var blocks []string
	var run strings.Builder

	flush := func() {
		if text := tidyInline(run.String()); text != "" {
			blocks = append(blocks, text)
		}
		run.Reset()
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if isInline(child) {
			run.WriteString(inlineText(child))
			continue
		}
		flush()
		if child.Type == html.ElementNode {
			blocks = append(blocks, elementBlocks(child)...)
		}
	}
	flush()
	return blocks
}

func elementBlocks(n *html.Node) []string {
	switch n.DataAtom {
	case atom.H1:
		return heading(n, 1)
	case atom.H2:
		return heading(n, 2)
	case atom.H3:
		return heading(n, 3)
	case atom.H4:
		return heading(n, 4)
	case atom.H5:
		return heading(n, 5)
	case atom.H6:
		return heading(n, 6)
	case atom.P:
		if text := tidyInline(inlineChildren(n)); text != "" {
			return []string{text}
		}
		return nil
	case atom.Ul:
		return listBlocks(n, false)
	case atom.Ol:
		return listBlocks(n, true)
	case atom.Pre:
		return codeBlocks(n)
	case atom.Blockquote:
		inner := childBlocks(n)
		if len(inner) == 0 {
			return nil
		}
		return []string{prefixLines(strings.Join(inner, "\n\n"), "> ")}
	case atom.Hr:
		return []string{"---"}
	case atom.Table:
		return tableBlocks(n)
	default:
		// Generic containers: div, section, article, main, and
		// anything unrecognized.
		return childBlocks(n)
	}
}

func heading(n *html.Node, level int) []string {
	text := tidyInline(inlineChildren(n))
	if text == "" {
		return nil
	}
	return []string{strings.Repeat("#", level) + " " + text}
}

func listBlocks(n *html.Node, ordered bool) []string {
	var lines []string
	index := 0
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode || child.DataAtom != atom.Li {
			continue
		}
		item := childBlocks(child)
		if len(item) == 0 {
			continue
		}
		index++
		marker := "- "
		if ordered {
			marker = fmt.Sprintf("%d. ", index)
		}
		lines = append(lines, marker+item[0])
		// Continuation blocks (nested lists, extra paragraphs) align
		// under the item text.
		indent := strings.Repeat(" ", len(marker))
		for _, rest := range item[1:] {
			lines = append(lines, indentLines(rest, indent))
		}
	}
	if len(lines) == 0 {
		return nil
	}
	return []string{strings.Join(lines, "\n")}
}

func codeBlocks(n *html.Node) []string {
	text := strings.Trim(rawText(n), "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lang := ""
	if code := firstElement(n, atom.Code); code != nil {
		for _, class := range strings.Fields(attr(code, "class")) {
			if after, ok := strings.CutPrefix(class, "language-"); ok {
				lang = after
			}
		}
	}
	return []string{"```" + lang + "\n" + text + "\n```"}
}

func tableBlocks(n *html.Node) []string {
	var lines []string
	rowCount := 0

	var visit func(*html.Node)
	visit = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if c.DataAtom != atom.Tr {
				visit(c)
				continue
			}
			var cells []string
			header := false
			for cell := c.FirstChild; cell != nil; cell = cell.NextSibling {
				if cell.Type != html.ElementNode {
					continue
				}
				if cell.DataAtom == atom.Th {
					header = true
				}
				if cell.DataAtom == atom.Th || cell.DataAtom == atom.Td {
					cells = append(cells, tidyInline(inlineChildren(cell)))
				}
			}
			if len(cells) == 0 {
				continue
			}
			lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
			if rowCount == 0 && header {
				separators := make([]string, len(cells))
				for i := range separators {
					separators[i] = "---"
				}
				lines = append(lines, "| "+strings.Join(separators, " | ")+" |")
			}
			rowCount++
		}
	}
	visit(n)

	if len(lines) == 0 {
		return nil
	}
	return []string{strings.Join(lines, "\n")}
}

// inlineText renders a single inline node, collapsing whitespace runs
// in text but preserving newlines produced by <br>.
func inlineText(n *html.Node) string {
	if n.Type == html.TextNode {
		return whitespaceRun.ReplaceAllString(n.Data, " ")
	}
	if n.Type != html.ElementNode {
		return ""
	}
	switch n.DataAtom {
	case atom.Br:
		return "\n"
	case atom.A:
		text := tidyInline(inlineChildren(n))
		href := strings.TrimSpace(attr(n, "href"))
		if href == "" || strings.HasPrefix(href, "#") {
			return inlineChildren(n)
		}
		if text == "" {
			return ""
		}
		return "[" + text + "](" + href + ")"
	case atom.Strong, atom.B:
		if text := tidyInline(inlineChildren(n)); text != "" {
			return "**" + text + "**"
		}
		return ""
	case atom.Em, atom.I:
		if text := tidyInline(inlineChildren(n)); text != "" {
			return "*" + text + "*"
		}
		return ""
	case atom.Code:
		if text := strings.TrimSpace(whitespaceRun.ReplaceAllString(rawText(n), " ")); text != "" {
			return "`" + text + "`"
		}
		return ""
	case atom.Img:
		src := strings.TrimSpace(attr(n, "src"))
		if src == "" {
			return ""
		}
		return "![" + strings.TrimSpace(attr(n, "alt")) + "](" + src + ")"
	default:
		return inlineChildren(n)
	}
}

func inlineChildren(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(inlineText(c))
	}
	return b.String()
}

// rawText concatenates all text beneath n verbatim.
func rawText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func firstElement(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
		if found := firstElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// tidyInline collapses space runs per line and trims the result,
// keeping line breaks from <br>.
func tidyInline(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func prefixLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = strings.TrimRight(prefix, " ")
		} else {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func indentLines(s, indent string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}
