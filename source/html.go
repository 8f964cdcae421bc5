package source

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"
)

var excessiveLinesRe = regexp.MustCompile(`\n{3,}`)

// mainSelectors are tried in order to find a page's primary content.
var mainSelectors = []string{"main", "article", "[role=main]"}

// chromeTags never carry statement text.
var chromeTags = []string{
	"nav", "header", "footer", "aside", "script", "style", "noscript",
	"iframe", "object", "embed", "form", "button",
}

// Converted is an HTML document reduced to Markdown.
type Converted struct {
	Title    string
	Markdown string
}

// HTMLConverter turns design documents exported as HTML into Markdown text.
type HTMLConverter struct {
	converter *md.Converter
}

// NewHTMLConverter creates a converter with GitHub-flavored output.
func NewHTMLConverter() *HTMLConverter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &HTMLConverter{converter: converter}
}

var defaultConverter = NewHTMLConverter()

// Convert extracts the title and main content of an HTML document.
func (c *HTMLConverter) Convert(content []byte) (*Converted, error) {
	doc, err := html.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, err
	}

	title := ""
	if t := findElement(doc, "title"); t != nil && t.FirstChild != nil {
		title = strings.TrimSpace(t.FirstChild.Data)
	}

	markdown, err := c.converter.ConvertString(mainContent(doc))
	if err != nil {
		return nil, err
	}
	markdown = cleanMarkdown(markdown)

	if title == "" {
		title = markdownTitle(markdown)
	}
	return &Converted{Title: title, Markdown: markdown}, nil
}

// mainContent renders the primary content area, or the body with page chrome
// removed when no content area is marked up.
func mainContent(doc *html.Node) string {
	for _, selector := range mainSelectors {
		if node := findElement(doc, selector); node != nil {
			return renderNode(node)
		}
	}

	removeElements(doc, chromeTags)
	if body := findElement(doc, "body"); body != nil {
		return renderNode(body)
	}
	return renderNode(doc)
}

func findElement(n *html.Node, selector string) *html.Node {
	if n.Type == html.ElementNode && matchesSelector(n, selector) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, selector); found != nil {
			return found
		}
	}
	return nil
}

// matchesSelector supports tag names and [attr=value].
func matchesSelector(n *html.Node, selector string) bool {
	if strings.HasPrefix(selector, "[") && strings.HasSuffix(selector, "]") {
		key, val, ok := strings.Cut(strings.Trim(selector, "[]"), "=")
		if !ok {
			return false
		}
		for _, a := range n.Attr {
			if a.Key == key && a.Val == val {
				return true
			}
		}
		return false
	}
	return n.Data == selector
}

func removeElements(n *html.Node, tags []string) {
	tagSet := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tagSet[tag] = true
	}

	var toRemove []*html.Node
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.ElementNode && tagSet[node.Data] {
			toRemove = append(toRemove, node)
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)

	for _, node := range toRemove {
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}
}

func renderNode(n *html.Node) string {
	var sb strings.Builder
	_ = html.Render(&sb, n)
	return sb.String()
}

func cleanMarkdown(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	content = excessiveLinesRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(content)
}

func markdownTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
