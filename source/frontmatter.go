package source

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterDelimiter = "---"

// frontMatter holds the front matter fields the mapper cares about.
type frontMatter struct {
	Title string `yaml:"title"`
}

// splitFrontMatter separates YAML front matter from a Markdown body. Content
// without a well-formed front matter block is returned unchanged as the body.
func splitFrontMatter(content string) (frontMatter, string) {
	var fm frontMatter
	if !strings.HasPrefix(content, frontMatterDelimiter+"\n") && !strings.HasPrefix(content, frontMatterDelimiter+"\r\n") {
		return fm, content
	}

	start := len(frontMatterDelimiter)
	if content[start] == '\r' {
		start++
	}
	start++

	closeIdx := strings.Index(content[start:], "\n"+frontMatterDelimiter)
	if closeIdx == -1 {
		return fm, content
	}

	if err := yaml.Unmarshal([]byte(content[start:start+closeIdx]), &fm); err != nil {
		return frontMatter{}, content
	}

	bodyStart := start + closeIdx + 1 + len(frontMatterDelimiter)
	for bodyStart < len(content) && (content[bodyStart] == '\n' || content[bodyStart] == '\r') {
		bodyStart++
	}
	if bodyStart >= len(content) {
		return fm, ""
	}
	return fm, content[bodyStart:]
}
