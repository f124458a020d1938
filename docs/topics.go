// Package docs embeds the help topics served by the topic command.
package docs

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

//go:embed *.md
var topicsFS embed.FS

// Topic is one embedded help page.
type Topic struct {
	// Name is the page's identifier, the file name without extension.
	Name string

	// Title is the page's first level-1 heading.
	Title string
}

// Topics lists the embedded pages sorted by name.
func Topics() ([]Topic, error) {
	entries, err := topicsFS.ReadDir(".")
	if err != nil {
		return nil, err
	}
	var topics []Topic
	for _, entry := range entries {
		src, err := topicsFS.ReadFile(entry.Name())
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(entry.Name(), ".md")
		topics = append(topics, Topic{Name: name, Title: title(src)})
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].Name < topics[j].Name })
	return topics, nil
}

// Get returns the markdown source of the named topic.
func Get(name string) (string, error) {
	src, err := topicsFS.ReadFile(name + ".md")
	if err != nil {
		return "", fmt.Errorf("unknown topic %q", name)
	}
	return string(src), nil
}

// title extracts the first level-1 heading of a markdown document.
func title(src []byte) string {
	doc := goldmark.DefaultParser().Parse(text.NewReader(src))
	var found string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering && h.Level == 1 {
			found = string(h.Text(src))
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return found
}
