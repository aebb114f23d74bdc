package scrape

import (
	"github.com/hyperifyio/webustler/internal/clean"
	"github.com/hyperifyio/webustler/internal/extract"
	"github.com/hyperifyio/webustler/internal/markdown"
	"github.com/hyperifyio/webustler/internal/output"
)

// Pipeline turns rendered HTML into the final frontmatter document.
type Pipeline struct {
	Cleaner   *clean.Cleaner
	Converter *markdown.Converter
}

func NewPipeline() *Pipeline {
	return &Pipeline{Cleaner: clean.Default(), Converter: markdown.NewConverter()}
}

// Render parses html once, extracts metadata, links and images from the
// untouched tree, then cleans the tree and converts its main content.
func (p *Pipeline) Render(html, sourceURL string, statusCode int) (string, error) {
	doc, err := extract.Parse(html)
	if err != nil {
		return "", err
	}
	facts := extract.FromDocument(doc, sourceURL, statusCode)

	p.Cleaner.Clean(doc)
	body, err := p.Converter.Convert(clean.MainContent(doc))
	if err != nil {
		return "", err
	}

	words := markdown.WordCount(body)
	facts.Metadata.Set("wordCount", words)
	facts.Metadata.Set("readingTime", markdown.ReadingTime(words))

	return output.Format(output.Document{
		Metadata: facts.Metadata,
		Markdown: body,
		Links:    facts.Links,
		Images:   facts.Images,
	}), nil
}
