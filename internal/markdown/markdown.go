// Package markdown turns the cleaned main-content subtree into markdown and
// derives word count and reading time from the result.
package markdown

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"
)

const (
	// MaxConsecutiveNewlines caps blank-line runs in converted output.
	MaxConsecutiveNewlines = 3
	// WordsPerMinute is the average reading speed used by ReadingTime.
	WordsPerMinute = 200
)

var excessNewlines = regexp.MustCompile(fmt.Sprintf(`\n{%d,}`, MaxConsecutiveNewlines+1))

// Converter renders HTML as markdown with ATX headings, "*" bullets, plain
// fenced code blocks, unescaped "*" and "_" and anchors reduced to their text.
type Converter struct {
	conv *converter.Converter
}

func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(
				commonmark.WithHeadingStyle(commonmark.HeadingStyleATX),
				commonmark.WithBulletListMarker("*"),
			),
			table.NewTablePlugin(),
		),
		converter.WithEscapeMode(converter.EscapeModeDisabled),
	)
	return &Converter{conv: conv}
}

// Convert renders sel. sel is modified: anchors are unwrapped and code
// language hints dropped before rendering.
func (c *Converter) Convert(sel *goquery.Selection) (string, error) {
	sel.Find("a").Each(func(_ int, a *goquery.Selection) {
		a.ReplaceWithSelection(a.Contents())
	})
	sel.Find("pre, code").RemoveAttr("class")

	input, err := goquery.OuterHtml(sel)
	if err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	out, err := c.conv.ConvertString(input)
	if err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return LimitNewlines(strings.TrimSpace(out)), nil
}

// LimitNewlines collapses runs of four or more newlines to three.
func LimitNewlines(s string) string {
	return excessNewlines.ReplaceAllString(s, strings.Repeat("\n", MaxConsecutiveNewlines))
}

// WordCount counts whitespace separated tokens.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// ReadingTime formats the estimated minutes for wordCount, never less than
// one. Halves round to even.
func ReadingTime(wordCount int) string {
	minutes := int(math.RoundToEven(float64(wordCount) / WordsPerMinute))
	if minutes <= 1 {
		return "1 min"
	}
	return fmt.Sprintf("%d mins", minutes)
}
