package clean

import "fmt"

// MatchKind selects how a Rule compares an attribute value.
type MatchKind int

const (
	// Contains matches when the attribute value contains Value.
	Contains MatchKind = iota
	// Equals matches when the attribute value is exactly Value.
	Equals
)

// Rule removes every element whose Attr matches Value.
type Rule struct {
	Attr  string
	Value string
	Match MatchKind
}

// Selector renders the rule as a CSS attribute selector.
func (r Rule) Selector() string {
	op := "*="
	if r.Match == Equals {
		op = "="
	}
	return fmt.Sprintf("[%s%s'%s']", r.Attr, op, r.Value)
}

// RemovableTags are dropped wholesale. Tables are deliberately absent.
var RemovableTags = []string{
	"script", "style", "nav", "footer", "header", "noscript", "aside",
	"iframe", "form", "button", "input", "select", "textarea", "svg",
	"canvas", "video", "audio", "map", "object", "embed",
}

// RemovableRules target page furniture: sidebars, comments, ads, social
// widgets, popups, banners and landmark roles outside the main content.
var RemovableRules = []Rule{
	{Attr: "class", Value: "sidebar"},
	{Attr: "class", Value: "comment"},
	{Attr: "class", Value: "advertisement"},
	{Attr: "class", Value: "ad-"},
	{Attr: "class", Value: "ads-"},
	{Attr: "class", Value: "advert"},
	{Attr: "class", Value: "social"},
	{Attr: "class", Value: "share"},
	{Attr: "class", Value: "related"},
	{Attr: "class", Value: "popup"},
	{Attr: "class", Value: "modal"},
	{Attr: "class", Value: "cookie"},
	{Attr: "class", Value: "banner"},
	{Attr: "class", Value: "promo"},
	{Attr: "class", Value: "newsletter"},
	{Attr: "id", Value: "sidebar"},
	{Attr: "id", Value: "comment"},
	{Attr: "id", Value: "advertisement"},
	{Attr: "id", Value: "ad-"},
	{Attr: "id", Value: "ads-"},
	{Attr: "role", Value: "complementary", Match: Equals},
	{Attr: "role", Value: "banner", Match: Equals},
	{Attr: "role", Value: "navigation", Match: Equals},
	{Attr: "role", Value: "contentinfo", Match: Equals},
}

// tableTags survive the empty-element pass so tables keep their shape.
var tableTags = map[string]bool{
	"table": true, "thead": true, "tbody": true, "tr": true, "th": true, "td": true,
}

// voidTags carry meaning without text.
var voidTags = map[string]bool{
	"img": true, "br": true, "hr": true,
}
