package clean

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parse(t *testing.T, s string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func cleaned(t *testing.T, s string) *goquery.Document {
	t.Helper()
	doc := parse(t, s)
	Default().Clean(doc)
	return doc
}

func TestRuleSelector(t *testing.T) {
	if got := (Rule{Attr: "class", Value: "sidebar"}).Selector(); got != "[class*='sidebar']" {
		t.Fatalf("unexpected selector %q", got)
	}
	if got := (Rule{Attr: "role", Value: "banner", Match: Equals}).Selector(); got != "[role='banner']" {
		t.Fatalf("unexpected selector %q", got)
	}
}

func TestClean_RemovesNoiseTags(t *testing.T) {
	doc := cleaned(t, `<html><body>
<header>Site header</header>
<nav>Menu</nav>
<script>var x = 1;</script>
<style>p{}</style>
<form><input value="q"><button>Go</button></form>
<article><p>Keep me</p><iframe src="x"></iframe><svg><text>vector</text></svg></article>
<footer>Footer</footer>
</body></html>`)
	text := doc.Text()
	for _, gone := range []string{"Site header", "Menu", "var x", "Go", "vector", "Footer"} {
		if strings.Contains(text, gone) {
			t.Fatalf("expected %q to be removed, got %q", gone, text)
		}
	}
	if !strings.Contains(text, "Keep me") {
		t.Fatalf("expected article text to survive")
	}
}

func TestClean_RemovesRuleMatches(t *testing.T) {
	doc := cleaned(t, `<html><body><main>
<p>Body text</p>
<div class="left-sidebar">Sidebar</div>
<div id="comments-section">Comments</div>
<div class="ad-slot">Ad</div>
<div class="social-links">Social</div>
<div class="cookie-consent">Cookies</div>
<div role="complementary">Complementary</div>
<div role="navigation">Landmark nav</div>
<div role="main">Role main stays</div>
</main></body></html>`)
	text := doc.Text()
	for _, gone := range []string{"Sidebar", "Comments", "Ad", "Social", "Cookies", "Complementary", "Landmark nav"} {
		if strings.Contains(text, gone) {
			t.Fatalf("expected %q to be removed, got %q", gone, text)
		}
	}
	for _, kept := range []string{"Body text", "Role main stays"} {
		if !strings.Contains(text, kept) {
			t.Fatalf("expected %q to survive, got %q", kept, text)
		}
	}
}

func TestClean_RemovesDataURIImages(t *testing.T) {
	doc := cleaned(t, `<html><body><p>Text <img src="data:image/png;base64,AAAA"> and <img src="/real.png"></p></body></html>`)
	if doc.Find("img[src^='data:']").Length() != 0 {
		t.Fatalf("expected data uri image removed")
	}
	if doc.Find("img[src='/real.png']").Length() != 1 {
		t.Fatalf("expected real image kept")
	}
}

func TestClean_RemovesEmptyElements(t *testing.T) {
	doc := cleaned(t, `<html><body><div><span>  </span><p></p><p>Real</p></div><div>   </div></body></html>`)
	if doc.Find("span").Length() != 0 {
		t.Fatalf("expected empty span removed")
	}
	if doc.Find("p").Length() != 1 {
		t.Fatalf("expected only the non-empty paragraph to survive, got %d", doc.Find("p").Length())
	}
	if doc.Find("div").Length() != 1 {
		t.Fatalf("expected whitespace-only div removed, got %d", doc.Find("div").Length())
	}
}

func TestClean_KeepsVoidElementsAndTheirContainers(t *testing.T) {
	doc := cleaned(t, `<html><body><article><p>Intro</p><figure><img src="/a.png"></figure><hr><p>Line<br>break</p></article></body></html>`)
	if doc.Find("figure img").Length() != 1 {
		t.Fatalf("expected image inside textless figure to survive")
	}
	if doc.Find("hr").Length() != 1 || doc.Find("br").Length() != 1 {
		t.Fatalf("expected hr and br to survive")
	}
}

func TestClean_PreservesTableStructure(t *testing.T) {
	doc := cleaned(t, `<html><body><p>Data</p><table><thead><tr><th>Name</th><th></th></tr></thead>
<tbody><tr><td>Alice</td><td><span></span></td></tr><tr><td></td><td></td></tr></tbody></table></body></html>`)
	if doc.Find("table").Length() != 1 || doc.Find("thead").Length() != 1 || doc.Find("tbody").Length() != 1 {
		t.Fatalf("expected table sections preserved")
	}
	if doc.Find("tr").Length() != 3 {
		t.Fatalf("expected all rows preserved, got %d", doc.Find("tr").Length())
	}
	if doc.Find("th").Length() != 2 || doc.Find("td").Length() != 4 {
		t.Fatalf("expected all cells preserved")
	}
	if doc.Find("td span").Length() != 0 {
		t.Fatalf("expected empty span inside a cell to be removed")
	}
}

func TestClean_EmptyTableInsideEmptyWrapperIsDropped(t *testing.T) {
	// The wrapper has no text and no media, so it goes with the table in it.
	doc := cleaned(t, `<html><body><p>Text</p><div class="wrap"><table><tr><td></td></tr></table></div></body></html>`)
	if doc.Find("div.wrap").Length() != 0 || doc.Find("table").Length() != 0 {
		t.Fatalf("expected empty wrapper and its empty table to be removed")
	}
}

func TestMainContent_Priority(t *testing.T) {
	doc := parse(t, `<html><body><main>Main</main><article>Article</article></body></html>`)
	if got := MainContent(doc).Text(); got != "Article" {
		t.Fatalf("expected article first, got %q", got)
	}
	doc = parse(t, `<html><body><div>Other</div><main>Main</main></body></html>`)
	if got := MainContent(doc).Text(); got != "Main" {
		t.Fatalf("expected main, got %q", got)
	}
	doc = parse(t, `<html><body><div>Only body</div></body></html>`)
	if got := goquery.NodeName(MainContent(doc)); got != "body" {
		t.Fatalf("expected body, got %q", got)
	}
}

func TestMainContent_FallsBackToDocument(t *testing.T) {
	doc := cleaned(t, `<html><body class="has-banner"><p>Hello</p></body></html>`)
	sel := MainContent(doc)
	if sel.Length() != 1 {
		t.Fatalf("expected a selection even when body was removed")
	}
}
