package output

import (
	"fmt"
	"strings"
	"testing"

	"github.com/hyperifyio/webustler/internal/extract"
)

func TestFormat_Layout(t *testing.T) {
	md := extract.NewMetadata()
	md.Set("sourceURL", "https://a.com/page")
	md.Set("statusCode", 200)
	md.Set("keywords", []string{"go", "web"})
	og := extract.NewPairs()
	og.Set("title", "OG")
	og.Set("type", "article")
	md.Set("openGraph", og)
	md.Set("wordCount", 2)
	md.Set("readingTime", "1 min")

	got := Format(Document{
		Metadata: md,
		Markdown: "# Hi\n\nBody",
		Links:    extract.LinkSet{Internal: []string{"https://a.com/x"}, External: []string{"https://b.com/y"}},
		Images:   []string{"https://a.com/i.png"},
	})

	want := `---
sourceURL: https://a.com/page
statusCode: 200
keywords: go, web
openGraph:
  title: OG
  type: article
wordCount: 2
readingTime: 1 min
internalLinksCount: 1
externalLinksCount: 1
imagesCount: 1
---

# Hi

Body


---
## Internal Links

- https://a.com/x


---
## External Links

- https://b.com/y


---
## Images

- https://a.com/i.png`
	if got != want {
		t.Fatalf("layout mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestFormat_NoSectionsWhenEmpty(t *testing.T) {
	md := extract.NewMetadata()
	md.Set("sourceURL", "https://a.com/")
	got := Format(Document{Metadata: md, Markdown: "Body"})
	want := "---\nsourceURL: https://a.com/\n---\n\nBody"
	if got != want {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestFormat_CapsSections(t *testing.T) {
	var internal, external, images []string
	for i := 0; i < 120; i++ {
		internal = append(internal, fmt.Sprintf("https://a.com/%03d", i))
		external = append(external, fmt.Sprintf("https://b.com/%03d", i))
		images = append(images, fmt.Sprintf("https://a.com/img/%03d.png", i))
	}
	got := Format(Document{
		Metadata: extract.NewMetadata(),
		Links:    extract.LinkSet{Internal: internal, External: external},
		Images:   images,
	})
	if !strings.Contains(got, "internalLinksCount: 120") {
		t.Fatalf("count must report the full set")
	}
	if n := strings.Count(got, "- https://a.com/0") + strings.Count(got, "- https://a.com/1"); n != 100 {
		t.Fatalf("expected 100 internal bullets, got %d", n)
	}
	if n := strings.Count(got, "- https://b.com/"); n != 50 {
		t.Fatalf("expected 50 external bullets, got %d", n)
	}
	if n := strings.Count(got, "- https://a.com/img/"); n != 50 {
		t.Fatalf("expected 50 image bullets, got %d", n)
	}
}

func TestFileNotice(t *testing.T) {
	got := FileNotice("https://a.com/files/report.pdf", "PDF")
	for _, want := range []string{
		"---\nsourceURL: https://a.com/files/report.pdf\ncontentType: PDF\nfilename: report.pdf\nisFile: true\n---",
		"# File Download Detected",
		"The URL points to a **PDF** file rather than a web page.",
		"| Type | PDF |",
		"| Filename | report.pdf |",
		"| URL | https://a.com/files/report.pdf |",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected notice to contain %q, got:\n%s", want, got)
		}
	}
}
