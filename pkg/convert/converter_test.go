package convert

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestConverter_Markdown_HeadingsAndParagraphs(t *testing.T) {
	converter := New()

	page := `<html><head><title>Ignored</title></head><body>
<h1>Main Title</h1>
<p>First paragraph.</p>
<h2>Section</h2>
<p>Text with <strong>bold</strong> and <em>italic</em> and <code>code</code>.</p>
</body></html>`

	got, err := converter.Markdown(page)
	if err != nil {
		t.Fatalf("Markdown() failed: %v", err)
	}

	want := "# Main Title\n\n" +
		"First paragraph.\n\n" +
		"## Section\n\n" +
		"Text with **bold** and *italic* and `code`."
	if got != want {
		t.Errorf("Markdown() = %q, want %q", got, want)
	}
}

func TestConverter_Markdown_Links(t *testing.T) {
	converter := New()

	got, err := converter.Markdown(`<p>See <a href="https://example.com/docs">the docs</a>.</p>`)
	if err != nil {
		t.Fatalf("Markdown() failed: %v", err)
	}
	if got != "See [the docs](https://example.com/docs)." {
		t.Errorf("Markdown() = %q", got)
	}
}

func TestConverter_Markdown_AnchorLinkKeepsText(t *testing.T) {
	converter := New()

	got, err := converter.Markdown(`<p><a href="#top">Back to top</a></p>`)
	if err != nil {
		t.Fatalf("Markdown() failed: %v", err)
	}
	if got != "Back to top" {
		t.Errorf("Markdown() = %q, want %q", got, "Back to top")
	}
}

func TestConverter_Markdown_Lists(t *testing.T) {
	converter := New()

	got, err := converter.Markdown(`<ul><li>one</li><li>two <b>bold</b></li></ul>`)
	if err != nil {
		t.Fatalf("Markdown() failed: %v", err)
	}
	want := "- one\n- two **bold**"
	if got != want {
		t.Errorf("Markdown() = %q, want %q", got, want)
	}
}

func TestConverter_Markdown_NestedOrderedList(t *testing.T) {
	converter := New()

	got, err := converter.Markdown(`<ol><li>first<ul><li>sub</li></ul></li><li>second</li></ol>`)
	if err != nil {
		t.Fatalf("Markdown() failed: %v", err)
	}
	want := "1. first\n   - sub\n2. second"
	if got != want {
		t.Errorf("Markdown() = %q, want %q", got, want)
	}
}

func TestConverter_Markdown_CodeBlock(t *testing.T) {
	converter := New()

	page := "<pre><code class=\"language-go\">func main() {\n\tprintln(1)\n}</code></pre>"
	got, err := converter.Markdown(page)
	if err != nil {
		t.Fatalf("Markdown() failed: %v", err)
	}
	want := "```go\nfunc main() {\n\tprintln(1)\n}\n```"
	if got != want {
		t.Errorf("Markdown() = %q, want %q", got, want)
	}
}

func TestConverter_Markdown_Blockquote(t *testing.T) {
	converter := New()

	got, err := converter.Markdown(`<blockquote><p>wise words</p></blockquote>`)
	if err != nil {
		t.Fatalf("Markdown() failed: %v", err)
	}
	if got != "> wise words" {
		t.Errorf("Markdown() = %q, want %q", got, "> wise words")
	}
}

func TestConverter_Markdown_Table(t *testing.T) {
	converter := New()

	page := `<table><tr><th>Name</th><th>Age</th></tr><tr><td>Ada</td><td>36</td></tr></table>`
	got, err := converter.Markdown(page)
	if err != nil {
		t.Fatalf("Markdown() failed: %v", err)
	}
	want := "| Name | Age |\n| --- | --- |\n| Ada | 36 |"
	if got != want {
		t.Errorf("Markdown() = %q, want %q", got, want)
	}
}

func TestConverter_Markdown_LineBreaksAndRules(t *testing.T) {
	converter := New()

	got, err := converter.Markdown(`<p>line one<br>line two</p><hr>`)
	if err != nil {
		t.Fatalf("Markdown() failed: %v", err)
	}
	want := "line one\nline two\n\n---"
	if got != want {
		t.Errorf("Markdown() = %q, want %q", got, want)
	}
}

func TestConverter_Markdown_Images(t *testing.T) {
	converter := New()

	got, err := converter.Markdown(`<p><img src="/a.png" alt="A chart"></p>`)
	if err != nil {
		t.Fatalf("Markdown() failed: %v", err)
	}
	if got != "![A chart](/a.png)" {
		t.Errorf("Markdown() = %q", got)
	}
}

func TestConverter_Markdown_StripsScriptAndStyle(t *testing.T) {
	converter := New()

	page := `<body><p>visible</p><script>var x = 1;</script><style>p { color: red }</style><noscript>enable js</noscript></body>`
	got, err := converter.Markdown(page)
	if err != nil {
		t.Fatalf("Markdown() failed: %v", err)
	}
	if got != "visible" {
		t.Errorf("Markdown() = %q, want %q", got, "visible")
	}
}

func TestConverter_Markdown_Empty(t *testing.T) {
	converter := New()

	tests := []struct {
		name string
		page string
	}{
		{"empty input", ""},
		{"whitespace body", "<html><body>   \n </body></html>"},
		{"script only", "<div><script>x()</script></div>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := converter.Markdown(tt.page)
			if err != nil {
				t.Fatalf("Markdown() failed: %v", err)
			}
			if got != "" {
				t.Errorf("Markdown() = %q, want empty", got)
			}
		})
	}
}

func TestConverter_Markdown_CollapsesWhitespace(t *testing.T) {
	converter := New()

	got, err := converter.Markdown("<p>spread\n  across\t lines</p>")
	if err != nil {
		t.Fatalf("Markdown() failed: %v", err)
	}
	if got != "spread across lines" {
		t.Errorf("Markdown() = %q, want %q", got, "spread across lines")
	}
}

func TestConverter_Document(t *testing.T) {
	converter := New()

	page := `<html><head><title>Example Page</title></head><body>
<h1>Welcome</h1>
<p>Intro with <a href="https://example.com/a">first</a> and <a href="/relative">second</a>.</p>
<p><a href="#skip">anchor</a> and <a href="">blank</a>.</p>
</body></html>`

	doc, err := converter.Document(page)
	if err != nil {
		t.Fatalf("Document() failed: %v", err)
	}

	if doc.Title != "Example Page" {
		t.Errorf("Title = %q, want %q", doc.Title, "Example Page")
	}
	if !strings.Contains(doc.Content, "# Welcome") {
		t.Errorf("Content = %q, missing heading", doc.Content)
	}
	if len(doc.Links) != 2 {
		t.Fatalf("len(Links) = %d, want 2", len(doc.Links))
	}
	if doc.Links[0].Href != "https://example.com/a" || doc.Links[0].Text != "first" {
		t.Errorf("Links[0] = %+v", doc.Links[0])
	}
	if doc.Links[1].Href != "/relative" {
		t.Errorf("Links[1] = %+v", doc.Links[1])
	}
}

func TestConverter_Document_Empty(t *testing.T) {
	converter := New()

	doc, err := converter.Document("")
	if err != nil {
		t.Fatalf("Document() failed: %v", err)
	}
	if !doc.Empty() {
		t.Errorf("Document(%q) = %+v, want empty", "", doc)
	}

	// An empty document serializes as a bare JSON object.
	payload, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if string(payload) != "{}" {
		t.Errorf("Marshal() = %s, want {}", payload)
	}
}
