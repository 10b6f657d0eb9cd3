package markdown

import (
	"strings"
	"testing"
)

func TestRenderBoldAndItalic(t *testing.T) {
	t.Parallel()

	got := Render("**bold** and *italic*")

	if !strings.Contains(got, "<strong>bold</strong>") {
		t.Fatalf("expected strong element, got %q", got)
	}
	if !strings.Contains(got, "<em>italic</em>") {
		t.Fatalf("expected em element, got %q", got)
	}
	if got != "<p><strong>bold</strong> and <em>italic</em></p>" {
		t.Fatalf("unexpected fragment %q", got)
	}
}

func TestRenderHeadings(t *testing.T) {
	t.Parallel()

	got := Render("# One\n## Two\n### Three\n#### Four")
	want := "<h1>One</h1>\n<h2>Two</h2>\n<h3>Three</h3>\n<p>#### Four</p>"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRenderGroupsContiguousListItems(t *testing.T) {
	t.Parallel()

	got := Render("- apples\n- pears\n\nBetween\n\n- plums")
	want := "<ul>\n<li>apples</li>\n<li>pears</li>\n</ul>\n<p>Between</p>\n<ul>\n<li>plums</li>\n</ul>"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRenderParagraphsSplitOnBlankLines(t *testing.T) {
	t.Parallel()

	got := Render("first line\nsame paragraph\r\n\r\nsecond paragraph")
	want := "<p>first line\nsame paragraph</p>\n<p>second paragraph</p>"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRenderLinksAndImages(t *testing.T) {
	t.Parallel()

	got := Render("See [the docs](https://example.com/docs?a=1&b=2) ![logo](https://example.com/logo.png)")

	if !strings.Contains(got, `<a href="https://example.com/docs?a=1&amp;b=2" target="_blank" rel="noopener noreferrer">the docs</a>`) {
		t.Fatalf("expected link, got %q", got)
	}
	if !strings.Contains(got, `<img src="https://example.com/logo.png" alt="logo">`) {
		t.Fatalf("expected image, got %q", got)
	}
	if strings.Contains(got, "!<a") {
		t.Fatalf("image rendered as link: %q", got)
	}
}

func TestRenderLinkURLIsNotEmphasised(t *testing.T) {
	t.Parallel()

	got := Render("[x](https://example.com/a*b*c)")
	if strings.Contains(got, "<em>") {
		t.Fatalf("emphasis applied inside URL: %q", got)
	}
}

func TestRenderInlineCodeIsLiteral(t *testing.T) {
	t.Parallel()

	got := Render("run `**not bold** <b>` now")
	want := "<p>run <code>**not bold** &lt;b&gt;</code> now</p>"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRenderEscapesRawHTML(t *testing.T) {
	t.Parallel()

	got := Render(`<script>alert("x")</script>`)
	if strings.Contains(got, "<script>") {
		t.Fatalf("raw HTML leaked into output: %q", got)
	}
	if !strings.Contains(got, "&lt;script&gt;") {
		t.Fatalf("expected escaped tag, got %q", got)
	}
}

func TestRenderNeutralisesScriptLinks(t *testing.T) {
	t.Parallel()

	got := Render("[click](javascript:alert(1))")
	if strings.Contains(strings.ToLower(got), "javascript:") {
		t.Fatalf("javascript URL survived: %q", got)
	}
	if !strings.Contains(got, `href=""`) {
		t.Fatalf("expected emptied href, got %q", got)
	}
}

func TestRenderDemotesDeepHeadingsKeepingInlineMarkup(t *testing.T) {
	t.Parallel()

	got := Render("###### Six *deep*")
	want := "<p>###### Six <em>deep</em></p>"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestRenderIgnoresUnsupportedBlocks(t *testing.T) {
	t.Parallel()

	got := Render("> quoted\n\n<div>raw</div>")
	for _, tag := range []string{"<blockquote>", "<div>", "<pre>"} {
		if strings.Contains(got, tag) {
			t.Fatalf("unsupported block %s rendered: %q", tag, got)
		}
	}
	if !strings.Contains(got, "&lt;div&gt;raw&lt;/div&gt;") {
		t.Fatalf("expected escaped html block, got %q", got)
	}
}

func TestRenderEmpty(t *testing.T) {
	t.Parallel()

	if got := Render("\n\n  \n"); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestSanitizeStripsDisallowedMarkup(t *testing.T) {
	t.Parallel()

	got := Sanitize(`<p onclick="x()">hi</p><script>alert(1)</script><a href="javascript:alert(1)">bad</a>`)
	if strings.Contains(got, "onclick") || strings.Contains(got, "<script") || strings.Contains(got, "javascript:") {
		t.Fatalf("sanitizer kept unsafe markup: %q", got)
	}
	if !strings.Contains(got, "<p>hi</p>") {
		t.Fatalf("sanitizer dropped safe markup: %q", got)
	}
}

func TestRenderPublishedKeepsSupportedElements(t *testing.T) {
	t.Parallel()

	got := RenderPublished("# Title\n\n**bold** [link](https://example.com) `code`\n\n- item")
	for _, fragment := range []string{"<h1>Title</h1>", "<strong>bold</strong>", "<code>code</code>", "<li>item</li>", `href="https://example.com"`} {
		if !strings.Contains(got, fragment) {
			t.Fatalf("expected %q in %q", fragment, got)
		}
	}
}

func TestSummary(t *testing.T) {
	t.Parallel()

	if got := Summary("# Hello\n\n**World** [x](y)", 100); got != "Hello World x y" {
		t.Fatalf("unexpected summary %q", got)
	}

	if got := Summary(strings.Repeat("word ", 50), 10); got != "word word…" {
		t.Fatalf("unexpected truncated summary %q", got)
	}

	if got := Summary("   ", 10); got != "" {
		t.Fatalf("expected empty summary, got %q", got)
	}
}
