package markdown

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func render(md string) string {
	var buf bytes.Buffer
	RenderMarkdown(&buf, md)
	return buf.String()
}

func TestHeadingID(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Getting started", "getting-started"},
		{"Why Hermes?", "why-hermes"},
		{"Mitä seuraavaksi", "mitä-seuraavaksi"},
		{"  React Native 0.76  ", "react-native-0-76"},
		{"!!!", ""},
	}
	for _, tt := range tests {
		if got := HeadingID(tt.input); got != tt.expected {
			t.Errorf("HeadingID(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRenderCallout(t *testing.T) {
	got := render("<Callout type=\"warning\">\nCheck **this** first.\n</Callout>")
	assert.Equal(t, `<aside class="callout callout-warning"><p>Check <strong>this</strong> first.`+"\n"+`</p></aside>`, got)

	got = render(`<Callout>Short note</Callout>`)
	assert.Equal(t, `<aside class="callout callout-note"><p>Short note</p></aside>`, got)
}

func TestRenderYouTubeEmbed(t *testing.T) {
	got := render(`<YouTubeEmbed id="abc123" />`)
	assert.Equal(t, 1, strings.Count(got, "<iframe"))
	assert.Contains(t, got, `src="https://www.youtube.com/embed/abc123"`)

	got = render(`<YouTubeEmbed videos={["one", "two"]} />`)
	assert.Equal(t, 2, strings.Count(got, "<iframe"))
	assert.Contains(t, got, "/embed/one")
	assert.Contains(t, got, "/embed/two")
	assert.True(t, strings.HasPrefix(got, `<div class="youtube-embed">`))
}

func TestRenderImageComponent(t *testing.T) {
	got := render(`<Image src="/content/articles/en/hermes/hero.png" alt="Hero" width={800} height="400" caption="Fast" />`)
	assert.Equal(t, `<figure><img fetchpriority="high" src="/content/articles/en/hermes/hero.png" alt="Hero" width="800" height="400" decoding="async"/><figcaption>Fast</figcaption></figure>`, got)

	got = render(`<Image src="javascript:alert(1)" />`)
	assert.NotContains(t, got, "<img")
}

func TestExcerpt(t *testing.T) {
	html := render("# Title\n\n```js\nconst x = 1\n```\n\nHermes is the default engine since React Native 0.70.\n\nSecond paragraph.")
	assert.Equal(t, "Hermes is the default engine since React Native 0.70.", Excerpt(html, 160))
	assert.Equal(t, "Hermes is the default…", Excerpt(html, 25))
	assert.Equal(t, "", Excerpt("", 10))
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 0, ReadingTime(""))
	assert.Equal(t, 1, ReadingTime(render("A few words.")))
	long := strings.Repeat("word ", WordsPerMinute+1)
	assert.Equal(t, 2, ReadingTime(render(long)))

	// Code does not count.
	code := "```\n" + strings.Repeat("x ", 1000) + "\n```\nHi"
	assert.Equal(t, 1, ReadingTime(render(code)))
}

func TestTOC(t *testing.T) {
	html := render("# Title\n\n## Setup\n\ntext\n\n### Install Expo\n\n#### Notes\n\n## Done")
	assert.Equal(t, []Heading{
		{Level: 2, ID: "setup", Text: "Setup"},
		{Level: 3, ID: "install-expo", Text: "Install Expo"},
		{Level: 4, ID: "notes", Text: "Notes"},
		{Level: 2, ID: "done", Text: "Done"},
	}, TOC(html))
	assert.Empty(t, TOC(render("just text")))
}
