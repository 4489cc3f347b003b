package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatInline(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bold", "text **bold** more", "text <strong>bold</strong> more"},
		{"bold underscore", "__bold__", "<strong>bold</strong>"},
		{"mismatched bold delimiters", "**half__", "**half__"},
		{"italic", "*italic*", "<em>italic</em>"},
		{"italic underscore", "text _italic_ more", "text <em>italic</em> more"},
		{"snake case untouched", "use react_native_config here", "use react_native_config here"},
		{"nested", "**bold *italic* text**", "<strong>bold <em>italic</em> text</strong>"},
		{"escapes html", "<b>hi</b> & bye", "&lt;b&gt;hi&lt;/b&gt; &amp; bye"},
		{"code span", "run `npx expo start` now", "run <code>npx expo start</code> now"},
		{"code span keeps emphasis literal", "`**not bold**`", "<code>**not bold**</code>"},
		{"internal link", "[events](/en/events/)", `<a href="/en/events/">events</a>`},
		{
			"external link opens new tab",
			"[docs](https://reactnative.dev/docs/hermes)",
			`<a href="https://reactnative.dev/docs/hermes" target="_blank" rel="noopener noreferrer">docs</a>`,
		},
		{
			"underscores in url survive",
			"[guide](https://example.com/some_path_here)",
			`<a href="https://example.com/some_path_here" target="_blank" rel="noopener noreferrer">guide</a>`,
		},
		{"unsafe link drops href", "[click](javascript:void)", "click"},
		{"protocol relative link dropped", "[x](//evil.example)", "x"},
		{"keyboard", "Press <Keyboard>Cmd</Keyboard> + <Keyboard>D</Keyboard>", "Press <kbd>Cmd</kbd> + <kbd>D</kbd>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatInline(tt.input, new(int)))
		})
	}
}

func TestFormatInlineImagesLoadLazilyAfterFirst(t *testing.T) {
	n := 0
	first := FormatInline("![Hero](/img/hero.png)", &n)
	second := FormatInline("![Diagram](/img/diagram.png)", &n)
	assert.Equal(t, `<img fetchpriority="high" src="/img/hero.png" alt="Hero" decoding="async"/>`, first)
	assert.Equal(t, `<img loading="lazy" src="/img/diagram.png" alt="Diagram" decoding="async"/>`, second)
	assert.Equal(t, 2, n)
}

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"h1 has no id", "# Title", "<h1>Title</h1>"},
		{"h2 anchor", "## Getting started", `<h2 id="getting-started">Getting started</h2>`},
		{"h4 anchor", "#### Notes", `<h4 id="notes">Notes</h4>`},
		{"five hashes is text", "##### deep", "<p>##### deep\n</p>"},
		{"paragraph lines join", "one\ntwo\n\nthree", "<p>one\ntwo\n</p><p>three\n</p>"},
		{"bullet list", "- one\n* two\n+ three", "<ul><li>one</li><li>two</li><li>three</li></ul>"},
		{"ordered list", "1. one\n2) two", "<ol><li>one</li><li>two</li></ol>"},
		{"list then paragraph", "1. one\n\nafter", "<ol><li>one</li></ol><p>after\n</p>"},
		{"list switches kind", "- a\n1. b", "<ul><li>a</li></ul><ol><li>b</li></ol>"},
		{"blockquote", "> quoted\n> more", "<blockquote>quoted more</blockquote>"},
		{"rule", "text\n---\nnext", "<p>text\n</p><hr/><p>next\n</p>"},
		{
			"table",
			"| Engine | Default |\n|---|:---:|\n| Hermes | yes |",
			"<table><thead><tr><th>Engine</th><th>Default</th></tr></thead><tbody><tr><td>Hermes</td><td>yes</td></tr></tbody></table>",
		},
		{
			"code without language",
			"```\nx < 1\n```",
			"<pre class=\"code-block\"><code>x &lt; 1\n</code></pre>",
		},
		{
			"code with language",
			"```tsx\n<View />\n```",
			"<div class=\"code-block-wrapper\"><span class=\"code-lang\">tsx</span><pre class=\"code-block\"><code class=\"language-tsx\">&lt;View /&gt;\n</code></pre></div>",
		},
		{
			"code keeps markdown literal",
			"```\n## not a heading\n- not a list\n```",
			"<pre class=\"code-block\"><code>## not a heading\n- not a list\n</code></pre>",
		},
		{
			"unterminated fence closes",
			"```js\nconst a = 1",
			"<div class=\"code-block-wrapper\"><span class=\"code-lang\">js</span><pre class=\"code-block\"><code class=\"language-js\">const a = 1\n</code></pre></div>",
		},
		{"crlf input", "## Setup\r\n\r\ntext\r\n", `<h2 id="setup">Setup</h2><p>text` + "\n</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(tt.input))
		})
	}
}

func TestSafeURL(t *testing.T) {
	tests := map[string]string{
		"/en/articles/":          "/en/articles/",
		"#setup":                 "#setup",
		"https://x.com/rnfi":     "https://x.com/rnfi",
		"mailto:hello@rnfi.dev":  "mailto:hello@rnfi.dev",
		"/search?q=a&b=c":        "/search?q=a&amp;b=c",
		"javascript:alert(1)":    "",
		"data:text/html,hi":      "",
		"relative/path":          "",
		"//cdn.example.com/x.js": "",
		"   ":                    "",
	}
	for in, want := range tests {
		assert.Equal(t, want, SafeURL(in), in)
	}
}
