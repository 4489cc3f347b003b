// Package markdown renders article bodies (Markdown with a handful of MDX
// components) to HTML and derives excerpts, reading time and a table of
// contents from the result.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

var (
	reBold         = regexp.MustCompile(`(\*\*|__)(.+?)(\*\*|__)`)
	reItalic       = regexp.MustCompile(`\*([^*]+)\*|\b_([^_]+)_\b`)
	reInlineCode   = regexp.MustCompile("`([^`]+)`")
	reLink         = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]*)\)`)
	reImg          = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]*)\)`)
	reOrderedItem  = regexp.MustCompile(`^\d+[.)]\s+`)
	reKeyboard     = regexp.MustCompile(`&lt;Keyboard&gt;(.+?)&lt;/Keyboard&gt;`)
	reBulletPrefix = regexp.MustCompile(`^[-*+]\s+`)
)

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		RenderMarkdown(&buf, md)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

type block int

const (
	blockNone block = iota
	blockPara
	blockList
	blockOrdered
	blockQuote
	blockTable
	blockCode
)

// renderer tracks the block element currently open while lines are
// consumed. Only one block is open at a time.
type renderer struct {
	buf       *bytes.Buffer
	open      block
	images    int
	tableBody bool
	codeLang  string
}

// RenderMarkdown writes the HTML representation of md to buf.
func RenderMarkdown(buf *bytes.Buffer, md string) {
	r := &renderer{buf: buf}
	for _, line := range strings.Split(md, "\n") {
		r.line(strings.TrimRight(line, "\r"))
	}
	r.close()
}

func (r *renderer) inline(s string) string {
	return FormatInline(s, &r.images)
}

func (r *renderer) close() {
	switch r.open {
	case blockPara:
		r.buf.WriteString("</p>")
	case blockList:
		r.buf.WriteString("</ul>")
	case blockOrdered:
		r.buf.WriteString("</ol>")
	case blockQuote:
		r.buf.WriteString("</blockquote>")
	case blockTable:
		if r.tableBody {
			r.buf.WriteString("</tbody>")
		}
		r.buf.WriteString("</table>")
	case blockCode:
		r.buf.WriteString("</code></pre>")
		if r.codeLang != "" {
			r.buf.WriteString("</div>")
		}
	}
	r.open = blockNone
	r.tableBody = false
	r.codeLang = ""
}

// enter opens b unless it is already open. It reports whether a new block
// was started.
func (r *renderer) enter(b block, tag string) bool {
	if r.open == b {
		return false
	}
	r.close()
	r.buf.WriteString(tag)
	r.open = b
	return true
}

func (r *renderer) line(line string) {
	if strings.HasPrefix(strings.TrimSpace(line), "```") {
		r.fence(strings.TrimSpace(line)[3:])
		return
	}
	if r.open == blockCode {
		r.buf.WriteString(html.EscapeString(line))
		r.buf.WriteByte('\n')
		return
	}

	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "":
		r.close()
	case strings.HasPrefix(line, "---") && strings.Trim(trimmed, "-") == "":
		r.close()
		r.buf.WriteString("<hr/>")
	case headingLevel(line) > 0:
		r.close()
		r.heading(line)
	case isComponent(line):
		r.close()
		renderComponent(r.buf, trimmed, &r.images)
	case strings.HasPrefix(trimmed, "|"):
		r.tableRow(trimmed)
	case reBulletPrefix.MatchString(line):
		r.enter(blockList, "<ul>")
		r.buf.WriteString("<li>" + r.inline(reBulletPrefix.ReplaceAllString(line, "")) + "</li>")
	case reOrderedItem.MatchString(line):
		r.enter(blockOrdered, "<ol>")
		r.buf.WriteString("<li>" + r.inline(reOrderedItem.ReplaceAllString(line, "")) + "</li>")
	case strings.HasPrefix(line, ">"):
		text := strings.TrimSpace(strings.TrimPrefix(line, ">"))
		if !r.enter(blockQuote, "<blockquote>") {
			r.buf.WriteByte(' ')
		}
		r.buf.WriteString(r.inline(text))
	default:
		r.enter(blockPara, "<p>")
		r.buf.WriteString(r.inline(trimmed) + "\n")
	}
}

func (r *renderer) fence(info string) {
	if r.open == blockCode {
		r.close()
		return
	}
	r.close()
	lang := html.EscapeString(strings.TrimSpace(info))
	if lang == "" {
		r.buf.WriteString(`<pre class="code-block"><code>`)
	} else {
		r.buf.WriteString(`<div class="code-block-wrapper"><span class="code-lang">` + lang + `</span>`)
		r.buf.WriteString(`<pre class="code-block"><code class="language-` + lang + `">`)
	}
	r.open = blockCode
	r.codeLang = lang
}

// heading writes h1 plain and h2..h4 with an anchor id.
func (r *renderer) heading(line string) {
	level := headingLevel(line)
	text := strings.TrimSpace(line[level+1:])
	tag := "h" + strconv.Itoa(level)
	if level == 1 {
		r.buf.WriteString("<h1>")
	} else {
		r.buf.WriteString("<" + tag + ` id="` + HeadingID(text) + `">`)
	}
	r.buf.WriteString(r.inline(text) + "</" + tag + ">")
}

// tableRow handles one pipe table line. The first row of a table is its
// header and the separator row that follows opens the body.
func (r *renderer) tableRow(line string) {
	if r.enter(blockTable, "<table>") {
		r.buf.WriteString("<thead><tr>")
		for _, cell := range tableCells(line) {
			r.buf.WriteString("<th>" + r.inline(cell) + "</th>")
		}
		r.buf.WriteString("</tr></thead>")
		return
	}
	if !r.tableBody {
		r.buf.WriteString("<tbody>")
		r.tableBody = true
	}
	if isTableSeparator(line) {
		return
	}
	r.buf.WriteString("<tr>")
	for _, cell := range tableCells(line) {
		r.buf.WriteString("<td>" + r.inline(cell) + "</td>")
	}
	r.buf.WriteString("</tr>")
}

func tableCells(line string) []string {
	parts := strings.Split(strings.Trim(strings.TrimSpace(line), "|"), "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func isTableSeparator(line string) bool {
	for _, cell := range tableCells(line) {
		if strings.Trim(cell, "-:") != "" {
			return false
		}
	}
	return true
}

// outsideTags applies fn only to text between HTML tags so formatting never
// reaches attribute values.
func outsideTags(s string, fn func(string) string) string {
	var b strings.Builder
	for s != "" {
		lt := strings.IndexByte(s, '<')
		if lt < 0 {
			b.WriteString(fn(s))
			break
		}
		b.WriteString(fn(s[:lt]))
		gt := strings.IndexByte(s[lt:], '>')
		if gt < 0 {
			b.WriteString(s[lt:])
			break
		}
		b.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return b.String()
}

// imgTag builds an image element. The first image of a document is fetched
// with high priority and the rest load lazily.
func imgTag(src, alt string, imageCount *int) string {
	*imageCount++
	load := `loading="lazy"`
	if *imageCount == 1 {
		load = `fetchpriority="high"`
	}
	return `<img ` + load + ` src="` + src + `" alt="` + alt + `" decoding="async"/>`
}

// FormatInline escapes s and applies inline formatting: images, links, code,
// emphasis and <Keyboard> keys.
func FormatInline(s string, imageCount *int) string {
	out := html.EscapeString(s)

	// Code spans are swapped out first so nothing inside them is formatted.
	var spans []string
	out = reInlineCode.ReplaceAllStringFunc(out, func(m string) string {
		spans = append(spans, "<code>"+reInlineCode.FindStringSubmatch(m)[1]+"</code>")
		return "\x00" + strconv.Itoa(len(spans)-1) + "\x00"
	})

	out = reImg.ReplaceAllStringFunc(out, func(m string) string {
		match := reImg.FindStringSubmatch(m)
		src := SafeURL(match[2])
		if src == "" {
			return match[1]
		}
		return imgTag(src, match[1], imageCount)
	})
	out = reLink.ReplaceAllStringFunc(out, func(m string) string {
		match := reLink.FindStringSubmatch(m)
		href := SafeURL(match[2])
		if href == "" {
			return match[1]
		}
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			return `<a href="` + href + `" target="_blank" rel="noopener noreferrer">` + match[1] + `</a>`
		}
		return `<a href="` + href + `">` + match[1] + `</a>`
	})
	out = outsideTags(out, func(seg string) string {
		seg = reBold.ReplaceAllStringFunc(seg, func(m string) string {
			sub := reBold.FindStringSubmatch(m)
			if sub[1] != sub[3] {
				return m
			}
			return "<strong>" + sub[2] + "</strong>"
		})
		return reItalic.ReplaceAllString(seg, "<em>$1$2</em>")
	})
	out = reKeyboard.ReplaceAllString(out, "<kbd>$1</kbd>")

	for i, span := range spans {
		out = strings.Replace(out, "\x00"+strconv.Itoa(i)+"\x00", span, 1)
	}
	return out
}

// SafeURL returns raw escaped for an HTML attribute, or "" when it is not a
// relative path, fragment or http(s)/mailto/tel URL.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		if strings.HasPrefix(val, "//") {
			return ""
		}
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	}
	return ""
}
