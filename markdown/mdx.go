package markdown

import (
	"bytes"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	reComponent = regexp.MustCompile(`^</?(Image|YouTubeEmbed|Callout)\b`)
	reAttr      = regexp.MustCompile(`(\w+)=(?:"([^"]*)"|'([^']*)'|\{([^}]*)\})`)
	reQuoted    = regexp.MustCompile(`["']([^"']+)["']`)
)

func headingLevel(line string) int {
	n := 0
	for n < len(line) && n < 4 && line[n] == '#' {
		n++
	}
	if n == 0 || n >= len(line) || line[n] != ' ' {
		return 0
	}
	return n
}

// HeadingID derives the anchor id of a heading from its text.
func HeadingID(text string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == 'ä', r == 'ö', r == 'å':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func isComponent(line string) bool {
	return reComponent.MatchString(strings.TrimSpace(line))
}

func attrs(tag string) map[string]string {
	out := make(map[string]string)
	for _, m := range reAttr.FindAllStringSubmatch(tag, -1) {
		switch m[0][len(m[1])+1] {
		case '"':
			out[m[1]] = m[2]
		case '\'':
			out[m[1]] = m[3]
		default:
			out[m[1]] = strings.TrimSpace(m[4])
		}
	}
	return out
}

// renderComponent writes the HTML for a single-line MDX component. Unknown
// or malformed components are escaped and shown as text.
func renderComponent(buf *bytes.Buffer, line string, imageCount *int) {
	name := reComponent.FindStringSubmatch(line)[1]
	closing := strings.HasPrefix(line, "</")
	a := attrs(line)

	switch {
	case name == "Callout" && closing:
		buf.WriteString("</aside>")
	case name == "Callout":
		kind := a["type"]
		if kind == "" {
			kind = "note"
		}
		buf.WriteString(`<aside class="callout callout-` + html.EscapeString(kind) + `">`)
		open, inner, ok := strings.Cut(line, ">")
		if ok && !strings.HasSuffix(open, "/") {
			inner = strings.TrimSuffix(strings.TrimSpace(inner), "</Callout>")
			if inner != "" {
				buf.WriteString("<p>" + FormatInline(inner, imageCount) + "</p>")
			}
			if strings.HasSuffix(line, "</Callout>") {
				buf.WriteString("</aside>")
			}
		}
	case name == "Image":
		src := SafeURL(a["src"])
		if src == "" {
			buf.WriteString("<p>" + html.EscapeString(line) + "</p>")
			return
		}
		*imageCount++
		loadAttr := `loading="lazy"`
		if *imageCount == 1 {
			loadAttr = `fetchpriority="high"`
		}
		buf.WriteString(`<figure><img ` + loadAttr + ` src="` + src + `" alt="` + html.EscapeString(a["alt"]) + `"`)
		for _, dim := range []string{"width", "height"} {
			if v, err := strconv.Atoi(a[dim]); err == nil && v > 0 {
				buf.WriteString(` ` + dim + `="` + strconv.Itoa(v) + `"`)
			}
		}
		buf.WriteString(` decoding="async"/>`)
		if caption := a["caption"]; caption != "" {
			buf.WriteString("<figcaption>" + html.EscapeString(caption) + "</figcaption>")
		}
		buf.WriteString("</figure>")
	case name == "YouTubeEmbed":
		var ids []string
		if id := a["id"]; id != "" {
			ids = append(ids, id)
		}
		for _, m := range reQuoted.FindAllStringSubmatch(a["videos"], -1) {
			ids = append(ids, m[1])
		}
		buf.WriteString(`<div class="youtube-embed">`)
		for _, id := range ids {
			buf.WriteString(`<div class="aspect-video"><iframe src="https://www.youtube.com/embed/` + url.PathEscape(id) +
				`" title="YouTube video player" allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture" allowfullscreen loading="lazy"></iframe></div>`)
		}
		buf.WriteString("</div>")
	}
}
