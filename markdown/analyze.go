package markdown

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// WordsPerMinute is the reading speed used by ReadingTime.
const WordsPerMinute = 200

// Heading is one entry of an article's table of contents.
type Heading struct {
	Level int
	ID    string
	Text  string
}

func parse(renderedHTML string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(renderedHTML))
}

// PlainText returns the visible text of rendered HTML with code blocks and
// embeds removed and whitespace collapsed.
func PlainText(renderedHTML string) string {
	doc, err := parse(renderedHTML)
	if err != nil {
		return ""
	}
	doc.Find("pre, iframe, .code-lang, figure").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Excerpt returns the first paragraph text of rendered HTML, cut at a word
// boundary so that it is at most n runes long including the trailing
// ellipsis.
func Excerpt(renderedHTML string, n int) string {
	doc, err := parse(renderedHTML)
	if err != nil {
		return ""
	}
	var text string
	doc.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text = strings.Join(strings.Fields(s.Text()), " ")
		return text == ""
	})
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	if n < 1 {
		return ""
	}
	runes := []rune(text)
	cut := string(runes[:n-1])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, ".,;:") + "…"
}

// ReadingTime estimates minutes needed to read rendered HTML. Any non-empty
// text takes at least one minute.
func ReadingTime(renderedHTML string) int {
	words := len(strings.Fields(PlainText(renderedHTML)))
	if words == 0 {
		return 0
	}
	return int(math.Ceil(float64(words) / WordsPerMinute))
}

// TOC lists the h2 to h4 headings of rendered HTML in document order.
func TOC(renderedHTML string) []Heading {
	doc, err := parse(renderedHTML)
	if err != nil {
		return nil
	}
	var out []Heading
	doc.Find("h2[id], h3[id], h4[id]").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		out = append(out, Heading{
			Level: int(goquery.NodeName(s)[1] - '0'),
			ID:    id,
			Text:  strings.TrimSpace(s.Text()),
		})
	})
	return out
}
