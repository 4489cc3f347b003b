package content

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

var reArticleExport = regexp.MustCompile(`export\s+const\s+article\s*=\s*\{`)

var errNoMetadata = errors.New("no metadata block")

// Author is the byline of an article. Documents may give either a bare name
// or an object; a bare name fills Name only.
type Author struct {
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Href     string `json:"href,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

var authorKeys = []string{"name", "role", "href", "imageUrl"}

// set assigns a known author field and reports whether key was known.
func (a *Author) set(key, value string) bool {
	switch key {
	case "name":
		a.Name = value
	case "role":
		a.Role = value
	case "href":
		a.Href = value
	case "imageUrl":
		a.ImageURL = value
	default:
		return false
	}
	return true
}

// UnmarshalYAML accepts a scalar name or a mapping of the known author fields.
func (a *Author) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		a.Name = n.Value
		return nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if v.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: author.%s must be a string", v.Line, k.Value)
			}
			if !a.set(k.Value, v.Value) {
				return fmt.Errorf("line %d: field %s not found in author", k.Line, k.Value)
			}
		}
		return nil
	}
	return fmt.Errorf("line %d: author must be a string or a mapping", n.Line)
}

// Metadata is the typed metadata block embedded at the top of an article.
type Metadata struct {
	Title       string `yaml:"title"`
	Date        string `yaml:"date"`
	Description string `yaml:"description"`
	Author      Author `yaml:"author"`
}

func (m Metadata) validate() error {
	if m.Date == "" {
		return nil
	}
	if _, err := ParseDate(m.Date); err != nil {
		return fmt.Errorf("date %q: %w", m.Date, err)
	}
	return nil
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate parses an ISO-8601 calendar date or date-time. Values without a
// zone are read as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("not an ISO-8601 date")
}

// ParseMetadata extracts the metadata block of an article document. Two
// forms are accepted: a leading YAML frontmatter block, or an
// `export const article = {...}` object literal. The literal is parsed with a
// restricted grammar and never evaluated.
func ParseMetadata(doc string) (Metadata, error) {
	m, _, _, err := parseMetadata(doc)
	return m, err
}

// parseMetadata also returns the byte range occupied by the block.
func parseMetadata(doc string) (Metadata, int, int, error) {
	block, end, ok, err := frontmatter(doc)
	if err != nil {
		return Metadata{}, 0, 0, err
	}
	if ok {
		m, err := decodeFrontmatter(block)
		if err == nil {
			err = m.validate()
		}
		return m, 0, end, err
	}

	loc := reArticleExport.FindStringIndex(doc)
	if loc == nil {
		return Metadata{}, 0, 0, errNoMetadata
	}
	p := &literal{src: doc, pos: loc[1] - 1}
	obj, err := p.object()
	if err != nil {
		return Metadata{}, 0, 0, err
	}
	end = p.pos
	for end < len(doc) && (doc[end] == ' ' || doc[end] == '\t') {
		end++
	}
	if end < len(doc) && doc[end] == ';' {
		end++
	} else {
		end = p.pos
	}
	m, err := metadataFromLiteral(obj)
	if err == nil {
		err = m.validate()
	}
	return m, loc[0], end, err
}

// frontmatter returns the YAML between a leading "---" line and the next
// "---" line, and the offset just past the closing line.
func frontmatter(doc string) (string, int, bool, error) {
	rest := strings.TrimPrefix(doc, "\ufeff")
	offset := len(doc) - len(rest)
	first, _, _ := strings.Cut(rest, "\n")
	if strings.TrimRight(first, "\r") != "---" {
		return "", 0, false, nil
	}
	start := len(first) + 1
	if start > len(rest) {
		return "", 0, false, errors.New("unterminated frontmatter")
	}
	body := rest[start:]
	idx := 0
	for {
		lineEnd := strings.IndexByte(body[idx:], '\n')
		line := body[idx:]
		if lineEnd >= 0 {
			line = body[idx : idx+lineEnd]
		}
		if strings.TrimRight(line, "\r") == "---" {
			end := offset + start + idx + len(line)
			if lineEnd >= 0 {
				end++
			}
			return body[:idx], end, true, nil
		}
		if lineEnd < 0 {
			return "", 0, false, errors.New("unterminated frontmatter")
		}
		idx += lineEnd + 1
	}
}

func decodeFrontmatter(block string) (Metadata, error) {
	var m Metadata
	dec := yaml.NewDecoder(strings.NewReader(block))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return Metadata{}, fmt.Errorf("frontmatter: %w", err)
	}
	return m, nil
}

func metadataFromLiteral(obj map[string]any) (Metadata, error) {
	var m Metadata
	fields := []struct {
		key string
		dst *string
	}{
		{"title", &m.Title},
		{"date", &m.Date},
		{"description", &m.Description},
	}
	for _, f := range fields {
		switch v := obj[f.key].(type) {
		case nil:
		case string:
			*f.dst = v
		default:
			return Metadata{}, fmt.Errorf("%s must be a string, got %T", f.key, v)
		}
	}

	switch a := obj["author"].(type) {
	case nil:
	case string:
		m.Author.Name = a
	case map[string]any:
		for _, k := range authorKeys {
			switch v := a[k].(type) {
			case nil:
			case string:
				m.Author.set(k, v)
			default:
				return Metadata{}, fmt.Errorf("author.%s must be a string, got %T", k, v)
			}
		}
	default:
		return Metadata{}, fmt.Errorf("author must be a string or an object, got %T", a)
	}
	return m, nil
}

// literal parses the subset of JavaScript object-literal syntax used by
// article documents: string, number, boolean and null values, nested
// objects and arrays, comments and trailing commas.
type literal struct {
	src string
	pos int
}

func (p *literal) errorf(format string, args ...any) error {
	line := 1 + strings.Count(p.src[:p.pos], "\n")
	return fmt.Errorf("line %d: %s", line, fmt.Sprintf(format, args...))
}

func (p *literal) skipSpace() error {
	for p.pos < len(p.src) {
		rest := p.src[p.pos:]
		switch {
		case rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\n' || rest[0] == '\r':
			p.pos++
		case strings.HasPrefix(rest, "//"):
			nl := strings.IndexByte(rest, '\n')
			if nl < 0 {
				p.pos = len(p.src)
			} else {
				p.pos += nl + 1
			}
		case strings.HasPrefix(rest, "/*"):
			end := strings.Index(rest[2:], "*/")
			if end < 0 {
				return p.errorf("unterminated comment")
			}
			p.pos += end + 4
		default:
			return nil
		}
	}
	return nil
}

func (p *literal) value() (any, error) {
	if err := p.skipSpace(); err != nil {
		return nil, err
	}
	if p.pos >= len(p.src) {
		return nil, p.errorf("unexpected end of input")
	}
	c := p.src[p.pos]
	switch {
	case c == '{':
		return p.object()
	case c == '[':
		return p.array()
	case c == '\'' || c == '"' || c == '`':
		return p.str()
	case c == '-' || (c >= '0' && c <= '9'):
		return p.number()
	}
	word := p.ident()
	switch word {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null", "undefined":
		return nil, nil
	case "":
		return nil, p.errorf("unexpected %q", c)
	}
	return nil, p.errorf("unsupported expression %q", word)
}

func (p *literal) object() (map[string]any, error) {
	p.pos++ // {
	obj := make(map[string]any)
	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated object")
		}
		if p.src[p.pos] == '}' {
			p.pos++
			return obj, nil
		}
		key, err := p.key()
		if err != nil {
			return nil, err
		}
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.pos >= len(p.src) || p.src[p.pos] != ':' {
			return nil, p.errorf("expected ':' after key %q", key)
		}
		p.pos++
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		if _, dup := obj[key]; dup {
			return nil, p.errorf("duplicate key %q", key)
		}
		obj[key] = v
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated object")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return obj, nil
		default:
			return nil, p.errorf("expected ',' or '}', got %q", p.src[p.pos])
		}
	}
}

func (p *literal) array() ([]any, error) {
	p.pos++ // [
	var arr []any
	for {
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated array")
		}
		if p.src[p.pos] == ']' {
			p.pos++
			return arr, nil
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
		if err := p.skipSpace(); err != nil {
			return nil, err
		}
		if p.pos >= len(p.src) {
			return nil, p.errorf("unterminated array")
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return arr, nil
		default:
			return nil, p.errorf("expected ',' or ']', got %q", p.src[p.pos])
		}
	}
}

func (p *literal) key() (string, error) {
	c := p.src[p.pos]
	if c == '\'' || c == '"' {
		return p.str()
	}
	if k := p.ident(); k != "" {
		return k, nil
	}
	return "", p.errorf("expected property name, got %q", c)
}

func isIdentByte(c byte, first bool) bool {
	switch {
	case c == '_' || c == '$':
		return true
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return !first
	}
	return false
}

func (p *literal) ident() string {
	start := p.pos
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos], p.pos == start) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *literal) number() (float64, error) {
	start := p.pos
	for p.pos < len(p.src) && strings.IndexByte("0123456789+-.eE", p.src[p.pos]) >= 0 {
		p.pos++
	}
	text := p.src[start:p.pos]
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		p.pos = start
		return 0, p.errorf("invalid number %q", text)
	}
	return f, nil
}

func (p *literal) str() (string, error) {
	quote := p.src[p.pos]
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\\':
			if p.pos+1 >= len(p.src) {
				return "", p.errorf("unterminated string")
			}
			if err := p.escape(&b); err != nil {
				return "", err
			}
		case c == '\n' && quote != '`':
			return "", p.errorf("newline in string literal")
		case c == '$' && quote == '`' && strings.HasPrefix(p.src[p.pos:], "${"):
			return "", p.errorf("template interpolation is not allowed")
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorf("unterminated string")
}

func (p *literal) escape(b *strings.Builder) error {
	e := p.src[p.pos+1]
	p.pos += 2
	switch e {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case '\n':
		// line continuation
	case 'u':
		r, err := p.codePoint()
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) && strings.HasPrefix(p.src[p.pos:], `\u`) {
			save := p.pos
			p.pos += 2
			if lo, err := p.codePoint(); err == nil && utf16.DecodeRune(r, lo) != utf8.RuneError {
				r = utf16.DecodeRune(r, lo)
			} else {
				p.pos = save
			}
		}
		b.WriteRune(r)
	default:
		b.WriteByte(e)
	}
	return nil
}

// codePoint reads the hex digits of a \u escape: four digits or the
// braced \u{...} form.
func (p *literal) codePoint() (rune, error) {
	var digits string
	if strings.HasPrefix(p.src[p.pos:], "{") {
		end := strings.IndexByte(p.src[p.pos:], '}')
		if end < 2 || end > 7 {
			return 0, p.errorf("invalid unicode escape")
		}
		digits = p.src[p.pos+1 : p.pos+end]
		p.pos += end + 1
	} else {
		if p.pos+4 > len(p.src) {
			return 0, p.errorf("truncated unicode escape")
		}
		digits = p.src[p.pos : p.pos+4]
		p.pos += 4
	}
	r, err := strconv.ParseUint(digits, 16, 32)
	if err != nil || r > unicode.MaxRune {
		return 0, p.errorf("invalid unicode escape %q", digits)
	}
	return rune(r), nil
}
