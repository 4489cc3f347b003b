package content

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetadataLiteral(t *testing.T) {
	doc := `import { ArticleLayout } from '@/components/ArticleLayout'

export const article = {
  // shown in listings
  author: {
    name: "Perttu Lähteenlahti",
    role: 'Organizer',
    imageUrl: "/developers/perttu.jpg",
    twitter: { handle: '@plahteenlahti' },
    order: 1,
  },
  date: '2024-10-01',
  title: ` + "`Expo Router in practice`" + `,
  description: 'It\'s file based!',
  tags: ['expo', 'routing'], /* ignored */
  draft: false,
  order: 3,
};
`
	m, err := ParseMetadata(doc)
	require.NoError(t, err)
	assert.Equal(t, "Expo Router in practice", m.Title)
	assert.Equal(t, "2024-10-01", m.Date)
	assert.Equal(t, "It's file based!", m.Description)
	assert.Equal(t, Author{Name: "Perttu Lähteenlahti", Role: "Organizer", ImageURL: "/developers/perttu.jpg"}, m.Author)
}

func TestParseMetadataUnicodeEscapes(t *testing.T) {
	m, err := ParseMetadata(`export const article = { title: 'React \u{1F680} Native', description: "\uD83D\uDE00 \u00e4" }`)
	require.NoError(t, err)
	assert.Equal(t, "React 🚀 Native", m.Title)
	assert.Equal(t, "😀 ä", m.Description)

	for _, doc := range []string{
		`export const article = { title: '\u{110000}' }`,
		`export const article = { title: '\u{}' }`,
		`export const article = { title: '\u12' }`,
	} {
		_, err := ParseMetadata(doc)
		assert.Error(t, err, doc)
	}
}

func TestParseMetadataAuthorString(t *testing.T) {
	m, err := ParseMetadata(`export const article = { author: 'Anna Aalto', title: "T" }`)
	require.NoError(t, err)
	assert.Equal(t, Author{Name: "Anna Aalto"}, m.Author)
}

func TestParseMetadataFrontmatter(t *testing.T) {
	doc := "\ufeff---\ntitle: Hermes engine\ndate: 2024-12-01\nauthor:\n  name: Anna Aalto\n  role: Designer\n---\n\nBody\n"
	m, start, end, err := parseMetadata(doc)
	require.NoError(t, err)
	assert.Equal(t, "Hermes engine", m.Title)
	assert.Equal(t, "2024-12-01", m.Date)
	assert.Equal(t, "Designer", m.Author.Role)
	assert.Equal(t, 0, start)
	assert.Equal(t, "\nBody\n", doc[end:])
}

func TestParseMetadataFrontmatterScalarAuthor(t *testing.T) {
	m, err := ParseMetadata("---\ntitle: x\nauthor: Anna Aalto\n---\n")
	require.NoError(t, err)
	assert.Equal(t, "Anna Aalto", m.Author.Name)
}

func TestParseMetadataRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing block", "# Title\n"},
		{"function call", `export const article = { title: getTitle() }`},
		{"identifier reference", `export const article = { title: siteName }`},
		{"interpolation", "export const article = { title: `Hello ${name}` }"},
		{"duplicate key", `export const article = { title: 'a', title: 'b' }`},
		{"unterminated object", `export const article = { title: 'a',`},
		{"unterminated string", `export const article = { title: 'a }`},
		{"newline in string", "export const article = { title: 'a\nb' }"},
		{"spread", `export const article = { ...base }`},
		{"title not a string", `export const article = { title: 42 }`},
		{"author not a string", `export const article = { author: { name: 1 } }`},
		{"author list", `export const article = { author: ['a'] }`},
		{"bad date", `export const article = { date: '10/01/2024' }`},
		{"unknown frontmatter key", "---\ntitle: x\nslug: y\n---\n"},
		{"unknown frontmatter author key", "---\nauthor:\n  twitter: x\n---\n"},
		{"unterminated frontmatter", "---\ntitle: x\n"},
		{"unterminated comment", `export const article = { /* title: 'x' }`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMetadata(tt.doc)
			assert.Error(t, err)
		})
	}
}

func TestParseMetadataErrorHasLine(t *testing.T) {
	_, err := ParseMetadata("export const article = {\n  title: 'ok',\n  date: today(),\n}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2024-10-01", "2024-10-01T18:00:00Z", "2024-10-01T18:00:00+03:00", "2024-10-01T18:00:00", "2024-10-01T18:00"} {
		_, err := ParseDate(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseDate("October 1st")
	assert.Error(t, err)
}

func TestMetadataErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := error(&MetadataError{Path: "articles/en/x/page.mdx", Err: inner})
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "articles/en/x/page.mdx")
}

func TestTitleFromSlug(t *testing.T) {
	assert.Equal(t, "React Native Helsinki", TitleFromSlug("react-native-helsinki"))
	assert.Equal(t, "", TitleFromSlug(""))
}

func TestParseLocaleIsExact(t *testing.T) {
	l, ok := ParseLocale("fi")
	assert.True(t, ok)
	assert.Equal(t, Finnish, l)
	for _, s := range []string{"FI", "fi-FI", "sv", ""} {
		_, ok := ParseLocale(s)
		assert.False(t, ok, s)
	}
}
