package content

import (
	"regexp"
	"strings"
)

var (
	reImportFrom     = regexp.MustCompile(`(?m)^import\s+.*?from\s+['"].*?['"];?\s*$`)
	reImportBare     = regexp.MustCompile(`(?m)^import\s+['"].*?['"];?\s*$`)
	reImportAsset    = regexp.MustCompile(`import\s+(\w+)\s+from\s+['"]\./([^'"]+)['"]`)
	reMetadataExport = regexp.MustCompile(`export\s+const\s+metadata\s*=\s*\{`)
	reDefaultArrow   = regexp.MustCompile(`export default \(props\) => \(`)
	reDefaultLine    = regexp.MustCompile(`(?m)^export default.*?;?\s*$`)
	reImageVar       = regexp.MustCompile(`<Image\s+src=\{(\w+)\}`)
	reBlankRuns      = regexp.MustCompile(`\n{3,}`)
)

// processBody turns a raw article document into renderable markup: the
// metadata block, imports and exports are removed and images imported from
// the article directory are rewritten to their public paths.
// metaStart/metaEnd delimit the metadata block found by parseMetadata.
func processBody(doc string, metaStart, metaEnd int, slug string, locale Locale) string {
	assets := make(map[string]string)
	for _, m := range reImportAsset.FindAllStringSubmatch(doc, -1) {
		assets[m[1]] = "/content/articles/" + string(locale) + "/" + slug + "/" + m[2]
	}

	body := doc
	if metaEnd > metaStart {
		body = doc[:metaStart] + strings.TrimLeft(doc[metaEnd:], " \t\r\n")
	}
	body = reImportFrom.ReplaceAllString(body, "")
	body = reImportBare.ReplaceAllString(body, "")
	body = stripBalanced(body, reMetadataExport, '{', '}', 1)
	body = stripBalanced(body, reDefaultArrow, '(', ')', 1)
	body = reDefaultLine.ReplaceAllString(body, "")

	body = reImageVar.ReplaceAllStringFunc(body, func(m string) string {
		name := reImageVar.FindStringSubmatch(m)[1]
		if p, ok := assets[name]; ok {
			return `<Image src="` + p + `"`
		}
		return m
	})

	body = reBlankRuns.ReplaceAllString(body, "\n\n")
	return strings.TrimSpace(body)
}

// stripBalanced removes the first match of re together with everything up to
// the bracket that closes it. depth is the number of brackets already opened
// by the match itself. Brackets inside quoted strings are ignored.
func stripBalanced(s string, re *regexp.Regexp, open, close byte, depth int) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	var quote byte
	end := -1
	for i := loc[1]; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote && s[i-1] != '\\' {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case open:
			depth++
		case close:
			depth--
		}
		if depth == 0 {
			end = i + 1
			break
		}
	}
	if end < 0 {
		return s
	}
	rest := strings.TrimLeft(s[end:], ";")
	return s[:loc[0]] + strings.TrimLeft(rest, " \t\r\n")
}
