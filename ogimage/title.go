package ogimage

import "strings"

// SplitTitle breaks a headline into display lines by word count alone:
// up to three words stay on one line, four or five are split in two at
// ceil(n/2), and longer titles are split into thirds of ceil(n/3) words.
// Long single words are not wrapped.
func SplitTitle(title string) []string {
	words := strings.Fields(title)
	n := len(words)
	switch {
	case n <= 3:
		return []string{strings.Join(words, " ")}
	case n <= 5:
		mid := (n + 1) / 2
		return []string{
			strings.Join(words[:mid], " "),
			strings.Join(words[mid:], " "),
		}
	}
	third := (n + 2) / 3
	return []string{
		strings.Join(words[:third], " "),
		strings.Join(words[third:2*third], " "),
		strings.Join(words[2*third:], " "),
	}
}
