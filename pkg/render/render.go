package render

import "github.com/russross/blackfriday"

// ToHTML renders provider output, which is usually markdown, for the
// gallery page.
func ToHTML(text string) string {
	return string(blackfriday.MarkdownCommon([]byte(text)))
}
