// Package markdown converts model responses into HTML. It understands a
// fixed handful of constructs (## and ### headings, **bold**, `code` and
// "* " list items) and nothing else; everything else is emitted as
// escaped literal text.
package markdown

import (
	"html"
	"regexp"
	"strings"
)

var (
	h2Re   = regexp.MustCompile(`^## (.*)$`)
	h3Re   = regexp.MustCompile(`^### (.*)$`)
	boldRe = regexp.MustCompile(`\*\*(.*?)\*\*`)
	codeRe = regexp.MustCompile("`([^`]+)`")
	listRe = regexp.MustCompile(`^\* (.*)$`)
)

const (
	h2Tag   = `<h2 class="summary-h2">$1</h2>`
	h3Tag   = `<h3 class="summary-h3">$1</h3>`
	boldTag = `<strong>$1</strong>`
	codeTag = `<code class="summary-code">$1</code>`
	itemTag = `<li class="summary-li">$1</li>`
	lineBrk = "<br />"
)

// ToHTML converts text line by line. Blank lines become <br />, other lines
// are trimmed, and runs of list items share one <ul>.
func ToHTML(text string) string {
	var b strings.Builder
	inList := false

	for _, raw := range strings.Split(text, "\n") {
		line, isItem := convertLine(raw)

		if isItem && !inList {
			b.WriteString("<ul>")
			inList = true
		} else if !isItem && inList {
			b.WriteString("</ul>")
			inList = false
		}

		if strings.TrimSpace(line) == "" {
			b.WriteString(lineBrk)
			continue
		}
		b.WriteString(strings.TrimSpace(line))
	}

	if inList {
		b.WriteString("</ul>")
	}
	return b.String()
}

func convertLine(raw string) (string, bool) {
	line := html.EscapeString(strings.TrimRight(raw, "\r"))

	line = h2Re.ReplaceAllString(line, h2Tag)
	line = h3Re.ReplaceAllString(line, h3Tag)
	line = boldRe.ReplaceAllString(line, boldTag)
	line = codeRe.ReplaceAllString(line, codeTag)

	if !listRe.MatchString(line) {
		return line, false
	}
	return listRe.ReplaceAllString(line, itemTag), true
}
