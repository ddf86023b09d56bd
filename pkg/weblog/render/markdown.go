package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	reInlineCode = regexp.MustCompile("`([^`]+)`")
	reBold       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reItalic     = regexp.MustCompile(`\*([^*]+)\*`)
	reLink       = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]+)\)`)
	reOrdered    = regexp.MustCompile(`^\d+\.\s+`)
)

// Markdown renders a safe subset of Markdown: headings, paragraphs,
// lists, fenced code, blockquotes and inline bold/italic/code/links.
// Source text is HTML-escaped before any markup is applied, so raw
// HTML in the input never reaches the output.
type Markdown struct{}

func (Markdown) Render(raw string) string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	var blocks []string

	i := 0
	for i < len(lines) {
		trimmed := strings.TrimSpace(lines[i])
		switch {
		case trimmed == "":
			i++
		case strings.HasPrefix(trimmed, "```"):
			var code []string
			i++
			for i < len(lines) && !strings.HasPrefix(strings.TrimSpace(lines[i]), "```") {
				code = append(code, lines[i])
				i++
			}
			if i < len(lines) {
				i++ // closing fence
			}
			blocks = append(blocks, "<pre><code>"+html.EscapeString(strings.Join(code, "\n"))+"</code></pre>")
		case headingLevel(trimmed) > 0:
			lvl := headingLevel(trimmed)
			text := strings.TrimSpace(trimmed[lvl:])
			blocks = append(blocks, fmt.Sprintf("<h%d>%s</h%d>", lvl, formatInline(text), lvl))
			i++
		case strings.HasPrefix(trimmed, "> "):
			var quote []string
			for i < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[i]), "> ") {
				quote = append(quote, strings.TrimPrefix(strings.TrimSpace(lines[i]), "> "))
				i++
			}
			blocks = append(blocks, "<blockquote><p>"+formatInline(strings.Join(quote, " "))+"</p></blockquote>")
		case isListItem(trimmed):
			var items []string
			for i < len(lines) && isListItem(strings.TrimSpace(lines[i])) {
				t := strings.TrimSpace(lines[i])
				items = append(items, "<li>"+formatInline(t[2:])+"</li>")
				i++
			}
			blocks = append(blocks, "<ul>"+strings.Join(items, "")+"</ul>")
		case reOrdered.MatchString(trimmed):
			var items []string
			for i < len(lines) && reOrdered.MatchString(strings.TrimSpace(lines[i])) {
				t := strings.TrimSpace(lines[i])
				items = append(items, "<li>"+formatInline(reOrdered.ReplaceAllString(t, ""))+"</li>")
				i++
			}
			blocks = append(blocks, "<ol>"+strings.Join(items, "")+"</ol>")
		default:
			var para []string
			for i < len(lines) {
				t := strings.TrimSpace(lines[i])
				if t == "" || blockStart(t) {
					break
				}
				para = append(para, t)
				i++
			}
			blocks = append(blocks, "<p>"+formatInline(strings.Join(para, " "))+"</p>")
		}
	}

	return strings.Join(blocks, "\n")
}

func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n > 6 || n >= len(line) || line[n] != ' ' {
		return 0
	}
	return n
}

func isListItem(line string) bool {
	return strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* ")
}

func blockStart(line string) bool {
	return headingLevel(line) > 0 ||
		strings.HasPrefix(line, "```") ||
		strings.HasPrefix(line, "> ") ||
		isListItem(line) ||
		reOrdered.MatchString(line)
}

// formatInline escapes text and applies inline markup: code spans,
// bold, italic and links, in that order.
func formatInline(text string) string {
	s := html.EscapeString(text)
	s = reInlineCode.ReplaceAllString(s, "<code>$1</code>")
	s = reBold.ReplaceAllString(s, "<strong>$1</strong>")
	s = reItalic.ReplaceAllString(s, "<em>$1</em>")
	s = reLink.ReplaceAllString(s, `<a href="$2">$1</a>`)
	return s
}
