// Package mvc holds one bubbletea model per page. Pages navigate by
// returning the next page's initial model from Update; network work
// happens only inside tea.Cmd closures that come back as typed messages.
package mvc

import (
	"html"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/term"
)

var (
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#000")).Background(lipgloss.Color("#FFF"))
	authorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff8"))
	categoryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#45f"))
	faintStyle    = lipgloss.NewStyle().Faint(true)
)

// htmlPolicy strips every tag: post bodies arrive as HTML from the
// rich-text editor and the terminal renders text only.
var htmlPolicy = bluemonday.StrictPolicy()

func plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(htmlPolicy.Sanitize(s)))
}

// wrapWords reflows text to maxLen columns, splitting on spaces only.
func wrapWords(text string, maxLen int) string {
	var s string
	curLen := 0
	for _, word := range strings.Fields(text) {
		wordLen := len(word)
		if wordLen >= maxLen {
			s += "\n" + word + "\n"
			curLen = 0
			continue
		}

		if curLen+wordLen > maxLen {
			s += "\n" + word
			curLen = wordLen
			continue
		}

		if curLen > 0 {
			s += " "
			curLen++
		}
		s += word
		curLen += wordLen
	}
	return s
}

// padToBottom fills the view with blank lines so short pages do not
// jump around when the info line appears and disappears.
func padToBottom(s string, lines int) string {
	_, y, err := term.GetSize(0)
	if err != nil {
		return s
	}
	for i := 0; i < y-lines; i++ {
		s += "\n"
	}
	return s
}
