package overlay

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/dtnitsch/cp-hints/models"
)

const (
	msgInitial    = "Generating hints for you..."
	msgLoading    = "Getting problem info and generating hints..."
	msgNoProblem  = "Could not extract problem information from this page. Please make sure you are on a valid problem page."
	msgNoHints    = "No hints were generated. Try again."
	iconCollapsed = "+"
	iconExpanded  = "−"
)

var (
	hintSplit  = regexp.MustCompile(`\n\s*\*\s*`)
	leadMarker = regexp.MustCompile(`^\s*\*\s*`)
	hintPrefix = regexp.MustCompile(`(?i)^Hint\s*\d*[:\-]\s*`)
	boldMarkup = regexp.MustCompile(`\*\*(.*?)\*\*`)
	inlineCode = regexp.MustCompile("`(.*?)`")
)

// ParseHints splits the model's bullet list into collapsed panels, numbered
// from 1 in source order. Panel text is escaped before the bold and
// inline-code markup is turned into tags.
func ParseHints(markdown string) []models.HintPanel {
	var panels []models.HintPanel
	for i, segment := range hintSplit.Split(markdown, -1) {
		if i == 0 {
			// Text before the first marker is a preamble, not a hint.
			if !hasLeadMarker(segment) {
				continue
			}
			segment = leadMarker.ReplaceAllString(segment, "")
		}
		if strings.TrimSpace(segment) == "" {
			continue
		}

		text := strings.TrimSpace(hintPrefix.ReplaceAllString(segment, ""))
		text = html.EscapeString(text)
		text = boldMarkup.ReplaceAllString(text, "<strong>$1</strong>")
		text = inlineCode.ReplaceAllString(text, "<code>$1</code>")

		panels = append(panels, models.HintPanel{Index: len(panels) + 1, Text: text})
	}
	return panels
}

// hasLeadMarker reports whether s opens with a "*" bullet rather than a
// "**bold**" run.
func hasLeadMarker(s string) bool {
	s = strings.TrimLeft(s, " \t\r\n")
	return strings.HasPrefix(s, "*") && !strings.HasPrefix(s, "**")
}

// Render returns the modal body for state.
func Render(state UIState) string {
	switch state.Status {
	case Loading:
		return loaderHTML(msgLoading)
	case Error:
		return errorHTML(state.Message)
	case Success:
		if len(state.Panels) == 0 {
			return errorHTML(msgNoHints)
		}
		var b strings.Builder
		for _, p := range state.Panels {
			renderPanel(&b, p)
		}
		return b.String()
	default:
		return loaderHTML(msgInitial)
	}
}

func renderPanel(b *strings.Builder, p models.HintPanel) {
	headerClass, icon, style := "hint-accordion-header", iconCollapsed, ""
	if p.Expanded {
		headerClass += " active"
		icon = iconExpanded
		style = fmt.Sprintf(` style="max-height: %dpx"`, p.Height)
	}
	fmt.Fprintf(b, `<div class="hint-accordion" data-index="%d">`, p.Index)
	fmt.Fprintf(b, `<button class="%s"><span>Hint %d</span><span class="icon">%s</span></button>`, headerClass, p.Index, icon)
	fmt.Fprintf(b, `<div class="hint-accordion-panel"%s><p>%s</p></div>`, style, p.Text)
	b.WriteString(`</div>`)
}

func loaderHTML(msg string) string {
	return `<div class="loader"></div><p>` + html.EscapeString(msg) + `</p>`
}

func errorHTML(msg string) string {
	return `<p class="error">` + html.EscapeString(msg) + `</p>`
}

// RenderButton returns the trigger button.
func RenderButton() string {
	return `<button id="show-hint-button">` +
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" fill="currentColor">` +
		`<path d="M9 21h6v-1H9v1zm3-19a7 7 0 0 0-4 12.74V17a1 1 0 0 0 1 1h6a1 1 0 0 0 1-1v-2.26A7 7 0 0 0 12 2z"/></svg>` +
		`<span>Get Hints</span></button>`
}

// renderModal returns the modal root with its close button, header and the
// body for state.
func renderModal(state UIState) string {
	display := "none"
	if state.Visible {
		display = "flex"
	}
	return `<div id="hint-modal" style="display: ` + display + `">` +
		`<div id="hint-modal-content">` +
		`<button id="hint-modal-close">&times;</button>` +
		`<div id="hint-modal-header"><h2>Hints:</h2></div>` +
		`<div id="hint-modal-body">` + Render(state) + `</div>` +
		`</div></div>`
}
