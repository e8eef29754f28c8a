package overlay

import (
	"github.com/PuerkitoBio/goquery"
)

const (
	buttonID = "show-hint-button"
	modalID  = "hint-modal"
	bodyID   = "hint-modal-body"
)

// Inject appends the trigger button and the hidden modal to <body>. It reports
// false, and leaves doc alone, when either element already exists or the
// document has no body.
func Inject(doc *goquery.Document) bool {
	if doc.Find("#"+buttonID).Length() > 0 || doc.Find("#"+modalID).Length() > 0 {
		return false
	}
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return false
	}
	body.AppendHtml(RenderButton())
	body.AppendHtml(renderModal(UIState{}))
	return true
}

// Apply writes state into the page, injecting the overlay first if needed.
func Apply(doc *goquery.Document, state UIState) {
	Inject(doc)

	modal := doc.Find("#" + modalID).First()
	if state.Visible {
		modal.SetAttr("style", "display: flex")
	} else {
		modal.SetAttr("style", "display: none")
	}
	modal.Find("#" + bodyID).SetHtml(Render(state))
}
