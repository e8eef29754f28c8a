package hints

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/cp-hints/pkg/overlay"
	"github.com/dtnitsch/cp-hints/pkg/parser"
)

// HintOutput is the --yaml form of a finished request.
type HintOutput struct {
	Status  string            `yaml:"status"`
	Message string            `yaml:"message,omitempty"`
	Hints   []HintOutputPanel `yaml:"hints,omitempty"`
}

type HintOutputPanel struct {
	Index int    `yaml:"index"`
	Text  string `yaml:"text"`
}

func stateOutput(state overlay.UIState) HintOutput {
	out := HintOutput{Status: state.Status.String(), Message: state.Message}
	for _, p := range state.Panels {
		out.Hints = append(out.Hints, HintOutputPanel{Index: p.Index, Text: parser.HTMLToText(p.Text)})
	}
	return out
}

// printState shows each hint in its own box. Failures exit non-zero.
func printState(state overlay.UIState) error {
	switch {
	case state.Status == overlay.Error:
		pterm.Error.Println(state.Message)
		return cli.Exit("", 1)
	case len(state.Panels) == 0:
		pterm.Warning.Println(state.Message)
		return nil
	}

	for _, p := range state.Panels {
		pterm.DefaultBox.
			WithTitle(pterm.Bold.Sprint(fmt.Sprintf("Hint %d", p.Index))).
			Println(parser.HTMLToText(p.Text))
	}
	return nil
}
