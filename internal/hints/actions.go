package hints

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/PuerkitoBio/goquery"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/cp-hints/internal/common"
	"github.com/dtnitsch/cp-hints/models"
	"github.com/dtnitsch/cp-hints/pkg/channel"
	"github.com/dtnitsch/cp-hints/pkg/db"
	"github.com/dtnitsch/cp-hints/pkg/extractors"
	"github.com/dtnitsch/cp-hints/pkg/overlay"
)

// HintsAction runs the whole pipeline for one problem page and prints the
// hints. With --out it also writes the page with the overlay rendered in.
func HintsAction(c *cli.Context) error {
	rt, err := common.Setup(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	page, pageURL, err := rt.LoadPage(c.Context, c.String("url"), c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to load page: %w", err)
	}

	var ch channel.Channel
	if relayURL := c.String("relay"); relayURL != "" {
		ch = channel.NewHTTP(relayURL, rt.Config.RequestTimeout)
		rt.Logger.Debug("using remote relay", "relay", relayURL)
	} else {
		local := channel.NewLocal(rt.NewRelay())
		defer local.Close()
		ch = local
	}

	extractor := &recordingExtractor{
		next:   extractors.NewRegistry(rt.Logger),
		db:     rt.DB,
		logger: rt.Logger,
	}
	controller := overlay.NewController(rt.Logger, extractor, ch, rt.Config.SettleDelay)
	state := controller.Trigger(c.Context, page.Doc, pageURL)

	if c.Bool("open") {
		for i := range state.Panels {
			controller.Toggle(i)
		}
		state = controller.State()
	}

	if out := c.String("out"); out != "" {
		if err := writePage(page.Doc, state, out); err != nil {
			return err
		}
		rt.Logger.Info("page written", "path", out)
	}

	if c.Bool("yaml") {
		return yaml.NewEncoder(os.Stdout).Encode(stateOutput(state))
	}
	return printState(state)
}

// ExtractAction prints the extracted problem as YAML.
func ExtractAction(c *cli.Context) error {
	rt, err := common.Setup(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	page, pageURL, err := rt.LoadPage(c.Context, c.String("url"), c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to load page: %w", err)
	}

	info := extractors.NewRegistry(rt.Logger).Extract(page.Doc, pageURL)
	if info == nil {
		return &models.HintError{
			Kind:    models.ErrExtractionFailure,
			Message: fmt.Sprintf("no problem found at %s", pageURL),
		}
	}
	if _, err := rt.DB.UpsertProblem(pageURL.String(), info); err != nil {
		rt.Logger.Warn("failed to save problem", "error", err)
	}

	encoder := yaml.NewEncoder(os.Stdout)
	defer encoder.Close()
	return encoder.Encode(info)
}

// recordingExtractor saves every extracted problem before handing it on.
type recordingExtractor struct {
	next   overlay.Extractor
	db     *db.DB
	logger *slog.Logger
}

func (r *recordingExtractor) Extract(doc *goquery.Document, pageURL *url.URL) *models.ProblemInfo {
	info := r.next.Extract(doc, pageURL)
	if info != nil && pageURL != nil {
		if _, err := r.db.UpsertProblem(pageURL.String(), info); err != nil {
			r.logger.Warn("failed to save problem", "error", err)
		}
	}
	return info
}

func writePage(doc *goquery.Document, state overlay.UIState, path string) error {
	overlay.Apply(doc, state)
	html, err := goquery.OuterHtml(doc.Selection)
	if err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
