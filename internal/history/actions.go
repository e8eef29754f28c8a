package history

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/cp-hints/internal/common"
)

// HistoryAction lists recent hint requests, newest first.
func HistoryAction(c *cli.Context) error {
	rt, err := common.Setup(c)
	if err != nil {
		return err
	}
	defer rt.Close()

	records, err := rt.DB.ListHintRequests(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list hint requests: %w", err)
	}
	if len(records) == 0 {
		pterm.Info.Println("No hint requests recorded")
		return nil
	}

	rows := pterm.TableData{{"ID", "Created", "Platform", "Title", "Result", "Hints", "Duration"}}
	for _, r := range records {
		result := "ok"
		if !r.Success {
			result = truncate(r.ErrorMessage, 48)
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.RequestID, 10),
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Platform,
			truncate(r.Title, 40),
			result,
			strconv.Itoa(r.HintCount),
			r.Duration.String(),
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		return err
	}
	fmt.Printf("\nTotal: %d requests\n", len(records))
	return nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
