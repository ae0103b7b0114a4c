package cli

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vk/playtraversal/internal/app"
	"github.com/vk/playtraversal/internal/play"
)

func newPlanCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "plan PLAY.hcl",
		Short: "Print the batch sequence of a play file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.newApp(cmd, app.Config{PlayPath: args[0]})
			if err != nil {
				return err
			}
			defer a.Close()

			p, q, err := a.Plan(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, planTable(q))
			fmt.Fprintln(out, planSummary(p, q))
			return nil
		},
	}
}

func planTable(q play.SequenceQueue) string {
	rows := make([][]string, 0, len(q))
	for _, b := range q {
		rows = append(rows, []string{
			strconv.Itoa(b.IndexPlay),
			b.Filename,
			strconv.Itoa(b.FramesFirst),
			strconv.Itoa(b.FramesLast),
			strconv.Itoa(b.FramesCount),
		})
	}
	return renderTable(
		[]string{"Index", "Filename", "First", "Last", "Frames"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight},
	)
}

func planSummary(p *play.Play, q play.SequenceQueue) string {
	return fmt.Sprintf("%s: %s batches, %s frames, %ss at %s fps",
		p.Title,
		humanize.Comma(int64(q.Len())),
		humanize.Comma(int64(p.FramesCount)),
		humanize.FtoaWithDigits(p.DurationSecs, 2),
		humanize.Ftoa(p.FPS),
	)
}
