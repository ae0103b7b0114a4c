package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/vk/playtraversal/internal/app"
	"github.com/vk/playtraversal/internal/loop"
	"github.com/vk/playtraversal/internal/play"
)

func newRunCommand(flags *globalFlags) *cobra.Command {
	var (
		latentPolicy string
		journalPath  string
		notifyURL    string
		quiet        bool
	)
	cmd := &cobra.Command{
		Use:   "run PROMPT.json",
		Short: "Execute a prompt graph with the play traversal nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var extra []loop.Observer
			if !quiet {
				extra = append(extra, &progress{w: cmd.ErrOrStderr()})
			}
			cfg := app.Config{
				PromptPath:   args[0],
				LatentPolicy: latentPolicy,
				JournalPath:  journalPath,
				NotifyURL:    notifyURL,
			}
			a, err := flags.newApp(cmd, cfg, extra...)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "executed %d nodes\n", len(res.Executed))
			if j := a.Journal(); j != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "journal run %s\n", j.RunID())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&latentPolicy, "latent-policy", "always", "How the close node writes latents: always or when-present")
	cmd.Flags().StringVar(&journalPath, "journal", "", "SQLite file recording runs and batches")
	cmd.Flags().StringVar(&notifyURL, "notify-url", "", "socket.io server receiving loop events")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Hide the progress bar")
	return cmd
}

// progress renders one bar per play.
type progress struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func (p *progress) PlayBuilt(_ context.Context, pl *play.Play, q play.SequenceQueue) {
	p.bar = progressbar.NewOptions(q.Len(),
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription(pl.Title),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
	)
}

func (p *progress) Iteration(_ context.Context, b *play.Batch, _ int) {
	if p.bar == nil {
		return
	}
	p.bar.Describe(b.Filename)
	_ = p.bar.Add(1)
}

func (p *progress) Stopped(context.Context, *play.Play) {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	fmt.Fprintln(p.w)
	p.bar = nil
}
