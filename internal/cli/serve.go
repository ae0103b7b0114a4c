package cli

import (
	"github.com/spf13/cobra"

	"github.com/vk/playtraversal/internal/app"
)

func newServeCommand(flags *globalFlags) *cobra.Command {
	var cfg app.Config
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the backdrop listing, health, metrics and web assets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.newApp(cmd, cfg)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&cfg.HTTPAddr, "addr", ":8188", "Address to listen on")
	cmd.Flags().StringVar(&cfg.WebRoot, "web-root", "", "Directory of web assets served under /web")
	cmd.Flags().StringVar(&cfg.PluginDir, "plugin-dir", "", "Plugin directory whose config.yaml selects the web version")
	cmd.Flags().StringVar(&cfg.PromptPath, "prompt", "", "Prompt file to execute while serving")
	cmd.Flags().StringVar(&cfg.JournalPath, "journal", "", "SQLite file recording runs and batches")
	return cmd
}
