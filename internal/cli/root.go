// Package cli provides the model-browser command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/spf13/cobra"

	"jan-server/services/model-browser/internal/client"
	"jan-server/services/model-browser/internal/domain/catalog"
)

// Version is set at build time.
var Version = "0.1.0"

// Settings are read from the environment and may be overridden by flags.
type Settings struct {
	URL     string        `env:"MODEL_BROWSER_URL" envDefault:"http://localhost:8186"`
	Token   string        `env:"MODEL_BROWSER_TOKEN"`
	WebURL  string        `env:"MODEL_BROWSER_WEB_URL"`
	Timeout time.Duration `env:"MODEL_BROWSER_TIMEOUT" envDefault:"10s"`
}

// API is the part of the HTTP client the commands need.
type API interface {
	Search(ctx context.Context, term string, limit int) ([]catalog.Row, error)
	Open(ctx context.Context, model string) (*catalog.ActionDefinition, error)
}

type rootOptions struct {
	settings Settings
	newAPI   func(Settings) API
}

// NewRootCommand builds the command tree. Without a subcommand it starts the interactive browser.
func NewRootCommand() *cobra.Command {
	return newRootCommand(func(s Settings) API {
		return client.New(s.URL, s.Token, s.Timeout)
	})
}

func newRootCommand(newAPI func(Settings) API) *cobra.Command {
	opts := &rootOptions{newAPI: newAPI}

	cmd := &cobra.Command{
		Use:   "model-browser",
		Short: "Search registered data models and open their list views",
		Long: `model-browser searches every data model registered in the platform and
jumps to that model's default list view.

Run without arguments for the interactive browser, or use the search and
open subcommands from scripts.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, opts, browseLimit)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.settings.URL, "url", "", "model browser API base URL (env MODEL_BROWSER_URL)")
	flags.StringVar(&opts.settings.Token, "token", "", "bearer token (env MODEL_BROWSER_TOKEN)")
	flags.StringVar(&opts.settings.WebURL, "web-url", "", "web client base URL used to print action links (env MODEL_BROWSER_WEB_URL)")

	cmd.AddCommand(newBrowseCommand(opts))
	cmd.AddCommand(newSearchCommand(opts))
	cmd.AddCommand(newOpenCommand(opts))
	return cmd
}

// load merges environment settings under explicitly set flags.
func (o *rootOptions) load(cmd *cobra.Command) error {
	var fromEnv Settings
	if err := env.Parse(&fromEnv); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	flags := cmd.Flags()
	if !flags.Changed("url") {
		o.settings.URL = fromEnv.URL
	}
	if !flags.Changed("token") {
		o.settings.Token = fromEnv.Token
	}
	if !flags.Changed("web-url") {
		o.settings.WebURL = fromEnv.WebURL
	}
	o.settings.Timeout = fromEnv.Timeout
	return nil
}

func (o *rootOptions) api() API {
	return o.newAPI(o.settings)
}

// printNavigation reports where a resolved action leads.
func printNavigation(out io.Writer, settings Settings, def *catalog.ActionDefinition) {
	fmt.Fprintf(out, "Opening %s (%s) with action %d [%s]\n", def.Name, def.ResModel, def.ID, def.ViewMode)
	if settings.WebURL != "" {
		fmt.Fprintln(out, client.ActionURL(settings.WebURL, def.ID))
	}
}
