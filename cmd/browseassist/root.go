package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/browseassist/internal/app"
)

// options collects the persistent flags shared by every subcommand.
type options struct {
	cfg        app.Config
	configPath string
	envFiles   []string
	jsonOut    bool
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "browseassist",
		Short:         "Browser assistant backend",
		Long:          "browseassist answers chat, writing, search and research requests for the browser extension.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.resolve()
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&o.configPath, "config", "", "YAML or JSON config file")
	f.StringSliceVar(&o.envFiles, "env-file", []string{".env"}, "dotenv files loaded before reading the environment")
	f.BoolVar(&o.jsonOut, "json", false, "print the raw response as JSON")
	f.BoolVarP(&o.cfg.Verbose, "verbose", "v", false, "verbose logging")

	f.StringVar(&o.cfg.SettingsPath, "settings", "", "settings file (default is the XDG config dir)")
	f.StringVar(&o.cfg.LLMBaseURL, "llm.base", "", "override the OpenAI-compatible base URL")
	f.StringVar(&o.cfg.LLMModel, "llm.model", "", "override the model name")
	f.StringVar(&o.cfg.LLMAPIKey, "llm.key", "", "override the API key")

	f.StringVar(&o.cfg.SearchEngine, "search.engine", "", "google, bing, duckduckgo, searxng or file")
	f.StringVar(&o.cfg.SearxURL, "searx.url", "", "SearxNG base URL")
	f.StringVar(&o.cfg.SearxKey, "searx.key", "", "SearxNG API key (optional)")
	f.StringVar(&o.cfg.SearxUA, "searx.ua", "", "User-Agent for SearxNG requests")
	f.StringVar(&o.cfg.FileSearchPath, "search.file", "", "JSON file for the offline search provider")

	f.StringVar(&o.cfg.UserAgent, "fetch.userAgent", "", "User-Agent for page and result fetches")
	f.DurationVar(&o.cfg.HTTPTimeout, "fetch.timeout", 0, "per-request fetch timeout")
	f.IntVar(&o.cfg.MaxAttempts, "fetch.maxAttempts", 0, "fetch attempts per URL")
	f.IntVar(&o.cfg.MaxConcurrent, "fetch.maxConcurrent", 0, "concurrent page fetches")

	f.StringVar(&o.cfg.CacheDir, "cache.dir", "", "cache directory; empty disables caching")
	f.DurationVar(&o.cfg.CacheMaxAge, "cache.maxAge", 0, "purge cache entries older than this; 0 disables")
	f.BoolVar(&o.cfg.CacheClear, "cache.clear", false, "clear the cache directory on start")
	f.BoolVar(&o.cfg.CacheStrictPerms, "cache.strictPerms", false, "restrict cache permissions (0700 dirs, 0600 files)")

	root.AddCommand(
		newServeCmd(o),
		newChatCmd(o),
		newAskCmd(o),
		newWriteCmd(o),
		newTranslateCmd(o),
		newOCRCmd(o),
		newSearchCmd(o),
		newReadCmd(o),
		newResearchCmd(o),
		newVisitCmd(o),
		newValidateCmd(o),
		newSettingsCmd(o),
		newVersionCmd(),
	)
	return root
}

// resolve layers dotenv files, the environment and the config file under
// the explicit flags, then sets the log level.
func (o *options) resolve() error {
	if err := app.LoadEnvFiles(o.envFiles...); err != nil {
		return err
	}
	app.ApplyEnvToConfig(&o.cfg)
	if o.configPath != "" {
		fc, err := app.LoadConfigFile(o.configPath)
		if err != nil {
			return err
		}
		app.ApplyFileConfig(&o.cfg, fc)
	}
	if o.cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	return nil
}
