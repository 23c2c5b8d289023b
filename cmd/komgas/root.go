package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kerbaras/komgas/pkg/app"
	"github.com/kerbaras/komgas/pkg/config"
	"github.com/kerbaras/komgas/pkg/host"
	"github.com/kerbaras/komgas/pkg/komga"
	"github.com/kerbaras/komgas/pkg/source"
	"github.com/kerbaras/komgas/pkg/tracker"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "komgas",
	Short: "Browse your Komga server from the terminal",
	Long:  "A Komga content source with a TUI and CLI: search, chapters, pages and read progress",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		if verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		env, err := newEnv()
		cobra.CheckErr(err)
		a := app.NewApp(env.source, env.tracker)
		if err := a.Run(); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// env wires the plugin the way the host runtime would: settings store,
// rate-limited scheduler, client, source and tracker.
type env struct {
	store   *config.FileStore
	client  *komga.Client
	source  *source.Komga
	tracker *tracker.Tracker
}

func newEnv() (*env, error) {
	store, err := config.NewFileStore("")
	if err != nil {
		return nil, err
	}
	scheduler := host.NewRateLimited(4, 30*time.Second)
	client := komga.NewClient(store, scheduler)
	return &env{
		store:   store,
		client:  client,
		source:  source.NewKomga(client, store),
		tracker: tracker.New(client),
	}, nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
