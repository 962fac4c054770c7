// Command sondarcli is the offline CLI surface over the sonar fingerprinting
// library: ingest tracks, identify a query clip, and inspect the catalogue.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sondar/sondar/internal/config"
	"github.com/sondar/sondar/pkg/sonarlog"
)

var (
	dbPath     string
	configPath string
	sampleRate int
	log        = sonarlog.Get()
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sondarcli",
		Short: "Landmark-based acoustic fingerprinting and matching",
	}

	cmd.PersistentFlags().StringVar(&dbPath, "db", "sondar.sqlite3", "path to the SQLite catalogue/index (used when --config doesn't set storage)")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (storage driver, pipeline overrides)")
	cmd.PersistentFlags().IntVar(&sampleRate, "sample-rate", 22050, "sample rate assumed for fingerprinting; formats other than wav/mp3/flac are resampled to it by ffmpeg")

	config.LoadEnv(".env")

	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newIngestCmd())
	cmd.AddCommand(newMatchCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newDeleteCmd())

	return cmd
}
