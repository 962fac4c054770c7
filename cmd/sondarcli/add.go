package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sondar/sondar/pkg/sonar"
)

var (
	addName   string
	addArtist string
)

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <track-id> <audio-file>",
		Short: "Fingerprint an audio file and add it to the catalogue",
		Args:  cobra.ExactArgs(2),
		RunE:  runAdd,
	}
	cmd.Flags().StringVar(&addName, "name", "", "track title")
	cmd.Flags().StringVar(&addArtist, "artist", "", "track artist")
	return cmd
}

func runAdd(cmd *cobra.Command, args []string) error {
	trackID, err := parseTrackID(args[0])
	if err != nil {
		return err
	}
	path := args[1]

	store, file, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	lib, err := sonar.New(store, libraryOptions(cmd, file)...)
	if err != nil {
		return err
	}

	samples, err := loadSamples(path)
	if err != nil {
		return err
	}

	if err := lib.Ingest(trackID, samples); err != nil {
		return fmt.Errorf("ingesting %s: %w", path, err)
	}

	duration := sampleDuration(len(samples), resolvedSampleRate(cmd, file))
	if err := store.AddTrackMetadata(trackID, addName, addArtist, duration); err != nil {
		return fmt.Errorf("saving track metadata: %w", err)
	}

	color.Green("added track %d (%s) from %s", trackID, addName, path)
	return nil
}
