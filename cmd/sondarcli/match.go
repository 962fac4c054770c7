package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sondar/sondar/pkg/sonar"
)

func newMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <audio-file>",
		Short: "Identify a query clip against the catalogue",
		Args:  cobra.ExactArgs(1),
		RunE:  runMatch,
	}
}

func runMatch(cmd *cobra.Command, args []string) error {
	path := args[0]

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

	matches, err := lib.Identify(samples)
	if err != nil {
		return fmt.Errorf("identifying %s: %w", path, err)
	}

	if len(matches) == 0 {
		color.Yellow("no match found")
		return nil
	}

	for i, m := range matches {
		track, err := store.GetTrack(m.TrackID)
		name := fmt.Sprintf("track %d", m.TrackID)
		if err == nil {
			name = fmt.Sprintf("%s — %s", track.Name, track.Artist)
		}
		color.Cyan("%d. %s  (score=%.3f offset=%d)", i+1, name, m.Score, m.Offset)
	}
	return nil
}
