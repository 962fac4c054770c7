package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <track-id>",
		Short: "Remove a track and its landmarks from the catalogue",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}
}

func runDelete(cmd *cobra.Command, args []string) error {
	trackID, err := parseTrackID(args[0])
	if err != nil {
		return err
	}

	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.DeleteTrack(trackID); err != nil {
		return fmt.Errorf("deleting track %d: %w", trackID, err)
	}

	color.Green("deleted track %d", trackID)
	return nil
}
