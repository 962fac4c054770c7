package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalogued tracks",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	tracks, err := store.ListTracks()
	if err != nil {
		return err
	}
	if len(tracks) == 0 {
		color.Yellow("catalogue is empty")
		return nil
	}
	for _, t := range tracks {
		fmt.Printf("%d\t%s\t%s\t%s\n", t.ID, t.Name, t.Artist, t.Duration)
	}
	return nil
}
