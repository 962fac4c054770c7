package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/sondar/sondar/pkg/sonar"
	"github.com/sondar/sondar/pkg/sonar/index"
)

var ingestWorkers int

var audioExts = map[string]bool{
	".wav": true, ".mp3": true, ".flac": true, ".m4a": true, ".ogg": true,
}

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <directory>",
		Short: "Fingerprint every audio file under a directory and add them to the catalogue",
		Args:  cobra.ExactArgs(1),
		RunE:  runIngest,
	}
	cmd.Flags().IntVar(&ingestWorkers, "workers", 4, "number of concurrent fingerprinting workers")
	return cmd
}

type ingestJob struct {
	trackID uint32
	path    string
}

type ingestResult struct {
	job ingestJob
	err error
}

func runIngest(cmd *cobra.Command, args []string) error {
	dir := args[0]

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if audioExts[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		color.Yellow("no audio files found under %s", dir)
		return nil
	}

	store, file, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	existing, err := store.ListTracks()
	if err != nil {
		return err
	}
	nextID := uint32(1)
	for _, t := range existing {
		if t.ID >= nextID {
			nextID = t.ID + 1
		}
	}

	jobs := make(chan ingestJob)
	results := make(chan ingestResult)

	workers := ingestWorkers
	if workers < 1 {
		workers = 1
	}

	opts := libraryOptions(cmd, file)
	rate := resolvedSampleRate(cmd, file)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ingestWorker(store, opts, rate, jobs, results)
		}()
	}

	go func() {
		for i, p := range paths {
			jobs <- ingestJob{trackID: nextID + uint32(i), path: p}
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	bar := progressbar.Default(int64(len(paths)), "ingesting")
	var failed int
	for r := range results {
		bar.Add(1)
		if r.err != nil {
			failed++
			color.Red("\n%s: %v", r.job.path, r.err)
		}
	}

	color.Green("ingested %d/%d files", len(paths)-failed, len(paths))
	return nil
}

func ingestWorker(store index.Store, opts []sonar.Option, rate int, jobs <-chan ingestJob, results chan<- ingestResult) {
	lib, err := sonar.New(store, opts...)
	if err != nil {
		for j := range jobs {
			results <- ingestResult{job: j, err: err}
		}
		return
	}

	for j := range jobs {
		samples, err := loadSamples(j.path)
		if err == nil {
			err = lib.Ingest(j.trackID, samples)
		}
		if err == nil {
			name := strings.TrimSuffix(filepath.Base(j.path), filepath.Ext(j.path))
			err = store.AddTrackMetadata(j.trackID, name, "", sampleDuration(len(samples), rate))
		}
		results <- ingestResult{job: j, err: err}
	}
}
