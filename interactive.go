package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	fuzzyfinder "github.com/ktr0731/go-fuzzyfinder"
)

// logExtensions are the file types offered by the interactive picker.
var logExtensions = map[string]bool{".log": true, ".txt": true, ".out": true}

// skippedDirs are never descended into when looking for logs.
var skippedDirs = map[string]bool{"node_modules": true, "dist": true, "build": true}

// findLogCandidates lists the files under root that look like logs.
func findLogCandidates(root string) ([]string, error) {
	var candidates []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == root {
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if isHidden(name) || skippedDirs[name] {
				return fs.SkipDir
			}
			return nil
		}
		if isHidden(name) || !logExtensions[strings.ToLower(filepath.Ext(name))] {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		candidates = append(candidates, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning for log files: %w", err)
	}
	return candidates, nil
}

// runInteractiveFinder lets the user pick a log under root. It returns an
// empty path when the user aborts.
func runInteractiveFinder(root string) (string, error) {
	candidates, err := findLogCandidates(root)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no log files found under %s", root)
	}

	idx, err := fuzzyfinder.Find(
		candidates,
		func(i int) string {
			return candidates[i]
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return "Select the tsc log to summarize."
			}
			path := filepath.Join(root, candidates[i])
			info, statErr := os.Stat(path)
			if statErr != nil {
				return fmt.Sprintf("Path: %s\nError getting info: %v", path, statErr)
			}
			return fmt.Sprintf("Path: %s\nSize: %d bytes\nModified: %s", path, info.Size(), info.ModTime().Format("2006-01-02 15:04"))
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			log.Info().Msg("interactive selection aborted")
			return "", nil
		}
		return "", fmt.Errorf("fuzzy finder error: %w", err)
	}

	return filepath.Join(root, candidates[idx]), nil
}

// isHidden checks if a base name is hidden (starts with '.').
func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return len(name) > 0 && name[0] == '.'
}
