package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jadenpxrk/errtally/internal/tally"
)

// runMode is the shared body of the codes, browser and files subcommands.
func runMode(cmd *cobra.Command, name string, args []string) error {
	// A positional log overrides --log, env and config.
	if len(args) == 1 {
		viper.Set("log", args[0])
	}
	s, err := loadSettings(viper.GetViper())
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	repoRoot, ok, err := worktreeRoot(cwd)
	if err != nil {
		log.Warn().Err(err).Msg("could not inspect git repository, resolving paths from working directory")
	}
	if !ok {
		repoRoot = ""
	}

	// The picker searches the whole worktree when there is one.
	if s.Interactive {
		searchRoot := cwd
		if repoRoot != "" {
			searchRoot = repoRoot
		}
		picked, err := runInteractiveFinder(searchRoot)
		if err != nil {
			return err
		}
		if picked == "" {
			return nil // aborted
		}
		s.LogPath = picked
	}

	report, err := buildReport(name, s, cwd, repoRoot)
	if err != nil {
		return err
	}
	return deliver(report, s, cmd.OutOrStdout())
}

// buildReport scans the log named by s and returns the rendered sections.
// Relative paths resolve against cwd; repoRoot, when set, is a second place
// to look for the log.
func buildReport(name string, s Settings, cwd, repoRoot string) (string, error) {
	mode, err := tally.ModeNamed(name, s.CoreRoot, s.BrowserRoot, s.Top)
	if err != nil {
		return "", err
	}

	opts := []tally.Option{tally.WithLogger(log)}
	if s.IgnoreFile != "" {
		filter, err := loadIgnoreFilter(resolvePath(s.IgnoreFile, cwd))
		if err != nil {
			return "", err
		}
		opts = append(opts, tally.WithPathFilter(filter))
	}

	logFile := locateLog(s.LogPath, cwd, repoRoot)
	log.Debug().Str("path", logFile).Str("mode", mode.Name).Msg("scanning log")

	res, err := tally.ScanFile(logFile, mode, opts...)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := tally.Render(&b, res); err != nil {
		return "", err
	}
	// Summary goes after every table section.
	if s.Summary {
		if err := tally.RenderSummary(&b, res); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

// resolvePath makes p absolute, treating relative paths as relative to base.
func resolvePath(p, base string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

// locateLog resolves a relative log path against cwd. If nothing is there
// and repoRoot is set, the same path under repoRoot is used when it exists,
// so the default tsc-output.log at the top of the repo is found from any
// subdirectory.
func locateLog(p, cwd, repoRoot string) string {
	local := resolvePath(p, cwd)
	if filepath.IsAbs(p) || repoRoot == "" {
		return local
	}
	if _, err := os.Stat(local); err == nil {
		return local
	}

	fromRoot := resolvePath(p, repoRoot)
	if _, err := os.Stat(fromRoot); err == nil {
		log.Debug().Str("path", fromRoot).Msg("log not in working directory, using worktree root")
		return fromRoot
	}
	// Neither exists: report the path the user most likely meant.
	return local
}

// loadIgnoreFilter parses a gitignore-style file into a filter over the
// slash-separated paths tsc prints.
func loadIgnoreFilter(file string) (tally.PathFilter, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("could not open ignore file %s: %w", file, err)
	}
	defer f.Close()

	m := gitignore.NewGitIgnoreFromReader(".", f)
	log.Debug().Str("path", file).Msg("loaded ignore file")
	return ignoreFilter(m), nil
}

// ignoreFilter reports a path as ignored when it, or any directory above
// it, matches m.
func ignoreFilter(m gitignore.IgnoreMatcher) tally.PathFilter {
	return func(p string) bool {
		p = filepath.ToSlash(p)
		if m.Match(p, false) {
			return true
		}
		for dir := path.Dir(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
			if m.Match(dir, true) {
				return true
			}
		}
		return false
	}
}
