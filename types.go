package main

import (
	"fmt"

	"github.com/spf13/viper"
)

// Settings holds the resolved configuration for one run.
type Settings struct {
	LogPath     string
	CoreRoot    string
	BrowserRoot string
	IgnoreFile  string
	Interactive bool
	Top         int

	OutputFile string
	Clipboard  bool
	Summary    bool
}

// loadSettings reads the effective configuration from v, after flags,
// environment and config file have been layered in.
func loadSettings(v *viper.Viper) (Settings, error) {
	s := Settings{
		LogPath:     v.GetString("log"),
		CoreRoot:    v.GetString("root"),
		BrowserRoot: v.GetString("browser_root"),
		IgnoreFile:  v.GetString("ignore_file"),
		Interactive: v.GetBool("interactive"),
		Top:         v.GetInt("top"),
		OutputFile:  v.GetString("file"),
		Clipboard:   v.GetBool("clipboard"),
		Summary:     v.GetBool("summary"),
	}
	if s.Top < 0 {
		return Settings{}, fmt.Errorf("top must not be negative, got %d", s.Top)
	}
	if s.LogPath == "" && !s.Interactive {
		return Settings{}, fmt.Errorf("no log file given")
	}
	return s, nil
}
