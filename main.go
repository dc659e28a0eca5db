package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Input
	logPath         string
	coreRoot        string
	browserRoot     string
	ignoreFile      string
	interactiveMode bool

	// Output
	outputFile      string
	copyToClipboard bool
	showSummary     bool
	topN            int

	verbose bool
	cfgFile string

	log = newLogger(os.Stderr)
)

// version is the application version, set via ldflags.
var version string = "dev"

var rootCmd = &cobra.Command{
	Use:   "errtally",
	Short: "errtally summarizes tsc error logs for triage.",
	Long: `errtally reads a TypeScript compiler log and ranks its errors
by error code, by source subdirectory, or by file.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var codesCmd = &cobra.Command{
	Use:   "codes [LOG]",
	Short: "Count errors by TS error code and by core subdirectory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMode(cmd, "codes", args)
	},
}

var browserCmd = &cobra.Command{
	Use:   "browser [LOG]",
	Short: "Count errors by subdirectory of the browser root",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMode(cmd, "browser", args)
	},
}

var filesCmd = &cobra.Command{
	Use:   "files [LOG]",
	Short: "List the files with the most errors",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMode(cmd, "files", args)
	},
}

func init() {
	cobra.OnInitialize(initLogger, initConfig)

	rootCmd.AddCommand(codesCmd, browserCmd, filesCmd)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/errtally/config.toml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log progress details to stderr")

	// Input
	flags.StringVarP(&logPath, "log", "l", "", "Path to the tsc log (relative to the working directory, then the git worktree root)")
	viper.BindPFlag("log", flags.Lookup("log"))
	flags.StringVar(&coreRoot, "root", "", "Path prefix of the diagnostics to count")
	viper.BindPFlag("root", flags.Lookup("root"))
	flags.StringVar(&browserRoot, "browser-root", "", "Path prefix used by the browser subcommand")
	viper.BindPFlag("browser_root", flags.Lookup("browser-root"))
	flags.StringVar(&ignoreFile, "ignore-file", "", "gitignore-style file naming diagnostic paths to leave out")
	viper.BindPFlag("ignore_file", flags.Lookup("ignore-file"))
	flags.BoolVar(&interactiveMode, "interactive", false, "Pick the log file with a fuzzy finder")
	viper.BindPFlag("interactive", flags.Lookup("interactive"))

	// Output
	flags.StringVarP(&outputFile, "file", "f", "", "Save output to specified file")
	viper.BindPFlag("file", flags.Lookup("file"))
	flags.BoolVarP(&copyToClipboard, "clipboard", "c", false, "Copy output to clipboard")
	viper.BindPFlag("clipboard", flags.Lookup("clipboard"))
	flags.BoolVar(&showSummary, "summary", false, "Append a summary of lines scanned and matched")
	viper.BindPFlag("summary", flags.Lookup("summary"))

	filesCmd.Flags().IntVarP(&topN, "top", "n", 10, "Number of files to list (0 for no limit)")
	viper.BindPFlag("top", filesCmd.Flags().Lookup("top"))

	viper.SetDefault("log", "tsc-output.log")
	viper.SetDefault("root", "src/core")
	viper.SetDefault("browser_root", "src/core/browser")
	viper.SetDefault("top", 10)
	viper.SetDefault("ignore_file", "")
	viper.SetDefault("interactive", false)
	viper.SetDefault("clipboard", false)
	viper.SetDefault("summary", false)
}

// newLogger returns a console logger writing to out at Info level.
func newLogger(out io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = out
		w.NoColor = os.Getenv("NO_COLOR") != ""
		w.TimeFormat = time.TimeOnly
	})).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}

// initLogger applies --verbose.
func initLogger() {
	if verbose {
		log = log.Level(zerolog.DebugLevel)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(filepath.Join(home, ".config", "errtally"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.SetEnvPrefix("ERRTALLY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Debug().Str("path", viper.ConfigFileUsed()).Msg("using config file")
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		log.Debug().Msg("no config file found, using defaults and flags")
	} else {
		log.Warn().Err(err).Msg("error reading config file")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("errtally failed")
		os.Exit(1)
	}
}
