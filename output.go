package main

import (
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
)

// clipboardWrite is swapped out in tests.
var clipboardWrite = clipboard.WriteAll

// deliver sends the finished report to the configured sink: a file, the
// clipboard, or stdout.
func deliver(report string, s Settings, stdout io.Writer) error {
	// A file wins over the clipboard.
	if s.OutputFile != "" {
		if err := os.WriteFile(s.OutputFile, []byte(report), 0644); err != nil {
			return fmt.Errorf("error writing to file %s: %w", s.OutputFile, err)
		}
		log.Info().Str("path", s.OutputFile).Msg("output saved")
		return nil
	}

	if s.Clipboard {
		// No clipboard (headless, no xclip): fall through to stdout.
		if err := clipboardWrite(report); err != nil {
			log.Warn().Err(err).Msg("error writing to clipboard, printing instead")
		} else {
			log.Info().Msg("output copied to clipboard")
			return nil
		}
	}

	// Default to stdout
	_, err := io.WriteString(stdout, report)
	return err
}
