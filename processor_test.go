package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5"
	gitignore "github.com/monochromegane/go-gitignore"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jadenpxrk/errtally/internal/tally"
)

const sampleLog = `src/core/browser/a.ts(1,1): error TS2345: foo
src/core/browser/b.ts(2,2): error TS2345: bar
src/core/auth/c.ts(3,3): error TS9999: baz
src/core/browser/widgets/btn.ts(1,1): error TS2322: x
src/core/generated/api.ts(9,1): error TS2322: y
note: see also src/core/x.ts
Found 5 errors in 5 files.
`

func defaultSettings(logPath string) Settings {
	return Settings{
		LogPath:     logPath,
		CoreRoot:    "src/core",
		BrowserRoot: "src/core/browser",
		Top:         tally.DefaultTopN,
	}
}

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestBuildReportCodes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tsc-output.log", sampleLog)

	report, err := buildReport("codes", defaultSettings("tsc-output.log"), dir, "")
	require.NoError(t, err)

	want := "--- Errors by Code ---\n" +
		"TS2345: 2\n" +
		"TS2322: 2\n" +
		"TS9999: 1\n" +
		"\n" +
		"--- Errors by Subdirectory ---\n" +
		"browser: 3\n" +
		"auth: 1\n" +
		"generated: 1\n"
	assert.Equal(t, want, report)
}

func TestBuildReportBrowser(t *testing.T) {
	dir := t.TempDir()
	logFile := writeFile(t, dir, "logs/tsc.txt", sampleLog)

	report, err := buildReport("browser", defaultSettings(logFile), "/nonexistent", "")
	require.NoError(t, err)
	assert.Equal(t, "--- Errors by Browser Subdirectory ---\n(root): 2\nwidgets: 1\n", report)
}

func TestBuildReportFilesWithSummaryAndIgnore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tsc-output.log", sampleLog)
	writeFile(t, dir, ".errtallyignore", "generated/\n")

	s := defaultSettings("tsc-output.log")
	s.IgnoreFile = ".errtallyignore"
	s.Summary = true
	s.Top = 2

	report, err := buildReport("files", s, dir, "")
	require.NoError(t, err)

	want := "--- Most Error-Prone Files ---\n" +
		"src/core/browser/a.ts: 1\n" +
		"src/core/browser/b.ts: 1\n" +
		"\n--- Summary ---\n" +
		"Lines scanned: 7\n" +
		"Lines matched: 4\n" +
		"Lines ignored: 1\n"
	assert.Equal(t, want, report)
}

func TestBuildReportMissingLog(t *testing.T) {
	_, err := buildReport("codes", defaultSettings("missing.log"), t.TempDir(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, tally.ErrSourceUnavailable))
}

func TestBuildReportMissingIgnoreFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tsc-output.log", sampleLog)

	s := defaultSettings("tsc-output.log")
	s.IgnoreFile = "nope"
	_, err := buildReport("codes", s, dir, "")
	assert.Error(t, err)
}

func TestIgnoreFilter(t *testing.T) {
	m := gitignore.NewGitIgnoreFromReader(".", strings.NewReader("*.gen.ts\ngenerated/\n"))
	ignored := ignoreFilter(m)

	assert.True(t, ignored("src/core/api.gen.ts"))
	assert.True(t, ignored("src/core/generated/api.ts"))
	assert.True(t, ignored("src/core/generated/deep/api.ts"))
	assert.False(t, ignored("src/core/browser/a.ts"))
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, filepath.Join("/repo", "tsc-output.log"), resolvePath("tsc-output.log", "/repo"))
	assert.Equal(t, filepath.Join("/repo", "logs", "a.log"), resolvePath("logs/../logs/a.log", "/repo"))
	assert.Equal(t, "/var/log/tsc.log", resolvePath("/var/log//tsc.log", "/repo"))
}

func TestLoadSettings(t *testing.T) {
	v := viper.New()
	v.SetDefault("log", "tsc-output.log")
	v.SetDefault("root", "src/core")
	v.SetDefault("top", 10)
	v.Set("clipboard", true)

	s, err := loadSettings(v)
	require.NoError(t, err)
	assert.Equal(t, "tsc-output.log", s.LogPath)
	assert.Equal(t, "src/core", s.CoreRoot)
	assert.Equal(t, 10, s.Top)
	assert.True(t, s.Clipboard)

	v.Set("top", -1)
	_, err = loadSettings(v)
	assert.Error(t, err)

	v.Set("top", 3)
	v.Set("log", "")
	_, err = loadSettings(v)
	assert.Error(t, err)

	v.Set("interactive", true)
	_, err = loadSettings(v)
	assert.NoError(t, err)
}

func TestWorktreeRoot(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	sub := filepath.Join(dir, "src", "core")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	root, ok, err := worktreeRoot(sub)
	require.NoError(t, err)
	assert.True(t, ok)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWorktreeRootOutsideRepo(t *testing.T) {
	_, ok, err := worktreeRoot(t.TempDir())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRootCommandCodes(t *testing.T) {
	logFile := writeFile(t, t.TempDir(), "tsc-output.log", sampleLog)

	out, err := runRoot(t, "codes", logFile)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "--- Errors by Code ---\nTS2345: 2\n"))
	assert.Contains(t, out, "--- Errors by Subdirectory ---\nbrowser: 3\n")
}

// initRepo creates a git worktree with the given files and returns its root.
func initRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	_, err := git.PlainInit(root, false)
	require.NoError(t, err)
	for name, data := range files {
		writeFile(t, root, name, data)
	}
	return root
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out strings.Builder
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		viper.Set("log", "tsc-output.log")
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCommandLogRelativeToWorkingDir(t *testing.T) {
	root := initRepo(t, map[string]string{
		"packages/app/tsc.log": "src/core/auth/c.ts(3,3): error TS9999: baz\n",
	})
	t.Chdir(filepath.Join(root, "packages", "app"))

	out, err := runRoot(t, "codes", "tsc.log")
	require.NoError(t, err)
	assert.Equal(t, "--- Errors by Code ---\nTS9999: 1\n\n--- Errors by Subdirectory ---\nauth: 1\n", out)
}

func TestRootCommandDefaultLogFromWorktreeRoot(t *testing.T) {
	root := initRepo(t, map[string]string{
		"tsc-output.log":         sampleLog,
		"packages/app/README.md": "",
	})
	t.Chdir(filepath.Join(root, "packages", "app"))
	viper.Set("log", "tsc-output.log")

	out, err := runRoot(t, "browser")
	require.NoError(t, err)
	assert.Equal(t, "--- Errors by Browser Subdirectory ---\n(root): 2\nwidgets: 1\n", out)
}

func TestLocateLog(t *testing.T) {
	root := initRepo(t, map[string]string{
		"tsc-output.log":     "",
		"packages/app/a.log": "",
	})
	cwd := filepath.Join(root, "packages", "app")

	// present in cwd
	assert.Equal(t, filepath.Join(cwd, "a.log"), locateLog("a.log", cwd, root))
	// only at the worktree root
	assert.Equal(t, filepath.Join(root, "tsc-output.log"), locateLog("tsc-output.log", cwd, root))
	// nowhere: the cwd path is reported
	assert.Equal(t, filepath.Join(cwd, "missing.log"), locateLog("missing.log", cwd, root))
	// no worktree
	assert.Equal(t, filepath.Join(cwd, "tsc-output.log"), locateLog("tsc-output.log", cwd, ""))
}

func TestBuildReportIgnoreFileRelativeToWorkingDir(t *testing.T) {
	root := initRepo(t, map[string]string{
		"tsc-output.log":           sampleLog,
		"packages/app/skip.ignore": "browser/\n",
	})
	cwd := filepath.Join(root, "packages", "app")

	s := defaultSettings("tsc-output.log")
	s.IgnoreFile = "skip.ignore"
	report, err := buildReport("codes", s, cwd, root)
	require.NoError(t, err)
	assert.Contains(t, report, "--- Errors by Subdirectory ---\nauth: 1\ngenerated: 1\n")
}
