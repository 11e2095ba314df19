package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newTestApp(t *testing.T) (*cli.App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := NewApp("cabin-tools", "1.2.3", "abcdef1234567", "2026-01-02")
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app, &stdout, &stderr
}

func missingManifest(t *testing.T) string {
	return filepath.Join(t.TempDir(), "cabin.yml")
}

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cabin.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// installFakeCpplint puts a cpplint on PATH that records its arguments
func installFakeCpplint(t *testing.T, exitCode string) string {
	t.Helper()
	bin := t.TempDir()
	script := "#!/bin/sh\necho \"$@\" > \"$CPPLINT_ARGS_OUT\"\nexit " + exitCode + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(bin, "cpplint"), []byte(script), 0o755))

	out := filepath.Join(t.TempDir(), "args.txt")
	t.Setenv("CPPLINT_ARGS_OUT", out)
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
	return out
}

func exitStatus(t *testing.T, err error) int {
	t.Helper()
	var coder cli.ExitCoder
	require.True(t, errors.As(err, &coder), "expected exit coder, got %T", err)
	return coder.ExitCode()
}

func TestApp_UnknownCommandSuggests(t *testing.T) {
	app, _, _ := newTestApp(t)

	err := app.Run([]string{"cabin-tools", "verison"})
	require.Error(t, err)
	assert.Equal(t, 1, exitStatus(t, err))
	assert.Contains(t, err.Error(), "no such command: `verison`")
	assert.Contains(t, err.Error(), "did you mean `version`?")
}

func TestApp_UnknownCommandWithoutSuggestion(t *testing.T) {
	app, _, _ := newTestApp(t)

	err := app.Run([]string{"cabin-tools", "xyzzy"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such command: `xyzzy`")
	assert.NotContains(t, err.Error(), "did you mean")
}

func TestApp_UnknownFlagSuggests(t *testing.T) {
	app, _, _ := newTestApp(t)

	err := app.Run([]string{"cabin-tools", "lint", "--exlude", "build"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected argument `--exlude` found")
	assert.Contains(t, err.Error(), "did you mean `--exclude`?")
	assert.Contains(t, err.Error(), "try 'cabin-tools help lint'")
}

func TestVersion(t *testing.T) {
	app, stdout, _ := newTestApp(t)

	err := app.Run([]string{"cabin-tools", "--config", missingManifest(t), "version"})
	require.NoError(t, err)
	assert.Equal(t, "cabin-tools 1.2.3 (abcdef1 2026-01-02)\n", stdout.String())
}

func TestVersion_Verbose(t *testing.T) {
	app, stdout, _ := newTestApp(t)

	err := app.Run([]string{"cabin-tools", "--verbose", "--config", missingManifest(t), "version"})
	require.NoError(t, err)

	out := stdout.String()
	assert.True(t, strings.HasPrefix(out, "cabin-tools 1.2.3 (abcdef1 2026-01-02)\n"))
	assert.Contains(t, out, "release: 1.2.3\n")
	assert.Contains(t, out, "commit-hash: abcdef1234567\n")
	assert.Contains(t, out, "compiler: go")
}

func TestVersion_UnexpectedArgument(t *testing.T) {
	app, _, _ := newTestApp(t)

	err := app.Run([]string{"cabin-tools", "--config", missingManifest(t), "version", "extra"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected argument `extra` found")
}

func TestLint_RequiresCpplint(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	app, _, _ := newTestApp(t)

	err := app.Run([]string{"cabin-tools", "lint"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lint command requires cpplint")
	assert.Contains(t, err.Error(), "pip install cpplint")
}

func TestLint_RequiresManifest(t *testing.T) {
	installFakeCpplint(t, "0")
	app, _, _ := newTestApp(t)

	err := app.Run([]string{"cabin-tools", "--config", missingManifest(t), "lint"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not find package manifest")
}

func TestLint_RunsCpplint(t *testing.T) {
	argsOut := installFakeCpplint(t, "0")
	manifest := writeManifest(t, "package:\n  name: hello\n  edition: \"17\"\n")
	app, _, stderr := newTestApp(t)

	err := app.Run([]string{"cabin-tools", "--config", manifest, "lint", "--exclude", "third_party"})
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "Linting hello")

	args, err := os.ReadFile(argsOut)
	require.NoError(t, err)
	assert.Equal(t, "--exclude=third_party --filter=-build/c++11 --quiet --recursive .\n", string(args))
}

func TestLint_FailingCpplint(t *testing.T) {
	installFakeCpplint(t, "1")
	manifest := writeManifest(t, "package:\n  name: hello\n")
	app, _, _ := newTestApp(t)

	err := app.Run([]string{"cabin-tools", "--config", manifest, "lint"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cpplint failed with exit code `1`")
}

func TestApp_UnknownShortFlagKeepsSingleDash(t *testing.T) {
	app, _, _ := newTestApp(t)

	err := app.Run([]string{"cabin-tools", "lint", "-x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected argument `-x` found")
}

func TestVersion_VerboseFromEnvWithoutManifest(t *testing.T) {
	t.Setenv("CABIN_VERBOSE", "true")
	app, stdout, _ := newTestApp(t)

	err := app.Run([]string{"cabin-tools", "--config", missingManifest(t), "version"})
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "release: 1.2.3\n")
}
