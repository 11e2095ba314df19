package cmd

import (
	"fmt"
	"runtime"

	"github.com/cnosuke/cabin-tools/executor"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// tools whose versions are reported by `version --verbose`
var versionTools = []struct {
	name string
	args []string
}{
	{"cpplint", []string{"--version"}},
	{"git", []string{"--version"}},
}

// NewVersionCommand creates the version command
func NewVersionCommand(name, version, revision, commitDate string) *cli.Command {
	return &cli.Command{
		Name:         "version",
		Usage:        "Show version information",
		OnUsageError: onUsageError,
		Action: func(c *cli.Context) error {
			if c.Args().Present() {
				return unexpectedArgument(c, c.Args().First())
			}
			return runVersion(c, name, version, revision, commitDate)
		},
	}
}

func runVersion(c *cli.Context, name, version, revision, commitDate string) error {
	w := c.App.Writer
	fmt.Fprintf(w, "%s %s%s\n", name, version, commitInfo(revision, commitDate))

	cfg, err := loadConfig(c, false)
	if err != nil {
		return err
	}
	verbose := c.Bool("verbose") || cfg.Exec.Verbose
	if !verbose {
		return nil
	}

	fmt.Fprintf(w, "release: %s\n", version)
	fmt.Fprintf(w, "commit-hash: %s\n", revision)
	fmt.Fprintf(w, "commit-date: %s\n", commitDate)
	fmt.Fprintf(w, "compiler: %s\n", runtime.Version())
	fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	exe := executor.NewExecutor(executor.Options{
		Verbose: verbose,
		Stderr:  c.App.ErrWriter,
	})
	for _, tool := range versionTools {
		if !exe.CommandExists(tool.name) {
			continue
		}
		out, err := exe.GetCmdOutput(executor.NewCommand(tool.name, tool.args...), cfg.Exec.Retry)
		if err != nil {
			zap.S().Warnw("failed to get tool version",
				"tool", tool.name,
				"error", err)
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", tool.name, firstLine(out))
	}

	return nil
}

// commitInfo renders " (hash date)", dropping whichever part is unknown
func commitInfo(revision, commitDate string) string {
	short := revision
	if len(short) > 7 {
		short = short[:7]
	}

	switch {
	case short == "" && commitDate == "":
		return ""
	case short == "":
		return fmt.Sprintf(" (%s)", commitDate)
	case commitDate == "":
		return fmt.Sprintf(" (%s)", short)
	default:
		return fmt.Sprintf(" (%s %s)", short, commitDate)
	}
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
