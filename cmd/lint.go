package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cnosuke/cabin-tools/config"
	"github.com/cnosuke/cabin-tools/executor"
	"github.com/cnosuke/cabin-tools/similar"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const cpplint = "cpplint"

// editions in chronological order
var editions = []string{"98", "03", "11", "14", "17", "20", "23", "26"}

// draft names of editions
var editionAliases = map[string]string{
	"0x": "11",
	"1y": "14",
	"1z": "17",
	"2a": "20",
	"2b": "23",
	"2c": "26",
}

// NewLintCommand creates the lint command
func NewLintCommand() *cli.Command {
	return &cli.Command{
		Name:  "lint",
		Usage: "Lint codes using cpplint",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "exclude files from linting",
			},
		},
		OnUsageError: onUsageError,
		Action:       runLint,
	}
}

// runLint checks for cpplint, builds its invocation from the manifest and runs it
func runLint(c *cli.Context) error {
	if c.Args().Present() {
		return unexpectedArgument(c, c.Args().First())
	}

	if !executor.CommandExists(cpplint) {
		return errors.New("lint command requires cpplint; try installing it by:\n  pip install cpplint")
	}

	cfg, err := loadConfig(c, true)
	if err != nil {
		return err
	}
	verbose := c.Bool("verbose") || cfg.Exec.Verbose

	exe := executor.NewExecutor(executor.Options{
		Verbose: verbose,
		Stdout:  c.App.Writer,
		Stderr:  c.App.ErrWriter,
	})

	lintCmd, err := buildLintCommand(".", cfg, c.StringSlice("exclude"), verbose)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.ErrWriter, "%12s %s\n", "Linting", cfg.Package.Name)

	exitCode, err := exe.ExecCmd(lintCmd)
	if err != nil {
		return errors.Wrap(err, "failed to run cpplint")
	}
	if exitCode != 0 {
		return errors.Newf("cpplint failed with exit code `%d`", exitCode)
	}
	return nil
}

// buildLintCommand assembles the cpplint invocation for the package in dir.
// The path argument comes last; cpplint needs every --exclude before it.
func buildLintCommand(dir string, cfg *config.Config, excludes []string, verbose bool) (*executor.Command, error) {
	lintCmd := executor.NewCommand(cpplint)
	for _, exclude := range excludes {
		lintCmd.AddArg("--exclude=" + exclude)
	}

	switch {
	case exists(filepath.Join(dir, "CPPLINT.cfg")):
		zap.S().Debugw("using CPPLINT.cfg for lint")
	default:
		if isDir(filepath.Join(dir, "include")) {
			lintCmd.AddArg("--root=include")
		} else if isDir(filepath.Join(dir, "src")) {
			lintCmd.AddArg("--root=src")
		}

		filters := cfg.Lint.Cpplint.Filters
		if len(filters) > 0 {
			zap.S().Debugw("using manifest filters for lint", "filters", filters)
			checkFilters(filters)
			lintCmd.AddArg("--filter=" + strings.Join(filters, ","))
		} else {
			zap.S().Debugw("using default arguments for lint")
			newer, err := editionNewerThan(cfg.Package.Edition, "11")
			if err != nil {
				return nil, err
			}
			if newer {
				// C++11-specific lints do not apply to later editions
				lintCmd.AddArg("--filter=-build/c++11")
			}
		}
	}

	if !verbose {
		lintCmd.AddArg("--quiet")
	}

	ignores, err := readGitignore(filepath.Join(dir, ".gitignore"))
	if err != nil {
		return nil, err
	}
	for _, line := range ignores {
		lintCmd.AddArg("--exclude=" + line)
	}

	lintCmd.AddArg("--recursive")
	lintCmd.AddArg(dir)
	return lintCmd, nil
}

// readGitignore returns the pattern lines of a .gitignore, skipping blanks
// and comments. A missing file yields nothing.
func readGitignore(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	return lines, nil
}

// editionNewerThan compares C++ editions such as "17" and "11"
func editionNewerThan(edition, than string) (bool, error) {
	edition = strings.TrimPrefix(strings.ToLower(edition), "c++")
	if canonical, ok := editionAliases[edition]; ok {
		edition = canonical
	}
	idx := indexOf(editions, edition)
	if idx < 0 {
		msg := fmt.Sprintf("invalid edition `%s`", edition)
		aliases := make([]string, 0, len(editionAliases))
		for alias := range editionAliases {
			aliases = append(aliases, alias)
		}
		sort.Strings(aliases)
		known := append(append([]string{}, editions...), aliases...)
		if hint := similar.Suggestion(edition, known); hint != "" {
			msg += "; " + hint
		}
		return false, errors.New(msg)
	}
	return idx > indexOf(editions, than), nil
}

// checkFilters warns about filter categories cpplint does not know
func checkFilters(filters []string) {
	for _, filter := range filters {
		category := strings.TrimLeft(strings.TrimSpace(filter), "+-")
		if knownFilter(category) {
			continue
		}
		fields := []interface{}{"filter", filter}
		if match, ok := similar.FindSimilarStr(category, cpplintCategories); ok {
			fields = append(fields, "did_you_mean", match)
		}
		zap.S().Warnw("unknown cpplint filter", fields...)
	}
}

// knownFilter accepts a full category or a group prefix like "whitespace"
func knownFilter(category string) bool {
	for _, known := range cpplintCategories {
		if category == known || strings.HasPrefix(known, category+"/") {
			return true
		}
	}
	return false
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

var cpplintCategories = []string{
	"build/c++11",
	"build/c++17",
	"build/deprecated",
	"build/endif_comment",
	"build/explicit_make_pair",
	"build/forward_decl",
	"build/header_guard",
	"build/include",
	"build/include_alpha",
	"build/include_order",
	"build/include_subdir",
	"build/include_what_you_use",
	"build/namespaces",
	"build/namespaces_headers",
	"build/namespaces_literals",
	"build/printf_format",
	"build/storage_class",
	"legal/copyright",
	"readability/alt_tokens",
	"readability/braces",
	"readability/casting",
	"readability/check",
	"readability/constructors",
	"readability/fn_size",
	"readability/inheritance",
	"readability/multiline_comment",
	"readability/multiline_string",
	"readability/namespace",
	"readability/nolint",
	"readability/nul",
	"readability/strings",
	"readability/todo",
	"readability/utf8",
	"runtime/arrays",
	"runtime/casting",
	"runtime/explicit",
	"runtime/int",
	"runtime/init",
	"runtime/invalid_increment",
	"runtime/member_string_references",
	"runtime/memset",
	"runtime/operator",
	"runtime/printf",
	"runtime/printf_format",
	"runtime/references",
	"runtime/string",
	"runtime/threadsafe_fn",
	"runtime/vlog",
	"whitespace/blank_line",
	"whitespace/braces",
	"whitespace/comma",
	"whitespace/comments",
	"whitespace/empty_conditional_body",
	"whitespace/empty_if_body",
	"whitespace/empty_loop_body",
	"whitespace/end_of_line",
	"whitespace/ending_newline",
	"whitespace/forcolon",
	"whitespace/indent",
	"whitespace/indent_namespace",
	"whitespace/line_length",
	"whitespace/newline",
	"whitespace/operators",
	"whitespace/parens",
	"whitespace/semicolon",
	"whitespace/tab",
	"whitespace/todo",
}
