package cmd

import (
	"fmt"
	"strings"

	"github.com/cnosuke/cabin-tools/similar"
	"github.com/urfave/cli/v2"
)

const undefinedFlagPrefix = "flag provided but not defined: "

// noSuchCommand reports an unknown subcommand with a suggestion when one is close
func noSuchCommand(c *cli.Context, name string) error {
	var candidates []string
	for _, cmd := range c.App.VisibleCommands() {
		candidates = append(candidates, cmd.Names()...)
	}

	msg := fmt.Sprintf("no such command: `%s`", name)
	if hint := similar.Suggestion(name, candidates); hint != "" {
		msg += "\n\n       " + hint
	}
	msg += fmt.Sprintf("\n\n       For a list of commands, try '%s help'", c.App.Name)

	return cli.Exit(msg, 1)
}

// unexpectedArgument reports a stray argument, suggesting the closest flag
func unexpectedArgument(c *cli.Context, arg string) error {
	msg := fmt.Sprintf("unexpected argument `%s` found", arg)
	if hint := suggestFlag(c, arg); hint != "" {
		msg += "\n\n       " + hint
	}
	if name := subcommandName(c); name != "" {
		msg += fmt.Sprintf("\n\n       For more information, try '%s help %s'", c.App.Name, name)
	}
	return cli.Exit(msg, 1)
}

// onUsageError turns undefined-flag parse errors into suggestions
func onUsageError(c *cli.Context, err error, _ bool) error {
	text := err.Error()
	if !strings.HasPrefix(text, undefinedFlagPrefix) {
		return err
	}
	// the flag package reports every flag with a single dash
	name := strings.TrimLeft(strings.TrimPrefix(text, undefinedFlagPrefix), "-")
	return unexpectedArgument(c, flagSpelling(name))
}

// suggestFlag matches arg against the flags of the current command, or the
// app's flags at the root
func suggestFlag(c *cli.Context, arg string) string {
	flags := c.App.Flags
	if subcommandName(c) != "" {
		flags = c.Command.Flags
	}

	var candidates []string
	for _, f := range flags {
		candidates = append(candidates, f.Names()...)
	}

	match, ok := similar.FindSimilarStr(strings.TrimLeft(arg, "-"), candidates)
	if !ok {
		return ""
	}
	return fmt.Sprintf("did you mean `%s`?", flagSpelling(match))
}

func flagSpelling(name string) string {
	if len(name) == 1 {
		return "-" + name
	}
	return "--" + name
}

// subcommandName returns the running subcommand, or "" at the root
func subcommandName(c *cli.Context) string {
	if c.Command == nil || c.Command.Name == c.App.Name {
		return ""
	}
	return c.Command.Name
}
