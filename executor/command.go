package executor

import "strings"

// Command describes one external program invocation.
// The program is fixed at construction; arguments can only be appended.
type Command struct {
	program string
	args    []string
}

// NewCommand creates a new Command for program with the initial arguments
func NewCommand(program string, args ...string) *Command {
	c := &Command{program: program}
	c.args = append(c.args, args...)
	return c
}

// AddArg appends a single argument
func (c *Command) AddArg(arg string) *Command {
	c.args = append(c.args, arg)
	return c
}

// AddArgs appends arguments in the given order
func (c *Command) AddArgs(args ...string) *Command {
	c.args = append(c.args, args...)
	return c
}

// Program returns the program name or path
func (c *Command) Program() string {
	return c.program
}

// Args returns a copy of the argument vector
func (c *Command) Args() []string {
	out := make([]string, len(c.args))
	copy(out, c.args)
	return out
}

// String renders the command for logs. It is never passed to a shell.
func (c *Command) String() string {
	if c == nil {
		return ""
	}
	if len(c.args) == 0 {
		return c.program
	}
	return c.program + " " + strings.Join(c.args, " ")
}
