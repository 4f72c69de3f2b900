// Package console implements the interactive hbnb command interpreter.
//
// Two syntaxes reach the same operations:
//
//	show User 1234
//	User.show("1234")
//
// Validation failures print a fixed "** message **" line and never end the
// session.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/hbnb/internal/schema"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// DefaultPrompt is the interactive prompt.
const DefaultPrompt = "(hbnb) "

// maxLineSize bounds a single input line.
const maxLineSize = 1 << 20

// command handles the text after the verb. stop ends the session.
type command struct {
	run   func(c *Console, args string) (stop bool, err error)
	usage string
}

// Console reads command lines and applies them to a store.
type Console struct {
	store    types.Store
	registry *schema.Registry
	out      io.Writer
	prompt   string
	logger   *zap.Logger
	commands map[string]command
}

// Option configures a Console.
type Option func(*Console)

// WithPrompt sets the prompt printed before each line. An empty prompt,
// the default, prints nothing; callers enable it for terminals.
func WithPrompt(p string) Option {
	return func(c *Console) { c.prompt = p }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Console) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRegistry sets the registry used to recognize kinds and coerce
// values. It should match the store's.
func WithRegistry(r *schema.Registry) Option {
	return func(c *Console) {
		if r != nil {
			c.registry = r
		}
	}
}

// New returns a Console over store writing to out.
func New(store types.Store, out io.Writer, opts ...Option) *Console {
	c := &Console{
		store:    store,
		registry: schema.Default(),
		out:      out,
		logger:   zap.NewNop(),
		commands: builtinCommands(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run reads lines from in until quit, EOF, or end of input.
func (c *Console) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for {
		if c.prompt != "" {
			fmt.Fprint(c.out, c.prompt)
		}
		if !scanner.Scan() {
			break
		}
		if c.Exec(scanner.Text()) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading commands: %w", err)
	}
	return nil
}

// Exec runs one command line and reports whether the session should end.
func (c *Console) Exec(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	c.logger.Debug("command", zap.String("line", line))

	stop, err := c.dispatch(line)
	if err != nil {
		c.report(err)
	}
	return stop
}

func (c *Console) dispatch(line string) (bool, error) {
	if m := aliasPattern.FindStringSubmatch(line); m != nil {
		return c.commands[m[2]].run(c, m[1])
	}

	verb, rest := nextToken(line)
	if cmd, ok := c.commands[verb]; ok {
		return cmd.run(c, rest)
	}
	return false, c.dotted(line)
}

// report prints err. Validation errors print their fixed message; anything
// else is a storage failure and is logged as well.
func (c *Console) report(err error) {
	if v := validation(err); v != nil {
		c.println("** " + v.Error() + " **")
		return
	}
	if errors.Is(err, types.ErrInvalidValue) {
		c.println("** " + ErrInvalidValue.Error() + " **")
		return
	}
	c.logger.Error("command failed", zap.Error(err))
	c.println("** " + err.Error() + " **")
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

// commandNames returns the registered verbs in sorted order.
func (c *Console) commandNames() []string {
	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
