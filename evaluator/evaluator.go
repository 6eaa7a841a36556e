// Package evaluator runs checker programs on an external evaluator process.
//
// Command satisfies kindcore.Evaluator. It writes the prelude and the
// generated rules to a temporary file, runs the evaluator binary on it and
// parses the normal form the binary prints.
package evaluator

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/ezachrisen/kindcore/hvm"
)

// Placeholders substituted in Command.Args.
const (
	FileArg  = "{file}"
	EntryArg = "{entry}"
)

// DefaultEntry is the term the checker prelude reduces to the list of
// diagnostics.
const DefaultEntry = "(Kind.API.check_all)"

// How long to wait for the output pipes after the process is killed.
const waitDelay = time.Second

// DefaultArgs runs the program file and reduces the entry term.
var DefaultArgs = []string{"run", "-f", FileArg, EntryArg}

// Command runs an evaluator binary once per program.
type Command struct {
	// Path of the evaluator binary
	Path string

	// Arguments, with FileArg and EntryArg replaced. DefaultArgs if empty.
	Args []string

	// Checker prelude prepended to every program. Optional.
	Prelude string

	// Term to reduce. DefaultEntry if empty.
	Entry string

	// Directory for program files. The system default if empty.
	Dir string

	Logger *zap.Logger
}

// Eval writes the program, runs the binary and parses the last line it
// prints as the answer.
func (c *Command) Eval(ctx context.Context, file *hvm.File) (hvm.Term, error) {
	log := c.Logger
	if log == nil {
		log = zap.NewNop()
	}

	src, err := c.program(file)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(c.Dir, "kindcore-*.hvm")
	if err != nil {
		return nil, errors.Wrap(err, "creating program file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(src); err != nil {
		tmp.Close()
		return nil, errors.Wrap(err, "writing program file")
	}
	if err := tmp.Close(); err != nil {
		return nil, errors.Wrap(err, "writing program file")
	}

	args := c.args(tmp.Name())
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.Path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	err = cmd.Run()
	log.Debug("ran evaluator",
		zap.String("path", c.Path),
		zap.Strings("args", args),
		zap.Int("program_bytes", len(src)),
		zap.Duration("elapsed", time.Since(start)),
	)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, errors.Wrapf(err, "running %s: %s", c.Path, strings.TrimSpace(stderr.String()))
	}

	line := lastLine(stdout.String())
	if line == "" {
		return nil, errors.Errorf("%s printed no answer", c.Path)
	}
	answer, err := hvm.Parse(line)
	if err != nil {
		return nil, errors.Wrap(err, "parsing evaluator answer")
	}
	return answer, nil
}

func (c *Command) program(file *hvm.File) ([]byte, error) {
	var buf bytes.Buffer
	if c.Prelude != "" {
		prelude, err := os.ReadFile(c.Prelude)
		if err != nil {
			return nil, errors.Wrap(err, "reading prelude")
		}
		buf.Write(prelude)
		buf.WriteString("\n")
	}
	buf.WriteString(file.String())
	return buf.Bytes(), nil
}

func (c *Command) args(path string) []string {
	entry := c.Entry
	if entry == "" {
		entry = DefaultEntry
	}
	tmpl := c.Args
	if len(tmpl) == 0 {
		tmpl = DefaultArgs
	}

	r := strings.NewReplacer(FileArg, path, EntryArg, entry)
	args := make([]string, len(tmpl))
	for i, a := range tmpl {
		args[i] = r.Replace(a)
	}
	return args
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
