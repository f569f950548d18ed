package repl

import (
	"bufio"
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/tliron/commonlog"

	"dream/internal/errors"
)

const (
	PROMPT      = "dream> "
	CONTINUE    = "...... "
	historyFile = ".dream_history"
)

var log = commonlog.GetLogger("dream.repl")

const helpText = `Enter declarations (fn, struct, let, const). Commands:
  :help    show this message
  :source  print the accepted declarations
  :ast     print the syntax tree of the session
  :ir      print the LLVM IR of the session
  :reset   forget every declaration
  :quit    leave the REPL
`

// Prompter reads one line of input. *liner.State implements it.
type Prompter interface {
	Prompt(prompt string) (string, error)
}

// REPL drives a Session from a Prompter
type REPL struct {
	session *Session
	prompt  Prompter
	out     io.Writer
	errOut  io.Writer
}

func New(session *Session, prompt Prompter, out, errOut io.Writer) *REPL {
	return &REPL{session: session, prompt: prompt, out: out, errOut: errOut}
}

// Start runs an interactive session on the terminal with line editing and
// history in the user's home directory
func Start(session *Session) error {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	if path := historyPath(); path != "" {
		if f, err := os.Open(path); err == nil {
			if _, err := state.ReadHistory(f); err != nil {
				log.Warningf("read history: %s", err)
			}
			f.Close()
		}
		defer func() {
			if f, err := os.Create(path); err == nil {
				if _, err := state.WriteHistory(f); err != nil {
					log.Warningf("write history: %s", err)
				}
				f.Close()
			}
		}()
	}

	r := New(session, &historyPrompter{state: state}, os.Stdout, os.Stderr)
	return r.Run()
}

// StartPiped runs a session over a non-terminal reader without prompts
func StartPiped(session *Session, in io.Reader, out, errOut io.Writer) error {
	return New(session, &lineReader{scanner: bufio.NewScanner(in)}, out, errOut).Run()
}

// Run reads chunks until end of input or :quit. A chunk ends at the first
// line that closes every open brace.
func (r *REPL) Run() error {
	var buffer strings.Builder

	for {
		prompt := PROMPT
		if buffer.Len() > 0 {
			prompt = CONTINUE
		}

		input, err := r.prompt.Prompt(prompt)
		if err != nil {
			switch {
			case goerrors.Is(err, liner.ErrPromptAborted):
				fmt.Fprintln(r.out)
				buffer.Reset()
				continue
			case goerrors.Is(err, io.EOF):
				return nil
			default:
				return fmt.Errorf("read input: %w", err)
			}
		}

		if buffer.Len() == 0 && strings.HasPrefix(strings.TrimSpace(input), ":") {
			if quit := r.command(strings.TrimSpace(input)); quit {
				return nil
			}
			continue
		}

		buffer.WriteString(input)
		buffer.WriteString("\n")

		chunk := buffer.String()
		if strings.TrimSpace(chunk) == "" || Incomplete(chunk) {
			if strings.TrimSpace(chunk) == "" {
				buffer.Reset()
			}
			continue
		}
		buffer.Reset()

		r.submit(chunk)
	}
}

func (r *REPL) submit(chunk string) {
	base := len(r.session.Source())
	unit, accepted := r.session.Submit(chunk)

	// Diagnostics of earlier chunks were shown when they were entered
	var fresh []errors.CompilerError
	for _, d := range unit.Diagnostics {
		if d.Position.Offset >= base {
			fresh = append(fresh, d)
		}
	}
	if len(fresh) > 0 {
		reporter := errors.NewReporter(unitName, unit.Source)
		fmt.Fprint(r.errOut, reporter.FormatAll(fresh))
	}

	if !accepted {
		log.Debugf("rejected chunk: %s", errors.Summary(unit.Diagnostics))
		return
	}
	for _, line := range describe(chunk) {
		fmt.Fprintln(r.out, color.GreenString("defined"), line)
	}
}

// command runs a colon command and reports whether the REPL should stop
func (r *REPL) command(input string) bool {
	switch input {
	case ":quit", ":q", ":exit":
		return true
	case ":help", ":h":
		fmt.Fprint(r.out, helpText)
	case ":reset":
		r.session.Reset()
		fmt.Fprintln(r.out, "session cleared")
	case ":source":
		fmt.Fprint(r.out, r.session.Source())
	case ":ast":
		unit := r.session.Current()
		fmt.Fprintln(r.out, unit.Program.String())
	case ":ir":
		unit := r.session.Current()
		fmt.Fprint(r.out, unit.IR)
	default:
		fmt.Fprintf(r.errOut, "unknown command %s, try :help\n", input)
	}
	return false
}

// historyPrompter records every non-empty line in the liner history
type historyPrompter struct {
	state *liner.State
}

func (p *historyPrompter) Prompt(prompt string) (string, error) {
	line, err := p.state.Prompt(prompt)
	if err == nil && strings.TrimSpace(line) != "" {
		p.state.AppendHistory(line)
	}
	return line, err
}

type lineReader struct {
	scanner *bufio.Scanner
}

func (l *lineReader) Prompt(string) (string, error) {
	if l.scanner.Scan() {
		return l.scanner.Text(), nil
	}
	if err := l.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, historyFile)
}
