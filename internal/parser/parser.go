package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultMaxArgs is the number of arguments kept from a single line.
const DefaultMaxArgs = 15

// ErrEmpty is returned for lines that hold no command. Callers drop the line
// without a message.
var ErrEmpty = errors.New("empty command line")

// SyntaxError rejects the whole line before anything is launched.
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string {
	return "*** Syntax error: " + e.Msg
}

// Command is a parsed line.
type Command struct {
	Argv       []string
	Background bool
	Redirect   string
}

type state int

const (
	stateInit state = iota
	stateParse
	stateRedirect
	stateEOL
)

const delimiters = " \t\n&>"

type Parser struct {
	MaxArgs int
	Warn    io.Writer
}

func New(maxArgs int, warn io.Writer) *Parser {
	if maxArgs <= 0 {
		maxArgs = DefaultMaxArgs
	}
	if warn == nil {
		warn = io.Discard
	}
	return &Parser{MaxArgs: maxArgs, Warn: warn}
}

// Parse splits a line into a single statement, warning on stderr.
func Parse(line string) (Command, error) {
	return New(DefaultMaxArgs, os.Stderr).Parse(line)
}

// Parse runs the tokenizer state machine over line. Tokens end at blanks,
// '&' and '>'; the end of the line ends the last token.
func (p *Parser) Parse(line string) (Command, error) {
	var cmd Command
	st := stateInit
	start := 0

	for i := 0; i <= len(line); i++ {
		delim := byte('\n')
		if i < len(line) {
			if !strings.ContainsRune(delimiters, rune(line[i])) {
				continue
			}
			delim = line[i]
		}

		if tok := line[start:i]; tok != "" {
			switch st {
			case stateInit, stateParse:
				if len(cmd.Argv) >= p.MaxArgs {
					p.warnf("Too many arguments: current argument will be silently ignored.")
					break
				}
				cmd.Argv = append(cmd.Argv, tok)
				st = stateParse
			case stateRedirect:
				// ">file&" is a valid backgrounded truncation
				cmd.Redirect = tok
				st = stateParse
			case stateEOL:
				p.warnf("Multiple statements on one line: not implemented.")
				return cmd, nil
			}
		}
		start = i + 1

		switch delim {
		case '&':
			if st != stateParse {
				return Command{}, &SyntaxError{Msg: "Unexpected `&': a command was expected."}
			}
			cmd.Background = true
			st = stateEOL
		case '>':
			if st == stateParse || st == stateInit {
				if cmd.Redirect != "" {
					p.warnf("Multiple redirections: last one wins.")
				}
				st = stateRedirect
			}
		}
	}

	switch st {
	case stateRedirect:
		return Command{}, &SyntaxError{Msg: "Unexpected end of line: a filename was expected."}
	case stateParse, stateEOL:
		if len(cmd.Argv) == 0 {
			return Command{}, ErrEmpty
		}
		return cmd, nil
	default:
		return Command{}, ErrEmpty
	}
}

func (p *Parser) warnf(format string, args ...any) {
	fmt.Fprintf(p.Warn, "warning: "+format+"\n", args...)
}
