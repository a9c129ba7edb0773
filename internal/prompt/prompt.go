// Package prompt is the line-based question/answer primitive used by the
// setup workflow. Reads come from an injected reader so command tests can
// script entire sessions.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/term"
)

type Prompter struct {
	in  *bufio.Reader
	out io.Writer

	// set when the underlying reader is a terminal, enabling hidden input
	ttyFD int
	isTTY bool
}

func New(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.ttyFD = int(f.Fd())
		p.isTTY = true
	}
	return p
}

// Say writes a line of guidance on the same stream as the questions, so the
// context and the prompt that follows it stay adjacent.
func (p *Prompter) Say(text string) {
	fmt.Fprintln(p.out, text)
}

// Line prints the label, reads one line, and returns it trimmed. Empty input
// maps to defaultValue (which may itself be empty).
func (p *Prompter) Line(label, defaultValue string) (string, error) {
	if strings.TrimSpace(defaultValue) != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", label, defaultValue)
	} else {
		fmt.Fprintf(p.out, "%s: ", label)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	value := strings.TrimSpace(line)
	if value == "" {
		value = strings.TrimSpace(defaultValue)
	}
	if value == "" && errors.Is(err, io.EOF) {
		return "", errors.New("input closed before value was provided")
	}
	return value, nil
}

// Required re-prompts until the operator enters a non-empty value.
func (p *Prompter) Required(label string) (string, error) {
	for {
		value, err := p.Line(label, "")
		if err != nil {
			return "", err
		}
		if value != "" {
			return value, nil
		}
		fmt.Fprintln(p.out, "value is required")
	}
}

// Pattern re-prompts until the input matches re. The loop is unbounded; the
// only exit besides a match is the input stream closing.
func (p *Prompter) Pattern(label string, re *regexp.Regexp, hint string) (string, error) {
	for {
		value, err := p.Line(label, "")
		if err != nil {
			return "", err
		}
		if re.MatchString(value) {
			return value, nil
		}
		fmt.Fprintln(p.out, hint)
	}
}

// YesNo asks a yes/no question, case-insensitive, re-prompting on anything
// else. Empty input maps to defaultYes.
func (p *Prompter) YesNo(label string, defaultYes bool) (bool, error) {
	def := "no"
	if defaultYes {
		def = "yes"
	}
	for {
		value, err := p.Line(label+" (yes/no)", def)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(value) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, `answer "yes" or "no"`)
	}
}

// Secret reads a value without echoing when attached to a terminal; otherwise
// it degrades to a plain line read. Empty input is allowed.
func (p *Prompter) Secret(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	if p.isTTY {
		b, err := term.ReadPassword(p.ttyFD)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
