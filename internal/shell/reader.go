// Package shell implements the minimal s-expression reader and evaluator
// cmd/wisp's repl and eval subcommands drive. It is not a general Scheme
// reader: the grammar covers just enough of the surface (numbers via
// numio, quote, a fixed special-form table, a handful of built-in
// procedures) to exercise guard, dynamic-wind and delay/force from the
// command line. Parsing a full reader/writer, a bytecode compiler or a
// real lambda-capable evaluator is out of scope, same as it is for the
// runtime core this package drives.
package shell

import (
	"fmt"
	"strings"
	"unicode"

	"wisp/internal/numio"
	"wisp/internal/wispval"
)

// Read parses the single leading form in text and returns it along with
// whatever text followed it. ok is false when text holds no form at all
// (blank or all-whitespace).
func Read(text string) (form wispval.Value, rest string, ok bool, err error) {
	p := &reader{s: text}
	p.skipSpace()
	if p.atEnd() {
		return nil, p.s[p.i:], false, nil
	}
	v, err := p.readForm()
	if err != nil {
		return nil, "", false, err
	}
	return v, p.s[p.i:], true, nil
}

type reader struct {
	s string
	i int
}

func (p *reader) atEnd() bool { return p.i >= len(p.s) }

func (p *reader) peek() byte { return p.s[p.i] }

func (p *reader) skipSpace() {
	for !p.atEnd() {
		c := p.peek()
		if c == ';' {
			for !p.atEnd() && p.peek() != '\n' {
				p.i++
			}
			continue
		}
		if unicode.IsSpace(rune(c)) {
			p.i++
			continue
		}
		break
	}
}

func (p *reader) readForm() (wispval.Value, error) {
	p.skipSpace()
	if p.atEnd() {
		return nil, fmt.Errorf("unexpected end of input")
	}

	switch c := p.peek(); {
	case c == '(':
		return p.readList()
	case c == ')':
		return nil, fmt.Errorf("unexpected ')'")
	case c == '\'':
		p.i++
		inner, err := p.readForm()
		if err != nil {
			return nil, err
		}
		return wispval.List(wispval.Intern("quote"), inner), nil
	case c == '"':
		return p.readString()
	case c == '#':
		return p.readHash()
	default:
		return p.readAtom()
	}
}

func (p *reader) readList() (wispval.Value, error) {
	p.i++ // consume '('
	var items []wispval.Value
	for {
		p.skipSpace()
		if p.atEnd() {
			return nil, fmt.Errorf("unterminated list")
		}
		if p.peek() == ')' {
			p.i++
			return wispval.List(items...), nil
		}
		item, err := p.readForm()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

func (p *reader) readString() (wispval.Value, error) {
	p.i++ // consume opening quote
	var b strings.Builder
	for {
		if p.atEnd() {
			return nil, fmt.Errorf("unterminated string literal")
		}
		c := p.s[p.i]
		if c == '"' {
			p.i++
			return wispval.String(b.String()), nil
		}
		if c == '\\' && p.i+1 < len(p.s) {
			p.i++
			switch p.s[p.i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(p.s[p.i])
			}
			p.i++
			continue
		}
		b.WriteByte(c)
		p.i++
	}
}

// readHash handles #t, #f and the number-prefix forms (#e, #i, #b, #o,
// #d, #x), delegating the latter to numio once the whole token is in hand.
func (p *reader) readHash() (wispval.Value, error) {
	switch {
	case strings.HasPrefix(p.s[p.i:], "#t"):
		p.i += 2
		return wispval.True, nil
	case strings.HasPrefix(p.s[p.i:], "#f"):
		p.i += 2
		return wispval.False, nil
	default:
		return p.readAtom()
	}
}

func isDelimiter(c byte) bool {
	return unicode.IsSpace(rune(c)) || c == '(' || c == ')' || c == '"' || c == ';'
}

// readAtom scans a token and tries to parse it as a number first (the
// only grammar this shell actually owns a printer/reader for); anything
// numio rejects becomes an interned symbol instead.
func (p *reader) readAtom() (wispval.Value, error) {
	start := p.i
	for !p.atEnd() && !isDelimiter(p.peek()) {
		p.i++
	}
	tok := p.s[start:p.i]
	if tok == "" {
		return nil, fmt.Errorf("empty token")
	}

	if v, ok, err := numio.Parse([]byte(tok), 10, true); err == nil && ok {
		return v, nil
	}
	return wispval.Intern(tok), nil
}
