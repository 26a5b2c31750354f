package trivia

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// OptionsFormatVersion is the version tag written into every encoded options cell.
const OptionsFormatVersion = 1

// ErrUnknownOptionsFormat is returned for cells written by a newer, unknown encoder.
var ErrUnknownOptionsFormat = errors.New("unknown options format")

type optionsEnvelope struct {
	Version int      `json:"v"`
	Options []string `json:"options"`
}

// EncodeOptions serializes an options list into the versioned cell format
// {"v":1,"options":[...]}.
func EncodeOptions(options []string) (string, error) {
	if options == nil {
		options = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(optionsEnvelope{Version: OptionsFormatVersion, Options: options}); err != nil {
		return "", fmt.Errorf("encode options: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// DecodeOptions parses an options cell. Besides the current versioned format it
// accepts a bare JSON array and the Python list literal written by older
// tooling, e.g. ['Paris', "Rome"]. Nothing is ever evaluated.
func DecodeOptions(cell string) ([]string, error) {
	cell = strings.TrimSpace(cell)
	switch {
	case cell == "":
		return nil, nil
	case strings.HasPrefix(cell, "{"):
		var env optionsEnvelope
		if err := json.Unmarshal([]byte(cell), &env); err != nil {
			return nil, fmt.Errorf("decode options: %w", err)
		}
		if env.Version != OptionsFormatVersion {
			return nil, fmt.Errorf("%w: version %d", ErrUnknownOptionsFormat, env.Version)
		}
		return env.Options, nil
	case strings.HasPrefix(cell, "["):
		var opts []string
		if err := json.Unmarshal([]byte(cell), &opts); err == nil {
			return opts, nil
		}
		return parseListLiteral(cell)
	}
	return nil, fmt.Errorf("decode options: unrecognized cell %q", truncate(cell, 32))
}

// parseListLiteral parses a list of single- or double-quoted string literals.
func parseListLiteral(s string) ([]string, error) {
	p := literalParser{src: s}
	return p.parse()
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) parse() ([]string, error) {
	if !p.consume('[') {
		return nil, p.errorf("expected '['")
	}
	out := []string{}
	p.skipSpace()
	if p.consume(']') {
		return out, p.end()
	}
	for {
		p.skipSpace()
		item, err := p.str()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
		p.skipSpace()
		if p.consume(']') {
			return out, p.end()
		}
		if !p.consume(',') {
			return nil, p.errorf("expected ',' or ']'")
		}
		p.skipSpace()
		// Trailing comma.
		if p.consume(']') {
			return out, p.end()
		}
	}
}

func (p *literalParser) str() (string, error) {
	if p.pos >= len(p.src) {
		return "", p.errorf("unexpected end of input")
	}
	quote := p.src[p.pos]
	if quote != '\'' && quote != '"' {
		return "", p.errorf("expected quoted string")
	}
	p.pos++

	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\\' && p.pos+1 < len(p.src):
			p.pos++
			switch e := p.src[p.pos]; e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\', '\'', '"':
				b.WriteByte(e)
			case 'x', 'u', 'U':
				r, err := p.hexEscape(e)
				if err != nil {
					return "", err
				}
				b.WriteRune(r)
				continue
			default:
				b.WriteByte('\\')
				b.WriteByte(e)
			}
			p.pos++
		default:
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			b.WriteRune(r)
			p.pos += size
		}
	}
	return "", p.errorf("unterminated string")
}

// hexEscape decodes the digits of a \xNN, \uNNNN or \UNNNNNNNN escape.
// p.pos is on the escape letter and is left after the last digit.
func (p *literalParser) hexEscape(kind byte) (rune, error) {
	n := 2
	switch kind {
	case 'u':
		n = 4
	case 'U':
		n = 8
	}
	start := p.pos + 1
	if start+n > len(p.src) {
		return 0, p.errorf(fmt.Sprintf("truncated \\%c escape", kind))
	}
	v, err := strconv.ParseUint(p.src[start:start+n], 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return 0, p.errorf(fmt.Sprintf("invalid \\%c escape %q", kind, p.src[start:start+n]))
	}
	p.pos = start + n
	return rune(v), nil
}

func (p *literalParser) consume(c byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n' || p.src[p.pos] == '\r') {
		p.pos++
	}
}

func (p *literalParser) end() error {
	p.skipSpace()
	if p.pos != len(p.src) {
		return p.errorf("trailing characters")
	}
	return nil
}

func (p *literalParser) errorf(msg string) error {
	return fmt.Errorf("decode options: %s at offset %d", msg, p.pos)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
