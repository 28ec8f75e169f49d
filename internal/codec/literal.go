package codec

import (
	"errors"
	"strconv"
	"strings"
)

var errNotLiteral = errors.New("not a literal")

// parseLiteral evaluates s as a plain data literal: an integer, a float, a
// quoted string, or a bracketed sequence of those (recursively). It never
// evaluates anything beyond data, and any input it does not fully consume
// is rejected so the caller can keep the raw text.
//
// Leading-zero integers ("007") parse as numbers. That can reclassify
// numeric-looking identifiers, which is inherent to guessing types from
// untyped wire text.
func parseLiteral(s string) (any, error) {
	p := &litParser{src: s}
	p.skipSpace()
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, errNotLiteral
	}
	return v, nil
}

type litParser struct {
	src string
	pos int
}

func (p *litParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *litParser) value() (any, error) {
	if p.pos >= len(p.src) {
		return nil, errNotLiteral
	}
	switch c := p.src[p.pos]; c {
	case '[':
		return p.sequence(']')
	case '(':
		return p.sequence(')')
	case '\'', '"':
		return p.quoted(c)
	default:
		return p.number()
	}
}

func (p *litParser) sequence(close byte) ([]any, error) {
	p.pos++ // opening bracket
	items := []any{}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, errNotLiteral
		}
		if p.src[p.pos] == close {
			p.pos++
			return items, nil
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, errNotLiteral
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case close:
		default:
			return nil, errNotLiteral
		}
	}
}

func (p *litParser) quoted(quote byte) (string, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case quote:
			p.pos++
			return b.String(), nil
		case '\\':
			if p.pos+1 >= len(p.src) {
				return "", errNotLiteral
			}
			p.pos++
			switch esc := p.src[p.pos]; esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(esc)
			}
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", errNotLiteral
}

func (p *litParser) number() (any, error) {
	start := p.pos
	if p.pos < len(p.src) && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
		p.pos++
	}
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= '0' && c <= '9' || c == '.' || c == 'e' || c == 'E' ||
			(c == '+' || c == '-') && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E') {
			p.pos++
			continue
		}
		break
	}
	tok := p.src[start:p.pos]
	if tok == "" || tok == "+" || tok == "-" {
		return nil, errNotLiteral
	}
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return f, nil
	}
	return nil, errNotLiteral
}
