package core

import (
	"fmt"
	"strings"
)

// Spec surface syntax:
//
//	spec-list    = { spec { "^" spec } }
//	spec         = id { "@" version-list | "+" id | ("-"|"~") id
//	               | "%" compiler | "=" id }
//	compiler     = id [ "@" version-list ]
//	version-list = version { "," version }
//	version      = id | id ":" | ":" id | id ":" id
//	id           = [A-Za-z0-9_][A-Za-z0-9_.-]*
//
// One part is context-sensitive: ids in versions may contain '.', other
// ids may not. One part is ambiguous: '-' is a legal id character, so a
// disabled variant needs whitespace before '-', or '~' instead. The
// canonical printed form uses '~' everywhere; '-' exists only because '~'
// expands in some shells when it starts a word.

type tokenKind int

const (
	tokDep tokenKind = iota
	tokAt
	tokColon
	tokComma
	tokOn
	tokOff
	tokPct
	tokEq
	tokID
)

type token struct {
	kind  tokenKind
	value string
	pos   int
}

func isIDStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isIDChar(c byte) bool {
	return isIDStart(c) || c == '.' || c == '-'
}

// lexSpec tokenizes a spec string.
func lexSpec(input string) ([]token, error) {
	var out []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '^':
			out = append(out, token{tokDep, "^", i})
			i++
		case c == '@':
			out = append(out, token{tokAt, "@", i})
			i++
		case c == ':':
			out = append(out, token{tokColon, ":", i})
			i++
		case c == ',':
			out = append(out, token{tokComma, ",", i})
			i++
		case c == '+':
			out = append(out, token{tokOn, "+", i})
			i++
		case c == '-' || c == '~':
			out = append(out, token{tokOff, string(c), i})
			i++
		case c == '%':
			out = append(out, token{tokPct, "%", i})
			i++
		case c == '=':
			out = append(out, token{tokEq, "=", i})
			i++
		case isIDStart(c):
			start := i
			for i < len(input) && isIDChar(input[i]) {
				i++
			}
			out = append(out, token{tokID, input[start:i], start})
		default:
			return nil, &ParseError{Msg: "unexpected character " + string(c), Input: input, Pos: i}
		}
	}
	return out, nil
}

// specParser is a recursive-descent parser over the token stream.
type specParser struct {
	input  string
	tokens []token
	next   int
	last   token
}

// Parse returns the list of specs in the input string. Dependencies
// written with "^" hang off the most recent top-level spec.
func Parse(input string) ([]*Spec, error) {
	tokens, err := lexSpec(input)
	if err != nil {
		return nil, err
	}
	p := &specParser{input: input, tokens: tokens}

	var specs []*Spec
	for p.more() {
		switch {
		case p.accept(tokID):
			spec, err := p.spec()
			if err != nil {
				return nil, err
			}
			specs = append(specs, spec)
		case p.accept(tokDep):
			if len(specs) == 0 {
				return nil, p.errorf("dependency has no package")
			}
			if err := p.expect(tokID); err != nil {
				return nil, err
			}
			dep, err := p.spec()
			if err != nil {
				return nil, err
			}
			if err := specs[len(specs)-1].AddDependency(dep); err != nil {
				return nil, err
			}
		default:
			return nil, p.errorf("unexpected token %q", p.peek().value)
		}
	}
	return specs, nil
}

// ParseOne parses a string containing exactly one spec.
func ParseOne(input string) (*Spec, error) {
	specs, err := Parse(input)
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, &ParseError{Msg: "string contains no specs", Input: input}
	}
	if len(specs) > 1 {
		return nil, &ParseError{Msg: "more than one spec in string", Input: input}
	}
	return specs[0], nil
}

// ParseAnonymous parses a spec that may omit the leading package name,
// assuming pkgName when it does. Packages use this for provide clauses
// and when-conditions on themselves: "@1.2:" means "me, at 1.2 or newer".
func ParseAnonymous(input string, pkgName string) (*Spec, error) {
	spec, err := ParseOne(input)
	if err == nil && spec.Name == pkgName {
		return spec, nil
	}
	spec, err = ParseOne(pkgName + input)
	if err != nil {
		return nil, err
	}
	if spec.Name != pkgName {
		return nil, &ParseError{Msg: "spec name does not match package " + pkgName, Input: input}
	}
	return spec, nil
}

// spec parses one spec after its leading ID token has been accepted.
func (p *specParser) spec() (*Spec, error) {
	if err := p.checkIdentifier(); err != nil {
		return nil, err
	}
	spec := newSpecNode(p.last.value)

	addedVersion := false
	for p.more() {
		switch {
		case p.accept(tokAt):
			list, err := p.versionList()
			if err != nil {
				return nil, err
			}
			if !addedVersion {
				spec.Versions = &VersionList{}
			}
			for _, span := range list {
				spec.Versions.addSpan(span)
			}
			addedVersion = true

		case p.accept(tokOn):
			name, err := p.variant()
			if err != nil {
				return nil, err
			}
			if err := addVariant(spec, name, true); err != nil {
				return nil, err
			}

		case p.accept(tokOff):
			name, err := p.variant()
			if err != nil {
				return nil, err
			}
			if err := addVariant(spec, name, false); err != nil {
				return nil, err
			}

		case p.accept(tokPct):
			compiler, err := p.compiler()
			if err != nil {
				return nil, err
			}
			if spec.Compiler != nil {
				return nil, &DuplicateCompilerError{Spec: spec.Name}
			}
			spec.Compiler = compiler

		case p.accept(tokEq):
			if err := p.expect(tokID); err != nil {
				return nil, err
			}
			if err := p.checkIdentifier(); err != nil {
				return nil, err
			}
			if spec.Architecture != "" {
				return nil, &DuplicateArchitectureError{Spec: spec.Name}
			}
			spec.Architecture = p.last.value

		default:
			return spec, nil
		}
	}
	return spec, nil
}

func addVariant(spec *Spec, name string, enabled bool) error {
	if _, ok := spec.Variants[name]; ok {
		return &DuplicateVariantError{Name: name}
	}
	spec.Variants[name] = Variant{Name: name, Enabled: enabled}
	return nil
}

func (p *specParser) variant() (string, error) {
	if err := p.expect(tokID); err != nil {
		return "", err
	}
	if err := p.checkIdentifier(); err != nil {
		return "", err
	}
	return p.last.value, nil
}

// version parses a single version atom: a point, or a range with either
// end open.
func (p *specParser) version() (versionSpan, error) {
	var start, end string
	hasStart := false
	if p.accept(tokID) {
		start = p.last.value
		hasStart = true
	}
	if !p.accept(tokColon) {
		if hasStart {
			return pointSpan(NewVersion(start)), nil
		}
		return versionSpan{}, p.errorf("invalid version specifier")
	}
	if p.accept(tokID) {
		end = p.last.value
	}
	rng := VersionRange{}
	if hasStart {
		v := NewVersion(start)
		rng.Lo = &v
	}
	if end != "" {
		v := NewVersion(end)
		rng.Hi = &v
	}
	return rangeSpan(rng), nil
}

func (p *specParser) versionList() ([]versionSpan, error) {
	var out []versionSpan
	span, err := p.version()
	if err != nil {
		return nil, err
	}
	out = append(out, span)
	for p.accept(tokComma) {
		span, err := p.version()
		if err != nil {
			return nil, err
		}
		out = append(out, span)
	}
	return out, nil
}

// compiler parses the clause after "%". A version list binds to the
// compiler only when it immediately follows the compiler name; a later
// "@" in the same spec belongs to the package.
func (p *specParser) compiler() (*Compiler, error) {
	if err := p.expect(tokID); err != nil {
		return nil, err
	}
	if err := p.checkIdentifier(); err != nil {
		return nil, err
	}
	compiler := NewCompiler(p.last.value)
	if p.accept(tokAt) {
		compiler.Versions = &VersionList{}
		list, err := p.versionList()
		if err != nil {
			return nil, err
		}
		for _, span := range list {
			compiler.Versions.addSpan(span)
		}
	}
	return compiler, nil
}

// checkIdentifier rejects '.' in the last ID. Only version ids may
// contain dots, and those never reach this check.
func (p *specParser) checkIdentifier() error {
	if strings.Contains(p.last.value, ".") {
		return &ParseError{Msg: "identifier cannot contain '.'", Input: p.input, Pos: p.last.pos}
	}
	return nil
}

func (p *specParser) more() bool {
	return p.next < len(p.tokens)
}

func (p *specParser) peek() token {
	return p.tokens[p.next]
}

func (p *specParser) accept(kind tokenKind) bool {
	if !p.more() || p.tokens[p.next].kind != kind {
		return false
	}
	p.last = p.tokens[p.next]
	p.next++
	return true
}

func (p *specParser) expect(kind tokenKind) error {
	if !p.accept(kind) {
		if p.more() {
			return p.errorf("unexpected token %q", p.peek().value)
		}
		return p.errorf("unexpected end of input")
	}
	return nil
}

func (p *specParser) errorf(format string, args ...any) error {
	pos := len(p.input)
	if p.more() {
		pos = p.peek().pos
	}
	return &ParseError{Msg: fmt.Sprintf(format, args...), Input: p.input, Pos: pos}
}
