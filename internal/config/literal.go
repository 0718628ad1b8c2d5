package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// LiteralStrategy extracts the bindings from a Python source without running
// it. Only top-level assignments of string literals and lists or tuples of
// string literals are understood. A binding touched by any other statement
// (augmented assignment, a conditional block, an import, a method call on
// the list) is left unresolved instead of guessed.
type LiteralStrategy struct{}

func (LiteralStrategy) Name() string { return "literal" }

func (LiteralStrategy) Matches(path string) bool { return matchesPython(path) }

func (LiteralStrategy) Load(_ context.Context, path string) (Bindings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bindings{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseLiteral(string(data))
}

type bindingState struct {
	set     bool
	err     error
	strings []string
}

// ParseLiteral extracts tool_paths and extension from Python source text.
// The last top-level assignment of each binding wins.
func ParseLiteral(src string) (Bindings, error) {
	lines, err := splitLogical(src)
	if err != nil {
		return Bindings{}, err
	}

	var toolPaths, extension bindingState
	for _, ll := range lines {
		applyStatement(ll, "tool_paths", &toolPaths, parseStringSequence)
		applyStatement(ll, "extension", &extension, parseSingleString)
	}

	var errs []error
	if !toolPaths.set {
		errs = append(errs, errors.New("tool_paths is not assigned"))
	} else if toolPaths.err != nil {
		errs = append(errs, toolPaths.err)
	}
	if !extension.set {
		errs = append(errs, errors.New("extension is not assigned"))
	} else if extension.err != nil {
		errs = append(errs, extension.err)
	}
	if len(errs) > 0 {
		return Bindings{}, errors.Join(errs...)
	}

	return Bindings{ToolPaths: toolPaths.strings, Extension: extension.strings[0]}, nil
}

var (
	directAssign = map[string]*regexp.Regexp{}
	rebind       = map[string][]*regexp.Regexp{}

	// starImport can bind any name.
	starImport = regexp.MustCompile(`^from\s.*\bimport\s+\*`)
)

func init() {
	for _, name := range []string{"tool_paths", "extension"} {
		directAssign[name] = regexp.MustCompile(`^` + name + `\s*=($|[^=])`)
		rebind[name] = []*regexp.Regexp{
			regexp.MustCompile(`(^|[^A-Za-z0-9_.])` + name + `\s*(\+|-|\*\*?|//?|%|\||&|\^|>>|<<|@)?=($|[^=])`),
			regexp.MustCompile(`^` + name + `\s*:`),
			regexp.MustCompile(`\bas\s+` + name + `\b`),
			regexp.MustCompile(`^(from\s.*)?import\b.*\b` + name + `\b`),
			regexp.MustCompile(`^for\b.*\b` + name + `\b.*\bin\b`),
			regexp.MustCompile(`^del\b.*\b` + name + `\b`),
		}
	}
	// A list also changes in place through a method, a subscript store or a
	// function it is passed to. Iteration and membership tests stay reads.
	rebind["tool_paths"] = append(rebind["tool_paths"],
		regexp.MustCompile(`(^|[^A-Za-z0-9_.])tool_paths\s*[.\[]`),
		regexp.MustCompile(`[A-Za-z0-9_)\]]\s*\((.*[^A-Za-z0-9_.])?tool_paths\b`))
}

func applyStatement(ll logicalLine, name string, state *bindingState, parse func(string) ([]string, error)) {
	if !ll.indented {
		if loc := directAssign[name].FindStringIndex(ll.code); loc != nil {
			eq := strings.IndexByte(ll.code, '=')
			values, err := parse(ll.text[eq+1:])
			if err != nil {
				err = fmt.Errorf("line %d: %s: %w", ll.line, name, err)
			}
			*state = bindingState{set: true, err: err, strings: values}
			return
		}
	}
	if starImport.MatchString(ll.code) {
		*state = bindingState{
			set: true,
			err: fmt.Errorf("line %d: %s may be bound by a star import", ll.line, name),
		}
		return
	}
	for _, re := range rebind[name] {
		if re.MatchString(ll.code) {
			*state = bindingState{
				set: true,
				err: fmt.Errorf("line %d: %s is bound by a statement that is not a top-level literal assignment", ll.line, name),
			}
			return
		}
	}
}

// logicalLine is one Python statement. code is text with the contents of
// string literals removed, so patterns never match inside strings.
type logicalLine struct {
	text     string
	code     string
	indented bool
	line     int
}

func splitLogical(src string) ([]logicalLine, error) {
	var (
		lines      []logicalLine
		text, code strings.Builder
		depth      int
		line       = 1
		startLine  = 1
		lineStart  = true
		indented   bool
	)

	write := func(s string, codeToo bool) {
		if text.Len() == 0 {
			startLine = line
		}
		text.WriteString(s)
		if codeToo {
			code.WriteString(s)
		}
	}
	writeByte := func(c byte) {
		if text.Len() == 0 {
			startLine = line
		}
		text.WriteByte(c)
		code.WriteByte(c)
	}
	flush := func() {
		if t := strings.TrimSpace(text.String()); t != "" {
			lines = append(lines, logicalLine{
				text:     t,
				code:     strings.TrimSpace(code.String()),
				indented: indented,
				line:     startLine,
			})
		}
		text.Reset()
		code.Reset()
	}

	for i := 0; i < len(src); i++ {
		c := src[i]
		if lineStart {
			if c == ' ' || c == '\t' || c == '\f' {
				indented = true
				continue
			}
			lineStart = false
		}

		switch c {
		case '#':
			for i+1 < len(src) && src[i+1] != '\n' {
				i++
			}
		case '\'', '"':
			end, newlines, err := scanString(src, i)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			write(src[i:end], false)
			code.WriteString(`""`)
			line += newlines
			i = end - 1
		case '(', '[', '{':
			depth++
			writeByte(c)
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
			writeByte(c)
		case '\\':
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
				line++
				writeByte(' ')
				continue
			}
			if i+2 < len(src) && src[i+1] == '\r' && src[i+2] == '\n' {
				i += 2
				line++
				writeByte(' ')
				continue
			}
			writeByte(c)
		case '\r':
		case ';':
			if depth == 0 {
				flush()
				continue
			}
			writeByte(c)
		case '\n':
			line++
			if depth > 0 {
				writeByte(' ')
				continue
			}
			flush()
			indented = false
			lineStart = true
		default:
			writeByte(c)
		}
	}
	if depth > 0 {
		return nil, fmt.Errorf("line %d: unbalanced brackets", startLine)
	}
	flush()
	return lines, nil
}

// scanString returns the index just past the string literal starting at
// src[start] and the number of newlines it spans.
func scanString(src string, start int) (end, newlines int, err error) {
	q := src[start]
	if strings.HasPrefix(src[start:], strings.Repeat(string(q), 3)) {
		delim := strings.Repeat(string(q), 3)
		idx := strings.Index(src[start+3:], delim)
		if idx < 0 {
			return 0, 0, errors.New("unterminated triple-quoted string")
		}
		end = start + 3 + idx + 3
		return end, strings.Count(src[start:end], "\n"), nil
	}
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			if i+1 < len(src) && src[i+1] == '\n' {
				newlines++
			}
			i++
		case '\n':
			return 0, 0, errors.New("unterminated string literal")
		case q:
			return i + 1, newlines, nil
		}
	}
	return 0, 0, errors.New("unterminated string literal")
}

type tokenKind int

const (
	tokString tokenKind = iota
	tokOpen
	tokClose
	tokComma
)

type token struct {
	kind  tokenKind
	value string
}

func tokenize(s string) ([]token, error) {
	var toks []token
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\f':
			i++
		case c == '[' || c == '(':
			toks = append(toks, token{kind: tokOpen, value: string(c)})
			i++
		case c == ']' || c == ')':
			toks = append(toks, token{kind: tokClose, value: string(c)})
			i++
		case c == ',':
			toks = append(toks, token{kind: tokComma})
			i++
		case c == '\'' || c == '"':
			v, n, err := readString(s[i:], false)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokString, value: v})
			i += n
		case isIdentStart(c):
			j := i
			for j < len(s) && isIdentChar(s[j]) {
				j++
			}
			word := s[i:j]
			if j < len(s) && (s[j] == '\'' || s[j] == '"') {
				switch strings.ToLower(word) {
				case "r":
					v, n, err := readString(s[j:], true)
					if err != nil {
						return nil, err
					}
					toks = append(toks, token{kind: tokString, value: v})
					i = j + n
					continue
				case "u":
					v, n, err := readString(s[j:], false)
					if err != nil {
						return nil, err
					}
					toks = append(toks, token{kind: tokString, value: v})
					i = j + n
					continue
				default:
					return nil, fmt.Errorf("unsupported string prefix %q", word)
				}
			}
			return nil, fmt.Errorf("non-literal expression %q", word)
		default:
			return nil, fmt.Errorf("unsupported token %q", string(c))
		}
	}
	return toks, nil
}

// readString decodes one quoted literal at the start of s and returns its
// value and length.
func readString(s string, raw bool) (string, int, error) {
	q := s[0]
	if strings.HasPrefix(s, strings.Repeat(string(q), 3)) {
		return "", 0, errors.New("triple-quoted strings are not supported")
	}
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == q:
			return b.String(), i + 1, nil
		case c == '\\' && i+1 < len(s):
			if raw {
				b.WriteByte(c)
				b.WriteByte(s[i+1])
				i++
				continue
			}
			n, err := decodeEscape(&b, s[i:])
			if err != nil {
				return "", 0, err
			}
			i += n - 1
		default:
			b.WriteByte(c)
		}
	}
	return "", 0, errors.New("unterminated string literal")
}

// decodeEscape writes the value of the escape sequence at the start of s
// and returns its length. Unknown escapes are kept verbatim.
func decodeEscape(b *strings.Builder, s string) (int, error) {
	switch s[1] {
	case '\\':
		b.WriteByte('\\')
	case '\'':
		b.WriteByte('\'')
	case '"':
		b.WriteByte('"')
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'a':
		b.WriteByte('\a')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case '0', '1', '2', '3', '4', '5', '6', '7':
		n := 2
		for n < len(s) && n < 4 && s[n] >= '0' && s[n] <= '7' {
			n++
		}
		v, _ := strconv.ParseUint(s[1:n], 8, 16)
		b.WriteRune(rune(v))
		return n, nil
	case '\n':
	case 'x', 'u', 'U':
		width := map[byte]int{'x': 2, 'u': 4, 'U': 8}[s[1]]
		if len(s) < 2+width {
			return 0, fmt.Errorf("truncated \\%c escape", s[1])
		}
		v, err := strconv.ParseUint(s[2:2+width], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid \\%c escape %q", s[1], s[2:2+width])
		}
		b.WriteRune(rune(v))
		return 2 + width, nil
	default:
		b.WriteByte('\\')
		b.WriteByte(s[1])
	}
	return 2, nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// joinAdjacent concatenates consecutive string tokens.
func joinAdjacent(toks []token) []token {
	var out []token
	for _, t := range toks {
		if t.kind == tokString && len(out) > 0 && out[len(out)-1].kind == tokString {
			out[len(out)-1].value += t.value
			continue
		}
		out = append(out, t)
	}
	return out
}

func parseSingleString(rhs string) ([]string, error) {
	toks, err := tokenize(rhs)
	if err != nil {
		return nil, err
	}
	toks = joinAdjacent(toks)
	if len(toks) != 1 || toks[0].kind != tokString {
		return nil, errors.New("expected a string literal")
	}
	return []string{toks[0].value}, nil
}

func parseStringSequence(rhs string) ([]string, error) {
	toks, err := tokenize(rhs)
	if err != nil {
		return nil, err
	}
	toks = joinAdjacent(toks)
	if len(toks) < 2 || toks[0].kind != tokOpen || toks[len(toks)-1].kind != tokClose {
		return nil, errors.New("expected a list of string literals")
	}
	open, closing := toks[0].value, toks[len(toks)-1].value
	if (open == "[") != (closing == "]") {
		return nil, errors.New("mismatched brackets")
	}

	items := []string{}
	body := toks[1 : len(toks)-1]
	commas := 0
	for i, t := range body {
		want := tokString
		if i%2 == 1 {
			want = tokComma
		}
		if t.kind != want {
			return nil, errors.New("expected a list of string literals")
		}
		if t.kind == tokString {
			items = append(items, t.value)
		} else {
			commas++
		}
	}
	if open == "(" && len(items) == 1 && commas == 0 {
		return nil, errors.New("expected a list of string literals, got a parenthesized string")
	}
	return items, nil
}
