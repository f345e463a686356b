// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package preprocessor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/EngFlow/cpreproc/internal/cc/lexer"
)

// directiveNames is the recognized directive set, in dispatch order. Only
// include, error, warning, and define have handlers; the rest are reserved
// no-ops, kept here so they are recognized (rather than diagnosed as
// unknown) without doing anything.
var directiveNames = []string{
	"include", "error", "warning", "define", "undef", "if", "elif", "ifdef", "endif",
}

// errStopParsing is an internal control-flow signal, never returned to
// callers: it unwinds ParseFile's loop without an error, for the one case
// where the source behavior this preprocessor preserves is "stop silently"
// (an unrecognized or malformed directive name; see DESIGN.md).
var errStopParsing = errors.New("preprocessor: stop parsing")

// ParseFile reads source from r (identified by filename only for
// diagnostics), writes the expanded form to out, and returns when EOF is
// reached or a hard error occurs. #include recursively invokes ParseFile
// with the same Context, so the macro table and diagnostics sink are shared
// across the whole include tree.
func ParseFile(ctx *Context, r io.Reader, filename string, out io.Writer) error {
	tz := lexer.New(r,
		lexer.WithMultiLineComment(ctx.MultiLineCommentStart, ctx.MultiLineCommentEnd),
		lexer.WithSingleLineComment(ctx.SingleLineCommentStart),
	)
	s := &session{ctx: ctx, tz: tz, filename: filename, out: out}
	err := s.run()
	if errors.Is(err, errStopParsing) {
		return nil
	}
	return err
}

// session is one ParseFile invocation's state: its tokenizer, the output
// sink, and the filename used in diagnostics. It does not hold the macro
// table directly -- that lives on the shared Context -- so recursive
// #include calls get independent sessions over the same Context.
type session struct {
	ctx      *Context
	tz       *lexer.Tokenizer
	filename string
	out      io.Writer
}

func (s *session) diag(kind string, loc lexer.Cursor, msg string) {
	report(s.ctx, s.filename, kind, loc, s.tz.Buffer(), msg)
}

func (s *session) lexError(tok lexer.Token) error {
	switch tok.Kind {
	case lexer.TokenKind_Overflow:
		s.diag("error", tok.Location, "tokenizer buffer overflow")
	default:
		s.diag("error", tok.Location, "unexpected tokenizer error")
	}
	return fmt.Errorf("%w: malformed input at %s", ErrLexical, tok.Location)
}

func (s *session) run() error {
	for {
		tok, ok := s.tz.Next()
		if !ok {
			return s.lexError(tok)
		}
		if tok.Kind == lexer.TokenKind_EOF {
			return nil
		}

		atLineStart := tok.Location.Column == 0
		if atLineStart {
			var skipped int
			tok, ok, skipped = s.skipLeadingWhitespace(tok)
			if !ok {
				return s.lexError(tok)
			}
			if skipped > 0 {
				io.WriteString(s.out, " ")
			}
			if tok.Kind == lexer.TokenKind_EOF {
				return nil
			}
		}

		if s.tz.GapBefore() {
			io.WriteString(s.out, " ")
		}

		if tok.Kind == lexer.TokenKind_Separator && tok.Value == '#' {
			if !atLineStart {
				s.diag("error", tok.Location, "stray #")
				return fmt.Errorf("%w: stray '#'", ErrSyntax)
			}
			if err := s.parseDirective(); err != nil {
				return err
			}
			continue
		}

		if tok.Kind == lexer.TokenKind_Identifier {
			e := &expander{ctx: s.ctx, filename: s.filename}
			if err := e.expand(s.out, s.tz, tok.Text, 0); err != nil {
				return err
			}
			continue
		}

		writeToken(s.out, tok)
	}
}

// skipLeadingWhitespace consumes leading horizontal-whitespace SEP tokens
// starting from an already-fetched first-of-line token, returning the first
// non-whitespace token found and how many were skipped.
func (s *session) skipLeadingWhitespace(tok lexer.Token) (lexer.Token, bool, int) {
	count := 0
	for tok.Kind == lexer.TokenKind_Separator && isHorizontalWhitespace(tok.Value) {
		count++
		var ok bool
		tok, ok = s.tz.Next()
		if !ok {
			return tok, false, count
		}
	}
	return tok, true, count
}

// nextSkippingWhitespace fetches the next token, silently skipping any
// separator for which isWhitespaceValue is true (space, tab, newline, and
// friends) -- matching the source's "expect" helper, which skips all
// whitespace, not just the horizontal kind, when looking for a specific
// token shape.
func (s *session) nextSkippingWhitespace() (lexer.Token, bool) {
	for {
		tok, ok := s.tz.Next()
		if !ok {
			return tok, false
		}
		if tok.Kind == lexer.TokenKind_Separator && isWhitespaceValue(tok.Value) {
			continue
		}
		return tok, true
	}
}

// expectIdentifierAmong fetches the next non-whitespace token and checks it
// is an IDENTIFIER whose text is one of names, returning the matched name.
func (s *session) expectIdentifierAmong(names []string) (string, bool) {
	tok, ok := s.nextSkippingWhitespace()
	if !ok || tok.Kind == lexer.TokenKind_EOF || tok.Kind != lexer.TokenKind_Identifier {
		s.diag("error", tok.Location, "unexpected token")
		return "", false
	}
	for _, n := range names {
		if n == tok.Text {
			return n, true
		}
	}
	return "", false
}

func (s *session) parseDirective() error {
	name, ok := s.expectIdentifierAmong(directiveNames)
	if !ok {
		// Unrecognized or malformed directive name: the behavior this
		// preprocessor preserves from its source is to stop parsing the
		// whole file at this point, successfully, not just this line.
		return errStopParsing
	}
	switch name {
	case "include":
		return s.handleInclude()
	case "error":
		return s.handleErrorOrWarning(true)
	case "warning":
		return s.handleErrorOrWarning(false)
	case "define":
		return s.parseMacroDefinition()
	default: // undef, if, elif, ifdef, endif: reserved, no-ops
		return s.skipRestOfLine()
	}
}

// skipRestOfLine discards input through the next newline without emitting
// it, so a directive line never leaves a stray blank line in the output.
func (s *session) skipRestOfLine() error {
	s.tz.ReadUntil('\n', true)
	return nil
}

func (s *session) handleInclude() error {
	s.tz.SetParseStrings(false)
	defer s.tz.SetParseStrings(true)

	open, ok := s.nextSkippingWhitespace()
	if !ok || open.Kind != lexer.TokenKind_Separator || (open.Value != '"' && open.Value != '<') {
		s.diag("error", open.Location, `expected one of ["<]`)
		return fmt.Errorf("%w: expected '\"' or '<' after #include", ErrSyntax)
	}
	terminator := byte('"')
	if open.Value == '<' {
		terminator = '>'
	}

	name, ok := s.tz.ReadUntil(terminator, false)
	if !ok {
		s.diag("error", open.Location, "error parsing filename")
		return fmt.Errorf("%w: unterminated include filename", ErrSyntax)
	}

	closeTok, ok := s.tz.Next()
	if !ok || closeTok.Kind != lexer.TokenKind_Separator || closeTok.Value != terminator {
		s.diag("error", closeTok.Location, "malformed #include")
		return fmt.Errorf("%w: malformed #include", ErrSyntax)
	}

	if err := s.skipRestOfLine(); err != nil {
		return err
	}

	rc, err := s.ctx.open(name)
	if err != nil {
		s.diag("error", open.Location, err.Error())
		return fmt.Errorf("%w: %s: %v", ErrInclude, name, err)
	}
	defer rc.Close()

	return ParseFile(s.ctx, rc, name, s.out)
}

func (s *session) handleErrorOrWarning(isError bool) error {
	s.tz.SkipChars(" \t")
	loc := s.tz.Location()
	msg, _ := s.tz.ReadUntil('\n', true)
	msg = strings.TrimSuffix(msg, "\n")

	if isError {
		s.diag("error", loc, msg)
		return fmt.Errorf("%w: %s", ErrUserError, msg)
	}
	s.diag("warning", loc, msg)
	return nil
}

func (s *session) parseMacroDefinition() error {
	s.tz.SkipChars(" \t")
	nameTok, ok := s.tz.Next()
	if !ok {
		return s.lexError(nameTok)
	}
	if nameTok.Kind == lexer.TokenKind_EOF {
		s.diag("error", nameTok.Location, "parsing macro name")
		return fmt.Errorf("%w: expected macro name", ErrSyntax)
	}
	if nameTok.Kind != lexer.TokenKind_Identifier {
		s.diag("error", nameTok.Location, "expected identifier")
		return fmt.Errorf("%w: expected identifier after #define", ErrSyntax)
	}
	name := nameTok.Text

	next, ok := s.tz.Next()
	if !ok {
		return s.lexError(next)
	}

	var params []string
	switch {
	case next.Kind == lexer.TokenKind_Separator && next.Value == '(':
		params, ok = s.parseParamList()
		if !ok {
			return fmt.Errorf("%w: malformed macro parameter list for %q", ErrSyntax, name)
		}
	case next.Kind == lexer.TokenKind_Separator && isHorizontalWhitespace(next.Value):
		// object-like; nothing further to parse before the body.
	default:
		s.diag("error", next.Location, "unexpected!")
		return fmt.Errorf("%w: malformed macro definition for %q", ErrSyntax, name)
	}

	body, err := s.captureMacroBody()
	if err != nil {
		return err
	}
	s.ctx.Macros.Define(name, Definition{Params: params, Body: body})
	return nil
}

// parseParamList parses a function-like macro's parameter list, the
// opening '(' already consumed. An immediate ')' is an empty list, leaving
// the macro indistinguishable from object-like (see Definition.IsFunctionLike).
func (s *session) parseParamList() ([]string, bool) {
	s.tz.SkipChars(" \t")
	var params []string

	tok, ok := s.tz.Next()
	for {
		if !ok || tok.Kind != lexer.TokenKind_Identifier {
			if ok && tok.Kind == lexer.TokenKind_Separator && tok.Value == ')' && len(params) == 0 {
				s.tz.SkipChars(" \t")
				return params, true
			}
			s.diag("error", tok.Location, "expected identifier for macro arg")
			return nil, false
		}
		params = append(params, tok.Text)

		sep, sok := s.tz.Next()
		if !sok || sep.Kind != lexer.TokenKind_Separator {
			s.diag("error", sep.Location, "expected ) or ,")
			return nil, false
		}
		switch sep.Value {
		case ')':
			s.tz.SkipChars(" \t")
			return params, true
		case ',':
			s.tz.SkipChars(" \t")
			tok, ok = s.tz.Next()
		default:
			s.diag("error", sep.Location, "unexpected character")
			return nil, false
		}
	}
}

// captureMacroBody streams tokens verbatim into a byte buffer until an
// unescaped newline, honoring backslash-newline as a line continuation: a
// lone '\' not immediately followed by '\n' is emitted literally along with
// whatever followed it.
func (s *session) captureMacroBody() ([]byte, error) {
	var buf bytes.Buffer
	pendingBackslash := false

	for {
		tok, ok := s.tz.Next()
		if !ok {
			return nil, s.lexError(tok)
		}
		if tok.Kind == lexer.TokenKind_EOF {
			break
		}
		if s.tz.GapBefore() && !pendingBackslash {
			buf.WriteByte(' ')
		}

		isBackslash := tok.Kind == lexer.TokenKind_Separator && tok.Value == '\\'
		isNewline := tok.Kind == lexer.TokenKind_Separator && tok.Value == '\n'

		if isBackslash {
			if pendingBackslash {
				buf.WriteByte('\\')
			}
			pendingBackslash = true
			continue
		}
		if pendingBackslash {
			if isNewline {
				pendingBackslash = false
				continue
			}
			buf.WriteByte('\\')
			pendingBackslash = false
		}
		if isNewline {
			break
		}
		writeToken(&buf, tok)
	}
	if pendingBackslash {
		buf.WriteByte('\\')
	}
	return buf.Bytes(), nil
}
