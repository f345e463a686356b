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

// Package lexer implements the character-level tokenizer: a stateful scanner
// that turns a byte stream into a sequence of Tokens carrying source
// coordinates. It supports bounded pushback, skips single- and multi-line
// comments, and can optionally lex quoted strings as single tokens.
package lexer

import (
	"errors"
	"io"
	"strings"
)

// DefaultBufferCapacity is the tokenizer's accumulation buffer size used
// when no WithBufferCapacity option is given. The original C implementation
// hard-codes 4096; this is kept as the default for parity.
const DefaultBufferCapacity = 4096

var (
	// ErrUnterminatedComment is returned by the comment skipper when a
	// multi-line comment never finds its closing marker before EOF; Next
	// turns it into an Unknown token with a false success flag. The original
	// C tokenizer has no such check and instead spins forever re-reading EOF
	// inside ignore_until; this implementation stops instead of hanging (see
	// DESIGN.md, open question (c)).
	ErrUnterminatedComment = errors.New("lexer: unterminated comment")
)

// Tokenizer scans a byte stream into Tokens. The zero value is not usable;
// construct with New.
type Tokenizer struct {
	pb     *pushbackReader
	line   int
	column int

	bufCap int
	buf    strings.Builder // current/most recent accumulated lexeme

	mlStart, mlEnd string
	slStart        string
	parseStrings   bool

	commentPending bool // previous Next() ended because a comment interrupted an in-progress lexeme
	gapBefore      bool // the token just returned was immediately preceded by such a comment
}

// Option configures a Tokenizer at construction time.
type Option func(*Tokenizer)

// WithMultiLineComment registers the start/end markers of a multi-line
// comment, e.g. ("/*", "*/"). Passing an empty start disables multi-line
// comment recognition.
func WithMultiLineComment(start, end string) Option {
	return func(t *Tokenizer) { t.mlStart, t.mlEnd = start, end }
}

// WithSingleLineComment registers the start marker of a single-line
// comment, e.g. "//". Passing an empty string disables it.
func WithSingleLineComment(start string) Option {
	return func(t *Tokenizer) { t.slStart = start }
}

// WithParseStrings controls whether an unescaped quote begins a string
// literal token (true, the default) or is treated as an ordinary separator
// character (false). The preprocessor toggles this off while parsing an
// #include filename.
func WithParseStrings(enabled bool) Option {
	return func(t *Tokenizer) { t.parseStrings = enabled }
}

// WithBufferCapacity overrides the accumulation buffer capacity. Must be
// at least DefaultBufferCapacity worth of headroom for realistic sources;
// smaller values are accepted to make OVERFLOW easy to exercise in tests.
func WithBufferCapacity(n int) Option {
	return func(t *Tokenizer) { t.bufCap = n }
}

// New constructs a Tokenizer reading from r. r may be an *os.File for the
// primary source or an #include'd file, or a *bytes.Reader replaying a
// captured macro body or argument -- the tokenizer only ever needs a plain
// byte source, since it manages its own pushback. By default strings are
// parsed as single tokens and no comment markers are registered; use the
// With* options to configure comment markers and parsing mode.
func New(r io.Reader, opts ...Option) *Tokenizer {
	t := &Tokenizer{
		pb:           newPushbackReader(r),
		line:         1,
		column:       0,
		bufCap:       DefaultBufferCapacity,
		parseStrings: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetParseStrings toggles string-literal lexing at runtime, mirroring the
// original tokenizer_set_flags(TF_PARSE_STRINGS) call the preprocessor
// makes around #include directives.
func (t *Tokenizer) SetParseStrings(enabled bool) { t.parseStrings = enabled }

// Location returns the tokenizer's current position, i.e. where the next
// token would start absent any pending pushback.
func (t *Tokenizer) Location() Cursor { return Cursor{Line: t.line, Column: t.column} }

// Buffer returns the text of the most recently produced token, regardless
// of its kind -- used by diagnostics to echo and underline the offending
// lexeme, matching the original's direct use of t->buf for error reporting.
func (t *Tokenizer) Buffer() string { return t.buf.String() }

// GapBefore reports whether the token just returned by Next abutted a
// comment that was removed from the stream: the comment produced no token
// of its own, but without some marker a consumer reproducing source text
// would splice two otherwise-adjacent lexemes together. It is false when a
// comment precedes the very first lexeme of a Next call, since there is
// nothing on that call's left to splice with.
func (t *Tokenizer) GapBefore() bool { return t.gapBefore }

func (t *Tokenizer) getc() int {
	return t.pb.getc()
}

func (t *Tokenizer) ungetc(c int) {
	t.pb.ungetc(c)
}

// matchMarker peeks whether the upcoming bytes equal marker, without
// consuming them. marker must be no longer than the pushback ring capacity
// (8 bytes) -- true of any realistic comment marker.
func (t *Tokenizer) matchMarker(marker string) bool {
	if marker == "" {
		return false
	}
	consumed := make([]int, 0, len(marker))
	ok := true
	for i := 0; i < len(marker); i++ {
		c := t.getc()
		consumed = append(consumed, c)
		if c == eof || byte(c) != marker[i] {
			ok = false
			break
		}
	}
	for i := len(consumed) - 1; i >= 0; i-- {
		t.ungetc(consumed[i])
	}
	return ok
}

// consumeMarker re-reads and discards exactly len(marker) bytes, which must
// have just been confirmed present by matchMarker.
func (t *Tokenizer) consumeMarker(marker string) {
	for i := 0; i < len(marker); i++ {
		t.getc()
		t.column++
	}
}

// skipComment discards a comment body up to (and, for multi-line comments,
// including) its end marker, adjusting line/column across embedded
// newlines. For single-line comments the terminating newline itself is left
// in the stream -- it is still tokenized normally afterwards, so it is
// still emitted to output (see DESIGN.md on example 4's "still emitted"
// newline).
func (t *Tokenizer) skipComment(end string) error {
	if end == "\n" {
		for {
			c := t.getc()
			if c == eof {
				return nil
			}
			if c == '\n' {
				t.ungetc(c)
				return nil
			}
			t.column++
		}
	}
	for {
		if t.matchMarker(end) {
			t.consumeMarker(end)
			return nil
		}
		c := t.getc()
		if c == eof {
			return ErrUnterminatedComment
		}
		if c == '\n' {
			t.line++
			t.column = 0
		} else {
			t.column++
		}
	}
}

// Next scans and returns the next Token. The bool result is the tokenizer's
// success flag: true for every kind except Unknown and Overflow, and true
// also for EOF (reaching end of input is not itself a failure), except when
// EOF arrives inside a quoted string, which returns EOF with false.
func (t *Tokenizer) Next() (Token, bool) {
	t.buf.Reset()
	start := t.Location()
	gap := t.commentPending
	t.commentPending = false
	t.gapBefore = gap

	for {
		// A comment marker ends whatever has been accumulated so far (it
		// "acts as a separator that produces no token"), but only once
		// something has actually been accumulated; a comment seen before
		// any real content is simply discarded and scanning resumes.
		if t.matchMarker(t.mlStart) {
			if t.buf.Len() > 0 {
				t.commentPending = true
				break
			}
			t.consumeMarker(t.mlStart)
			if err := t.skipComment(t.mlEnd); err != nil {
				return t.unknown(start), false
			}
			start = t.Location()
			continue
		}
		if t.matchMarker(t.slStart) {
			if t.buf.Len() > 0 {
				t.commentPending = true
				break
			}
			t.consumeMarker(t.slStart)
			if err := t.skipComment("\n"); err != nil {
				return t.unknown(start), false
			}
			start = t.Location()
			continue
		}

		c := t.getc()
		if c == eof {
			if t.buf.Len() > 0 {
				// EOF ends an in-progress lexeme like a separator would: it
				// is returned now, and the next call returns EOF.
				break
			}
			return Token{Kind: TokenKind_EOF, Location: t.Location()}, true
		}

		if isSeparator(byte(c)) {
			t.ungetc(c)
			// "..." is lexed as a single Ellipsis token even though '.'
			// is itself a separator.
			if c == '.' && t.buf.Len() == 0 && t.matchMarker("...") {
				t.consumeMarker("...")
				t.buf.WriteString("...")
			}
			break
		}

		t.column++
		t.buf.WriteByte(byte(c))
		if t.buf.Len() >= t.bufCap {
			return Token{Kind: TokenKind_Overflow, Location: start}, false
		}
	}

	if t.buf.Len() == 0 {
		return t.scanSeparatorOrString(start)
	}

	text := t.buf.String()
	kind := categorize(text)
	if kind == TokenKind_Unknown {
		return Token{Kind: TokenKind_Unknown, Location: start, Text: text}, false
	}
	return Token{Kind: kind, Location: start, Text: text}, true
}

func (t *Tokenizer) unknown(start Cursor) Token {
	return Token{Kind: TokenKind_Unknown, Location: start, Text: t.buf.String()}
}

// scanSeparatorOrString handles the case where nothing was accumulated
// before hitting a separator: the separator character itself becomes a SEP
// token, unless it is a quote and string parsing is enabled, in which case
// control passes to scanString.
func (t *Tokenizer) scanSeparatorOrString(start Cursor) (Token, bool) {
	c := t.getc()
	t.column++
	t.buf.WriteByte(byte(c))

	if (c == '"' || c == '\'') && t.parseStrings {
		return t.scanString(byte(c), start)
	}

	tok := Token{Kind: TokenKind_Separator, Location: start, Value: byte(c)}
	if c == '\n' {
		t.line++
		t.column = 0
	}
	return tok, true
}

// scanString consumes a quoted lexeme, including both delimiting quotes,
// honoring backslash as a one-character escape. A raw newline inside the
// string is UNKNOWN; EOF inside the string is reported as EOF (not
// UNKNOWN), matching the tokenizer contract's explicit carve-out for
// premature end of input inside a quoted lexeme.
func (t *Tokenizer) scanString(quote byte, start Cursor) (Token, bool) {
	escaped := false
	for {
		c := t.getc()
		if c == eof {
			return Token{Kind: TokenKind_EOF, Location: start}, false
		}
		if c == '\n' && !escaped {
			t.buf.WriteByte(byte(c))
			return Token{Kind: TokenKind_Unknown, Location: start, Text: t.buf.String()}, false
		}
		t.column++
		t.buf.WriteByte(byte(c))
		if t.buf.Len() > t.bufCap {
			return Token{Kind: TokenKind_Overflow, Location: start}, false
		}
		if escaped {
			escaped = false
			continue
		}
		if byte(c) == '\\' {
			escaped = true
			continue
		}
		if byte(c) == quote {
			kind := TokenKind_DoubleQuoteString
			if quote == '\'' {
				kind = TokenKind_SingleQuoteString
			}
			return Token{Kind: kind, Location: start, Text: t.buf.String()}, true
		}
	}
}

// ReadUntil consumes raw bytes (bypassing lexeme categorization) until the
// given terminator byte is found. If includeTerminator is true the
// terminator is consumed and appended to the returned text; otherwise it is
// left unconsumed so the caller can tokenize it separately. Returns false
// if EOF is reached first.
func (t *Tokenizer) ReadUntil(terminator byte, includeTerminator bool) (string, bool) {
	var sb strings.Builder
	for {
		c := t.getc()
		if c == eof {
			t.buf.Reset()
			t.buf.WriteString(sb.String())
			return sb.String(), false
		}
		if byte(c) == terminator {
			if includeTerminator {
				if c == '\n' {
					t.line++
					t.column = 0
				} else {
					t.column++
				}
				sb.WriteByte(terminator)
			} else {
				t.ungetc(c)
			}
			t.buf.Reset()
			t.buf.WriteString(sb.String())
			return sb.String(), true
		}
		if c == '\n' {
			t.line++
			t.column = 0
		} else {
			t.column++
		}
		sb.WriteByte(byte(c))
	}
}

// SkipChars advances the stream while the next byte is a member of set,
// returning the count skipped.
func (t *Tokenizer) SkipChars(set string) int {
	count := 0
	for {
		c := t.getc()
		if c == eof {
			return count
		}
		if strings.IndexByte(set, byte(c)) < 0 {
			t.ungetc(c)
			return count
		}
		t.column++
		count++
	}
}
