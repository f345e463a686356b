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
	"fmt"
	"io"

	"github.com/EngFlow/cpreproc/internal/cc/lexer"
)

// maxRecursion bounds macro expansion depth. There is no hide-set or
// "painted blue" self-reference suppression here; a self-referential macro
// simply recurses until this limit trips.
const maxRecursion = 32

// expander holds the state needed to produce diagnostics while expanding
// macros: the shared Context (for the macro table, comment markers, and
// diagnostics sink) and the filename of the file currently being parsed.
// It carries no output writer or tokenizer of its own -- those are always
// the caller's, since expansion recurses over several different streams
// (the primary tokenizer, a macro body replay, an argument replay).
type expander struct {
	ctx      *Context
	filename string
}

func (e *expander) diag(kind string, loc lexer.Cursor, buf, msg string) {
	report(e.ctx, e.filename, kind, loc, buf, msg)
}

func (e *expander) newTokenizer(r io.Reader) *lexer.Tokenizer {
	return lexer.New(r,
		lexer.WithMultiLineComment(e.ctx.MultiLineCommentStart, e.ctx.MultiLineCommentEnd),
		lexer.WithSingleLineComment(e.ctx.SingleLineCommentStart),
	)
}

// expand writes name's expansion to w. name is looked up in the shared
// macro table; a miss writes name verbatim. tz is whichever tokenizer name
// was read from -- the primary source, a macro body replay, or an argument
// replay -- since a function-like macro's call parentheses are read from
// that same stream, exactly as in the source this preserves the behavior
// of: a function-like macro invoked where its arguments aren't available in
// the current stream fails rather than reaching across to an enclosing one.
func (e *expander) expand(w io.Writer, tz *lexer.Tokenizer, name string, depth int) error {
	def, ok := e.ctx.Macros.Lookup(name)
	if !ok {
		io.WriteString(w, name)
		return nil
	}
	if depth > maxRecursion {
		e.diag("error", tz.Location(), name, "max recursion level reached")
		return fmt.Errorf("%w: max recursion level reached expanding %q", ErrMacro, name)
	}

	var args [][]byte
	if def.IsFunctionLike() {
		var err error
		args, err = e.captureArguments(tz, def, name)
		if err != nil {
			return err
		}
	}

	body := e.newTokenizer(bytes.NewReader(def.Body))
	hashCount := 0
	for {
		tok, ok := body.Next()
		if !ok {
			return fmt.Errorf("%w: malformed macro body for %q", ErrLexical, name)
		}
		if tok.Kind == lexer.TokenKind_EOF {
			break
		}
		if body.GapBefore() && hashCount == 0 {
			io.WriteString(w, " ")
		}

		switch {
		case tok.Kind == lexer.TokenKind_Separator && tok.Value == '#':
			hashCount++
			if hashCount > 2 {
				e.diag("error", tok.Location, body.Buffer(), "only two '#' characters allowed for macro expansion")
				return fmt.Errorf("%w: too many '#' characters in %q", ErrMacro, name)
			}
			continue

		case tok.Kind == lexer.TokenKind_Identifier:
			if idx := def.paramIndex(tok.Text); idx >= 0 {
				if hashCount == 1 {
					var stringized bytes.Buffer
					if err := e.replayArgument(&stringized, args[idx], depth+1); err != nil {
						return err
					}
					io.WriteString(w, `"`)
					writeEscapedString(w, stringized.Bytes())
					io.WriteString(w, `"`)
				} else if err := e.replayArgument(w, args[idx], depth+1); err != nil {
					return err
				}
			} else {
				if hashCount == 1 {
					e.diag("error", tok.Location, body.Buffer(), "'#' is not followed by macro parameter")
					return fmt.Errorf("%w: '#' is not followed by macro parameter in %q", ErrMacro, name)
				}
				if err := e.expand(w, body, tok.Text, depth+1); err != nil {
					return err
				}
			}

		default:
			if hashCount == 1 {
				e.diag("error", tok.Location, body.Buffer(), "'#' is not followed by macro parameter")
				return fmt.Errorf("%w: '#' is not followed by macro parameter in %q", ErrMacro, name)
			}
			writeToken(w, tok)
		}
		hashCount = 0
	}
	return nil
}

// replayArgument re-tokenizes a captured argument buffer, recursively
// expanding any identifier it contains, writing the result to w.
func (e *expander) replayArgument(w io.Writer, arg []byte, depth int) error {
	tz := e.newTokenizer(bytes.NewReader(arg))
	for {
		tok, ok := tz.Next()
		if !ok {
			return fmt.Errorf("%w: malformed macro argument", ErrLexical)
		}
		if tok.Kind == lexer.TokenKind_EOF {
			return nil
		}
		if tz.GapBefore() {
			io.WriteString(w, " ")
		}
		if tok.Kind == lexer.TokenKind_Identifier {
			if err := e.expand(w, tz, tok.Text, depth); err != nil {
				return err
			}
			continue
		}
		writeToken(w, tok)
	}
}

// captureArguments parses a function-like macro's call site: an opening
// '(', len(def.Params) comma-separated argument groups (commas nested
// inside balanced parentheses don't separate arguments), and a closing ')'.
// Each argument's unexpanded tokens are captured verbatim for later
// re-tokenization by replayArgument.
func (e *expander) captureArguments(tz *lexer.Tokenizer, def Definition, name string) ([][]byte, error) {
	open, ok := tz.Next()
	if !ok || open.Kind != lexer.TokenKind_Separator || open.Value != '(' {
		e.diag("error", open.Location, tz.Buffer(), "expected (")
		return nil, fmt.Errorf("%w: expected '(' after function-like macro %q", ErrMacro, name)
	}
	tz.SkipChars(" \t")

	args := make([]bytes.Buffer, len(def.Params))
	argIdx := 0
	needArg := true
	parens := 0

	for {
		tok, ok := tz.Next()
		if !ok {
			return nil, fmt.Errorf("%w: malformed argument list for %q", ErrLexical, name)
		}
		if tok.Kind == lexer.TokenKind_EOF {
			e.diag("error", tok.Location, tz.Buffer(), "unexpected EOF in argument list")
			return nil, fmt.Errorf("%w: unexpected EOF in argument list for %q", ErrMacro, name)
		}

		isComma := tok.Kind == lexer.TokenKind_Separator && tok.Value == ','
		isOpenParen := tok.Kind == lexer.TokenKind_Separator && tok.Value == '('
		isCloseParen := tok.Kind == lexer.TokenKind_Separator && tok.Value == ')'

		if parens == 0 && isComma {
			if needArg {
				e.diag("error", tok.Location, tz.Buffer(), "unexpected: ','")
				return nil, fmt.Errorf("%w: empty argument in call to %q", ErrMacro, name)
			}
			needArg = true
			argIdx++
			if argIdx >= len(def.Params) {
				e.diag("error", tok.Location, tz.Buffer(), "too many arguments for function macro")
				return nil, fmt.Errorf("%w: too many arguments to %q", ErrMacro, name)
			}
			tz.SkipChars(" \t")
			continue
		}
		if isOpenParen {
			parens++
		} else if isCloseParen {
			if parens == 0 {
				if argIdx != len(def.Params)-1 {
					e.diag("error", tok.Location, tz.Buffer(), "too few args for function macro")
					return nil, fmt.Errorf("%w: too few arguments to %q", ErrMacro, name)
				}
				break
			}
			parens--
		}
		needArg = false
		writeToken(&args[argIdx], tok)
	}

	out := make([][]byte, len(args))
	for i := range args {
		out[i] = args[i].Bytes()
	}
	return out, nil
}
