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
	"errors"
	"fmt"
	"strings"

	"github.com/EngFlow/cpreproc/internal/cc/lexer"
)

// Sentinel error kinds. Every error ParseFile returns wraps exactly one of
// these via %w, so callers can classify failures with errors.Is.
var (
	// ErrLexical covers UNKNOWN/OVERFLOW tokens and premature EOF inside a
	// quoted lexeme.
	ErrLexical = errors.New("lexical error")
	// ErrSyntax covers unexpected tokens in a directive, malformed macro
	// parameter lists, and stray '#'.
	ErrSyntax = errors.New("syntax error")
	// ErrMacro covers wrong argument counts, an argument list cut off by
	// EOF, a stringize operator not followed by a parameter, more than two
	// consecutive '#', and exceeding the recursion depth limit.
	ErrMacro = errors.New("macro error")
	// ErrInclude covers failure to open an #include target.
	ErrInclude = errors.New("include error")
	// ErrUserError is returned for a #error directive.
	ErrUserError = errors.New("user error")
)

// Diagnostic is a formatted error or warning, matching the textual form
// `<filename> line:column kind: 'message'` followed by the offending buffer
// echoed and underlined with '^'.
type Diagnostic struct {
	Filename string
	Location lexer.Cursor
	Kind     string // "error" or "warning"
	Message  string
	Buffer   string
}

func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<%s> %d:%d %s: '%s'\n", d.Filename, d.Location.Line, d.Location.Column, d.Kind, d.Message)
	b.WriteString(d.Buffer)
	b.WriteByte('\n')
	for range d.Buffer {
		b.WriteByte('^')
	}
	b.WriteByte('\n')
	return b.String()
}
