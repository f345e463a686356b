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
	"io"

	"github.com/EngFlow/cpreproc/internal/cc/lexer"
)

// writeToken writes tok's textual form: its single character for a
// separator, its captured text for everything else.
func writeToken(w io.Writer, tok lexer.Token) {
	if tok.Kind == lexer.TokenKind_Separator {
		io.WriteString(w, string(tok.Value))
		return
	}
	io.WriteString(w, tok.Text)
}

// writeEscapedString writes s with '\\' and '"' backslash-escaped, for
// wrapping a stringized macro argument in quotes.
func writeEscapedString(w io.Writer, s []byte) {
	for _, b := range s {
		if b == '\\' || b == '"' {
			io.WriteString(w, `\`)
		}
		io.WriteString(w, string(b))
	}
}

func isHorizontalWhitespace(c byte) bool { return c == ' ' || c == '\t' }

func isWhitespaceValue(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}
