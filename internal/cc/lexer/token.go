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

package lexer

import "fmt"

// TokenKind classifies a Token.
type TokenKind int

const (
	// A run of identifier characters: [_A-Za-z][_A-Za-z0-9]*
	TokenKind_Identifier TokenKind = iota
	// A '...'-quoted lexeme, including both quotes.
	TokenKind_SingleQuoteString
	// A "..."-quoted lexeme, including both quotes.
	TokenKind_DoubleQuoteString
	// The literal three-character sequence "...".
	TokenKind_Ellipsis
	// A hexadecimal integer literal, e.g. 0x1F, 0xFFul.
	TokenKind_HexInt
	// A decimal integer literal, e.g. 42, 7L.
	TokenKind_DecInt
	// An octal integer literal, e.g. 0, 017.
	TokenKind_OctInt
	// A single separator character. Its byte value is in Token.Value.
	TokenKind_Separator
	// A lexeme that could not be categorized.
	TokenKind_Unknown
	// The accumulation buffer would have exceeded its capacity.
	TokenKind_Overflow
	// End of input.
	TokenKind_EOF
)

func (k TokenKind) String() string {
	switch k {
	case TokenKind_Identifier:
		return "identifier"
	case TokenKind_SingleQuoteString:
		return "single-quoted string"
	case TokenKind_DoubleQuoteString:
		return "double-quoted string"
	case TokenKind_Ellipsis:
		return "ellipsis"
	case TokenKind_HexInt:
		return "hex integer"
	case TokenKind_DecInt:
		return "decimal integer"
	case TokenKind_OctInt:
		return "octal integer"
	case TokenKind_Separator:
		return "separator"
	case TokenKind_Unknown:
		return "unknown"
	case TokenKind_Overflow:
		return "overflow"
	case TokenKind_EOF:
		return "eof"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Cursor is a position in the source being tokenized. Line is 1-based;
// Column is 0-based and resets to 0 at the start of every line, per the
// character count already consumed since the last newline.
type Cursor struct {
	Line   int
	Column int
}

func (c Cursor) String() string {
	return fmt.Sprintf("%d:%d", c.Line, c.Column)
}

// Token is a single lexical unit produced by the Tokenizer.
//
// Text carries the lexeme for every kind that has a textual payload
// (Identifier, the two string kinds, Ellipsis, and the three integer-literal
// kinds). Separator tokens carry no text; their character is in Value
// instead. Text is always a copy, valid for as long as the Token itself is
// held, never a view into tokenizer-internal storage.
type Token struct {
	Kind     TokenKind
	Location Cursor
	Text     string
	Value    byte
}

func needsText(k TokenKind) bool {
	switch k {
	case TokenKind_Identifier, TokenKind_SingleQuoteString, TokenKind_DoubleQuoteString,
		TokenKind_Ellipsis, TokenKind_HexInt, TokenKind_DecInt, TokenKind_OctInt:
		return true
	default:
		return false
	}
}
