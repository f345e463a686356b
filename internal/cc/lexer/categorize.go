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

import "strings"

// hasULTail reports whether s is 1-3 characters drawn from {u,U,l,L} forming
// one of the accepted integer-suffix spellings (case-insensitive):
// u, l, lu, ul, ll, llu, ull.
func hasULTail(s string) bool {
	if len(s) == 0 || len(s) > 3 {
		return false
	}
	lower := strings.ToLower(s)
	for _, c := range lower {
		if c != 'u' && c != 'l' {
			return false
		}
	}
	switch len(lower) {
	case 1:
		return true
	case 2:
		return lower == "lu" || lower == "ul" || lower == "ll"
	case 3:
		return lower == "llu" || lower == "ull"
	default:
		return false
	}
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// isHexIntLiteral matches [-]?0[xX][0-9a-fA-F]+<ul-tail>?
func isHexIntLiteral(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if len(s) < 3 || s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
		return false
	}
	p := s[2:]
	i := 0
	for i < len(p) && isHexDigit(p[i]) {
		i++
	}
	if i == 0 {
		return false
	}
	return i == len(p) || hasULTail(p[i:])
}

// isDecIntLiteral matches [-]?[1-9][0-9]*<ul-tail>?
func isDecIntLiteral(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if len(s) == 0 || s[0] < '1' || s[0] > '9' {
		return false
	}
	i := 1
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i == len(s) || hasULTail(s[i:])
}

// isOctIntLiteral matches [-]?0[0-7]*
func isOctIntLiteral(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if len(s) == 0 || s[0] != '0' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] < '0' || s[i] > '7' {
			return false
		}
	}
	return true
}

func isEllipsis(s string) bool {
	return s == "..."
}

func isIdentifier(s string) bool {
	if len(s) == 0 {
		return false
	}
	head := s[0]
	if !(head == '_' || (head >= 'A' && head <= 'Z') || (head >= 'a' && head <= 'z')) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !(c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}

// categorize classifies an accumulated, non-empty lexeme in the exact
// priority order mandated by the tokenizer contract: ellipsis, then hex,
// decimal, and octal integer literals, then identifier, else unknown.
func categorize(s string) TokenKind {
	switch {
	case isEllipsis(s):
		return TokenKind_Ellipsis
	case isHexIntLiteral(s):
		return TokenKind_HexInt
	case isDecIntLiteral(s):
		return TokenKind_DecInt
	case isOctIntLiteral(s):
		return TokenKind_OctInt
	case isIdentifier(s):
		return TokenKind_Identifier
	default:
		return TokenKind_Unknown
	}
}

// isSeparator reports whether c is one of the fixed separator characters
// that terminates lexeme accumulation.
func isSeparator(c byte) bool {
	return strings.IndexByte(" \t\n()[]<>{}\\?:;.,!=+-*&|/%#'\"", c) >= 0
}
