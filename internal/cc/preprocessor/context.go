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

// Package preprocessor implements the directive-driven macro preprocessor:
// #include, #define/macro expansion (object-like and function-like, with
// the stringize operator), and #error/#warning diagnostics, over the
// internal/cc/lexer tokenizer.
package preprocessor

import (
	"io"
	"os"
)

// Context carries everything that would otherwise be process-global state
// in a naive port of a single-translation-unit preprocessor: the live macro
// table, the comment-marker configuration to apply to every tokenizer this
// run constructs (the primary source, every #include, every macro body and
// argument replay), where diagnostics go, and how to resolve an #include
// target. Threading Context explicitly through ParseFile and its recursive
// #include calls, rather than relying on package-level state, is what makes
// two independent preprocessor runs safe to use concurrently.
type Context struct {
	Macros Table

	MultiLineCommentStart  string
	MultiLineCommentEnd    string
	SingleLineCommentStart string

	// Diagnostics receives formatted error/warning text. Defaults to
	// os.Stderr when nil.
	Diagnostics io.Writer

	// Open resolves an #include target to a readable file. Defaults to
	// os.Open. Tests substitute this to exercise IOError handling and
	// virtual include trees without touching a real filesystem.
	Open func(name string) (io.ReadCloser, error)
}

// Opener resolves an #include target to a readable file. Context.Open is a
// plain func value, not this interface, so a test can hand it a closure
// directly; Opener exists for callers (and tests) that prefer a mockable
// type instead -- such a type's Open method value assigns straight to
// Context.Open.
type Opener interface {
	Open(name string) (io.ReadCloser, error)
}

// NewContext returns a Context configured for C-style input: /* */ and //
// comments, an empty macro table, diagnostics to stderr, and #include
// resolved via os.Open.
func NewContext() *Context {
	return &Context{
		Macros:                 NewTable(),
		MultiLineCommentStart:  "/*",
		MultiLineCommentEnd:    "*/",
		SingleLineCommentStart: "//",
		Diagnostics:            os.Stderr,
		Open: func(name string) (io.ReadCloser, error) {
			return os.Open(name)
		},
	}
}

func (c *Context) diagWriter() io.Writer {
	if c.Diagnostics != nil {
		return c.Diagnostics
	}
	return os.Stderr
}

func (c *Context) open(name string) (io.ReadCloser, error) {
	if c.Open != nil {
		return c.Open(name)
	}
	return os.Open(name)
}
