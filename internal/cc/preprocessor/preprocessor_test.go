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
	"io"
	"strings"
	"testing"

	gomock "github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	ctx := NewContext()
	var out bytes.Buffer
	err := ParseFile(ctx, strings.NewReader(src), "<test>", &out)
	return out.String(), err
}

func TestParseFile_ObjectLikeMacroExpansion(t *testing.T) {
	out, err := run(t, "#define GREETING hello\nGREETING, world\n")
	require.NoError(t, err)
	assert.Equal(t, "hello, world\n", out)
}

func TestParseFile_FunctionLikeMacroExpansion(t *testing.T) {
	out, err := run(t, "#define ADD(a, b) ((a) + (b))\nADD(1, 2);\n")
	require.NoError(t, err)
	assert.Equal(t, "((1) + (2));\n", out)
}

func TestParseFile_FunctionLikeMacroExpandsBodyInternalMacros(t *testing.T) {
	out, err := run(t, "#define TWO 2\n#define DOUBLE(x) ((x) * TWO)\nDOUBLE(5)\n")
	require.NoError(t, err)
	assert.Equal(t, "((5) * 2)\n", out)
}

func TestParseFile_StringizeOperator(t *testing.T) {
	out, err := run(t, "#define STR(x) #x\nSTR(hello)\n")
	require.NoError(t, err)
	assert.Equal(t, `"hello"`+"\n", out)
}

func TestParseFile_StringizeEscapesQuotesAndBackslashes(t *testing.T) {
	out, err := run(t, "#define STR(x) #x\nSTR(\"a\\b\")\n")
	require.NoError(t, err)
	assert.Equal(t, `"\"a\\b\""`+"\n", out)
}

func TestParseFile_NestedParenthesesInArguments(t *testing.T) {
	out, err := run(t, "#define FIRST(a, b) a\nFIRST((1, 2), 3)\n")
	require.NoError(t, err)
	assert.Equal(t, "(1, 2)\n", out)
}

func TestParseFile_MultiLineCommentActsAsSeparator(t *testing.T) {
	out, err := run(t, "int/**/x;\n")
	require.NoError(t, err)
	assert.Equal(t, "int x;\n", out)
}

func TestParseFile_SingleLineCommentDiscardedKeepsNewline(t *testing.T) {
	out, err := run(t, "a // comment\nb\n")
	require.NoError(t, err)
	assert.Equal(t, "a \nb\n", out)
}

func TestParseFile_RecursionLimitIsEnforced(t *testing.T) {
	_, err := run(t, "#define A A\nA\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMacro))
}

func TestParseFile_MutualRecursionLimitIsEnforced(t *testing.T) {
	_, err := run(t, "#define A B\n#define B A\nA\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMacro))
}

func TestParseFile_ErrorDirectiveStopsParsing(t *testing.T) {
	_, err := run(t, "#error something went wrong\nnever reached\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUserError))
	assert.Contains(t, err.Error(), "something went wrong")
}

func TestParseFile_WarningDirectiveContinuesParsing(t *testing.T) {
	out, err := run(t, "#warning heads up\nstill here\n")
	require.NoError(t, err)
	assert.Equal(t, "still here\n", out)
}

func TestParseFile_UndefIfIfdefEndifAreNoOps(t *testing.T) {
	out, err := run(t, "#undef FOO\n#if FOO\n#ifdef FOO\nbody\n#endif\n")
	require.NoError(t, err)
	assert.Equal(t, "body\n", out)
}

func TestParseFile_UnrecognizedDirectiveStopsParsingSilently(t *testing.T) {
	out, err := run(t, "#bogus directive\nnever reached\n")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestParseFile_TooFewArgumentsIsAMacroError(t *testing.T) {
	_, err := run(t, "#define ADD(a, b) a + b\nADD(1)\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMacro))
}

func TestParseFile_TooManyArgumentsIsAMacroError(t *testing.T) {
	_, err := run(t, "#define ADD(a, b) a + b\nADD(1, 2, 3)\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMacro))
}

func TestParseFile_UnknownIdentifierIsEmittedVerbatim(t *testing.T) {
	out, err := run(t, "not_a_macro(1, 2)\n")
	require.NoError(t, err)
	assert.Equal(t, "not_a_macro(1, 2)\n", out)
}

func TestParseFile_ZeroParamFunctionLikeMacroIsTreatedAsObjectLike(t *testing.T) {
	out, err := run(t, "#define PI() 3\nPI\n")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestParseFile_StrayHashIsSyntaxError(t *testing.T) {
	_, err := run(t, "a # b\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSyntax))
}

func TestParseFile_Include(t *testing.T) {
	ctx := NewContext()
	files := map[string]string{
		"header.h": "#define VALUE 42\n",
	}
	ctx.Open = func(name string) (io.ReadCloser, error) {
		content, ok := files[name]
		if !ok {
			return nil, errors.New("no such file")
		}
		return io.NopCloser(strings.NewReader(content)), nil
	}

	var out bytes.Buffer
	err := ParseFile(ctx, strings.NewReader("#include \"header.h\"\nVALUE\n"), "main.c", &out)
	require.NoError(t, err)
	assert.Equal(t, "42\n", out.String())
}

func TestParseFile_IncludeSystemHeaderUsesAngleBrackets(t *testing.T) {
	ctx := NewContext()
	ctx.Open = func(name string) (io.ReadCloser, error) {
		assert.Equal(t, "stdio.h", name)
		return io.NopCloser(strings.NewReader("")), nil
	}

	var out bytes.Buffer
	err := ParseFile(ctx, strings.NewReader("#include <stdio.h>\n"), "main.c", &out)
	require.NoError(t, err)
}

func TestParseFile_IncludeOpenFailureIsAnIncludeError(t *testing.T) {
	ctrl := gomock.NewController(t)
	opener := NewMockOpener(ctrl)
	opener.EXPECT().Open("missing.h").Return(nil, errors.New("permission denied"))

	ctx := NewContext()
	ctx.Open = opener.Open

	err := ParseFile(ctx, strings.NewReader("#include \"missing.h\"\n"), "main.c", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInclude))
}

func TestParseFile_IncludeSharesMacroTableAcrossFiles(t *testing.T) {
	ctx := NewContext()
	files := map[string]string{
		"a.h": "#define FROM_A 1\n",
	}
	ctx.Open = func(name string) (io.ReadCloser, error) {
		content, ok := files[name]
		require.True(t, ok, name)
		return io.NopCloser(strings.NewReader(content)), nil
	}

	var out bytes.Buffer
	err := ParseFile(ctx, strings.NewReader("#include \"a.h\"\nFROM_A\n"), "main.c", &out)
	require.NoError(t, err)
	assert.Equal(t, "1\n", out.String())
	_, ok := ctx.Macros.Lookup("FROM_A")
	assert.True(t, ok)
}
