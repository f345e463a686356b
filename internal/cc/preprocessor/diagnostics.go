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
	"fmt"

	"github.com/EngFlow/cpreproc/internal/cc/lexer"
)

func report(ctx *Context, filename, kind string, loc lexer.Cursor, buf, msg string) {
	d := Diagnostic{Filename: filename, Location: loc, Kind: kind, Message: msg, Buffer: buf}
	fmt.Fprint(ctx.diagWriter(), d.String())
}
