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

// ccpp is a minimal C-style preprocessor: #include, #define/macro expansion,
// and #error/#warning, over stdin/a file, writing the expanded form to
// stdout/a file.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/EngFlow/cpreproc/internal/cc/preprocessor"
)

func main() {
	mlStart := flag.String("ml-start", "/*", "multi-line comment start marker")
	mlEnd := flag.String("ml-end", "*/", "multi-line comment end marker")
	slStart := flag.String("sl", "//", "single-line comment start marker")
	output := flag.String("o", "-", "output path, or - for stdout")
	flag.Parse()

	if flag.NArg() > 1 {
		flag.Usage()
		log.Fatalf("ccpp takes at most one input path")
	}

	in, inName, err := openInput(flag.Arg(0))
	if err != nil {
		log.Fatalf("ccpp: %v", err)
	}
	defer in.Close()

	out, closeOut, err := openOutput(*output)
	if err != nil {
		log.Fatalf("ccpp: %v", err)
	}
	defer closeOut()

	ctx := preprocessor.NewContext()
	ctx.MultiLineCommentStart = *mlStart
	ctx.MultiLineCommentEnd = *mlEnd
	ctx.SingleLineCommentStart = *slStart

	if err := preprocessor.ParseFile(ctx, in, inName, out); err != nil {
		log.Fatalf("ccpp: %v", err)
	}
}

func openInput(path string) (io.ReadCloser, string, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), "<stdin>", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening %s: %w", path, err)
	}
	return f, path, nil
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return f, f.Close, nil
}
