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

import (
	"bufio"
	"fmt"
	"io"
)

// pushbackCapacity is the minimum ring size required by the tokenizer
// contract: at least 8 characters of ungetc lookback.
const pushbackCapacity = 8

// eof is the sentinel byte value standing in for an end-of-input read, the
// same role C's EOF integer constant plays around tokenizer_getc.
const eof = -1

// pushbackReader wraps an io.Reader with a fixed-size ring buffer recording
// the last pushbackCapacity bytes returned by getc, so ungetc can hand them
// back in LIFO order. cnt is the slot counter: getc increments it and ungetc
// decrements it, so cnt%pushbackCapacity is the slot of the next byte read;
// buffered counts how many of the most recent bytes have been ungotten and
// are waiting to be re-read.
type pushbackReader struct {
	r        *bufio.Reader
	ring     [pushbackCapacity]int
	cnt      uint64
	buffered uint64
}

func newPushbackReader(r io.Reader) *pushbackReader {
	return &pushbackReader{r: bufio.NewReader(r)}
}

// getc returns the next byte as an int, or eof at end of input.
func (p *pushbackReader) getc() int {
	var c int
	if p.buffered > 0 {
		p.buffered--
		c = p.ring[p.cnt%pushbackCapacity]
	} else {
		b, err := p.r.ReadByte()
		if err != nil {
			c = eof
		} else {
			c = int(b)
		}
		p.ring[p.cnt%pushbackCapacity] = c
	}
	p.cnt++
	return c
}

// ungetc returns c to the stream. c must equal the character most recently
// produced by getc at this slot; violating that invariant is a programmer
// error in the tokenizer and panics, matching the assert() in the original
// tokenizer_ungetc.
func (p *pushbackReader) ungetc(c int) {
	p.buffered++
	if p.buffered > pushbackCapacity {
		panic("lexer: pushback buffer exhausted")
	}
	if p.cnt == 0 {
		panic("lexer: ungetc with nothing read")
	}
	p.cnt--
	if p.ring[p.cnt%pushbackCapacity] != c {
		panic(fmt.Sprintf("lexer: ungetc(%d) does not match last read character %d", c, p.ring[p.cnt%pushbackCapacity]))
	}
}
