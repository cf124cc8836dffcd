// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package probe

import (
	"strconv"
	"strings"
)

var payload = [...]byte{10, 20, 30, 40, 50}

// DefaultPayload returns a copy of the bytes sent once the connection is open.
func DefaultPayload() []byte {
	b := make([]byte, len(payload))
	copy(b, payload[:])

	return b
}

// ByteView renders raw bytes as a list of decimal values, e.g. [10 20 30].
type ByteView []byte

func (v ByteView) String() string {
	var sb strings.Builder
	sb.Grow(len(v)*4 + 2)
	sb.WriteByte('[')
	for i, b := range v {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(int(b)))
	}
	sb.WriteByte(']')

	return sb.String()
}
