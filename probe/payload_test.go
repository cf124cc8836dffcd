// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package probe

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPayload(t *testing.T) {
	p := DefaultPayload()
	assert.Equal(t, []byte{10, 20, 30, 40, 50}, p)

	p[0] = 0
	assert.Equal(t, []byte{10, 20, 30, 40, 50}, DefaultPayload())
}

func TestByteView_String(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{in: nil, want: "[]"},
		{in: []byte{0}, want: "[0]"},
		{in: []byte{10, 20, 30, 40, 50}, want: "[10 20 30 40 50]"},
		{in: []byte("hi"), want: "[104 105]"},
		{in: []byte{255, 128}, want: "[255 128]"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ByteView(tt.in).String())
			assert.Equal(t, fmt.Sprint(tt.in), fmt.Sprint(ByteView(tt.in)))
		})
	}
}
