// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package probe opens one websocket connection to ws://<address>, sends a
// fixed 5-byte binary payload once the connection is open and logs the
// connection lifecycle: connect, disconnect, error and inbound binary
// messages.
//
// The address comes from the ws query parameter of a hosting page url, or
// is given directly, and defaults to localhost:9001.
package probe
