// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import (
	"context"

	"github.com/gorilla/websocket"
)

// MessageType is the opcode of a data message.
type MessageType int

const (
	TextMessage   MessageType = websocket.TextMessage
	BinaryMessage MessageType = websocket.BinaryMessage
)

func (t MessageType) String() string {
	switch t {
	case TextMessage:
		return "text"
	case BinaryMessage:
		return "binary"
	default:
		return "unknown"
	}
}

// Message is a complete data message. Data holds the raw payload for both
// text and binary messages.
type Message struct {
	Type MessageType
	Data []byte
}

// Writer queues messages for the connection.
type Writer interface {
	Write(ctx context.Context, message *Message) error
}

// Handler receives the connection lifecycle events. Calls never overlap.
type Handler interface {
	// OnOpen is called once the opening handshake succeeded, before any
	// message is delivered.
	OnOpen(ctx context.Context, writer Writer)
	// OnMessage is called for every data message, in arrival order.
	OnMessage(ctx context.Context, writer Writer, message *Message)
	// OnError is called at most once, for the failure that ends the connection.
	OnError(ctx context.Context, err error)
	// OnClose is called exactly once, after the connection is gone.
	OnClose(ctx context.Context, code int, reason string)
}
