// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package probe

import (
	"context"

	"github.com/wangtaoking1/wsprobe/log"
	"github.com/wangtaoking1/wsprobe/websocket"
)

// Handler logs the connection events and sends the payload on open.
type Handler struct {
	payload []byte
}

var _ websocket.Handler = (*Handler)(nil)

// NewHandler returns a handler sending DefaultPayload.
func NewHandler() *Handler {
	return &Handler{payload: DefaultPayload()}
}

func (h *Handler) OnOpen(ctx context.Context, writer websocket.Writer) {
	log.From(ctx).Info("Connected")

	msg := &websocket.Message{Type: websocket.BinaryMessage, Data: h.payload}
	if err := writer.Write(ctx, msg); err != nil {
		log.From(ctx).Warnw("Send payload failed", "error", err)
	}
}

func (h *Handler) OnMessage(ctx context.Context, _ websocket.Writer, message *websocket.Message) {
	if message.Type != websocket.BinaryMessage {
		log.From(ctx).Debugw("Ignore non binary message", "type", message.Type, "len", len(message.Data))
		return
	}

	log.From(ctx).Infow("Received:", "data", ByteView(message.Data), "len", len(message.Data))
}

func (h *Handler) OnError(ctx context.Context, err error) {
	log.From(ctx).Errorw("Error", "error", err)
}

func (h *Handler) OnClose(ctx context.Context, code int, reason string) {
	log.From(ctx).Infow("Closed", "code", code, "reason", reason)
}
