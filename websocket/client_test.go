// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 5 * time.Second

type recorder struct {
	mu     sync.Mutex
	events []string
	errs   []error
	code   int
	reason string

	onOpen   func(ctx context.Context, writer Writer)
	received chan *Message
}

func newRecorder() *recorder {
	return &recorder{received: make(chan *Message, 16)}
}

func (r *recorder) record(event string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) OnOpen(ctx context.Context, writer Writer) {
	r.record("open")
	if r.onOpen != nil {
		r.onOpen(ctx, writer)
	}
}

func (r *recorder) OnMessage(ctx context.Context, writer Writer, message *Message) {
	r.record("message")
	r.received <- message
}

func (r *recorder) OnError(ctx context.Context, err error) {
	r.record("error")
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) OnClose(ctx context.Context, code int, reason string) {
	r.record("close")
	r.mu.Lock()
	defer r.mu.Unlock()
	r.code, r.reason = code, reason
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// newPeer starts a test server which upgrades every request and hands the
// connection to serve. It returns the ws:// url of the server.
func newPeer(t *testing.T, serve func(conn *websocket.Conn)) string {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		serve(conn)
	}))
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

type peerMessage struct {
	Type int
	Data []byte
}

// echoPeer echoes every data message and reports it on the returned channel,
// which is closed once the server side read fails.
func echoPeer(t *testing.T) (string, <-chan peerMessage) {
	msgs := make(chan peerMessage, 16)
	url := newPeer(t, func(conn *websocket.Conn) {
		defer close(msgs)
		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			msgs <- peerMessage{Type: mt, Data: data}
			if err := conn.WriteMessage(mt, data); err != nil {
				return
			}
		}
	})

	return url, msgs
}

func runClient(ctx context.Context, t *testing.T, url string, h Handler, opts *Options) (*Client, <-chan error) {
	t.Helper()

	client, err := NewClient(url, h, opts)
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() {
		errCh <- client.Run(ctx)
	}()

	return client, errCh
}

func waitRun(t *testing.T, errCh <-chan error) error {
	t.Helper()

	select {
	case err := <-errCh:
		return err
	case <-time.After(waitTimeout):
		require.FailNow(t, "timeout waiting for client to stop")
		return nil
	}
}

func waitMessage(t *testing.T, ch <-chan *Message) *Message {
	t.Helper()

	select {
	case msg := <-ch:
		return msg
	case <-time.After(waitTimeout):
		require.FailNow(t, "timeout waiting for message")
		return nil
	}
}

func TestClient_WriteOnOpenAndCancel(t *testing.T) {
	url, peerMsgs := echoPeer(t)
	rec := newRecorder()
	rec.onOpen = func(ctx context.Context, writer Writer) {
		assert.NoError(t, writer.Write(ctx, &Message{Type: BinaryMessage, Data: []byte{1, 2, 3}}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, errCh := runClient(ctx, t, url, rec, nil)

	msg := waitMessage(t, rec.received)
	assert.Equal(t, BinaryMessage, msg.Type)
	assert.Equal(t, []byte{1, 2, 3}, msg.Data)

	cancel()
	assert.NoError(t, waitRun(t, errCh))
	assert.Equal(t, []string{"open", "message", "close"}, rec.Events())
	assert.Equal(t, websocket.CloseNormalClosure, rec.code)

	var got []peerMessage
	for m := range peerMsgs {
		got = append(got, m)
	}
	assert.Equal(t, []peerMessage{{Type: websocket.BinaryMessage, Data: []byte{1, 2, 3}}}, got)
}

func TestClient_ReceiveInOrder(t *testing.T) {
	url := newPeer(t, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.BinaryMessage, []byte{0, 255})
		_ = conn.WriteMessage(websocket.TextMessage, []byte("hello"))
		_ = conn.WriteMessage(websocket.BinaryMessage, []byte{10, 20, 30, 40, 50})
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_, _, _ = conn.ReadMessage()
	})
	rec := newRecorder()

	_, errCh := runClient(context.Background(), t, url, rec, nil)
	assert.NoError(t, waitRun(t, errCh))

	want := []*Message{
		{Type: BinaryMessage, Data: []byte{0, 255}},
		{Type: TextMessage, Data: []byte("hello")},
		{Type: BinaryMessage, Data: []byte{10, 20, 30, 40, 50}},
	}
	for _, w := range want {
		assert.Equal(t, w, waitMessage(t, rec.received))
	}
	assert.Equal(t, []string{"open", "message", "message", "message", "close"}, rec.Events())
}

func TestClient_ServerClose(t *testing.T) {
	url := newPeer(t, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "bye"))
		_, _, _ = conn.ReadMessage()
	})
	rec := newRecorder()

	_, errCh := runClient(context.Background(), t, url, rec, nil)

	assert.NoError(t, waitRun(t, errCh))
	assert.Equal(t, []string{"open", "close"}, rec.Events())
	assert.Equal(t, websocket.CloseGoingAway, rec.code)
	assert.Equal(t, "bye", rec.reason)
}

func TestClient_AbnormalClose(t *testing.T) {
	url := newPeer(t, func(conn *websocket.Conn) {
		_ = conn.UnderlyingConn().Close()
	})
	rec := newRecorder()

	_, errCh := runClient(context.Background(), t, url, rec, nil)

	assert.Error(t, waitRun(t, errCh))
	assert.Equal(t, []string{"open", "error", "close"}, rec.Events())
	assert.Equal(t, websocket.CloseAbnormalClosure, rec.code)
	assert.Len(t, rec.errs, 1)
}

func TestClient_DialError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	notFound := httptest.NewServer(http.NotFoundHandler())
	defer notFound.Close()

	tests := []struct {
		name string
		url  string
	}{
		{name: "connection refused", url: "ws://" + addr},
		{name: "bad handshake", url: "ws" + strings.TrimPrefix(notFound.URL, "http")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newRecorder()
			client, errCh := runClient(context.Background(), t, tt.url, rec, nil)

			assert.Error(t, waitRun(t, errCh))
			assert.Equal(t, []string{"error", "close"}, rec.Events())
			assert.Equal(t, websocket.CloseAbnormalClosure, rec.code)
			assert.ErrorIs(t, client.Write(context.Background(), &Message{Type: BinaryMessage}), ErrClientClosed)
		})
	}
}

func TestClient_DialCancelled(t *testing.T) {
	// accepts tcp connections but never answers the handshake
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	rec := newRecorder()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, errCh := runClient(ctx, t, "ws://"+ln.Addr().String(), rec, nil)

	time.Sleep(50 * time.Millisecond)
	cancel()
	assert.NoError(t, waitRun(t, errCh))
	assert.Equal(t, []string{"close"}, rec.Events())
	assert.Equal(t, websocket.CloseAbnormalClosure, rec.code)
	assert.Empty(t, rec.errs)
}

func TestClient_RunOnce(t *testing.T) {
	url := newPeer(t, func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_, _, _ = conn.ReadMessage()
	})

	client, errCh := runClient(context.Background(), t, url, newRecorder(), nil)
	assert.NoError(t, waitRun(t, errCh))

	assert.ErrorIs(t, client.Run(context.Background()), ErrClientStarted)
	assert.ErrorIs(t, client.Write(context.Background(), &Message{Type: BinaryMessage}), ErrClientClosed)
}

func TestClient_HandlerPanic(t *testing.T) {
	url, _ := echoPeer(t)
	rec := newRecorder()
	rec.onOpen = func(ctx context.Context, writer Writer) {
		_ = writer.Write(ctx, &Message{Type: TextMessage, Data: []byte("before panic")})
		panic("open handler")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, errCh := runClient(ctx, t, url, rec, nil)

	msg := waitMessage(t, rec.received)
	assert.Equal(t, "before panic", string(msg.Data))

	cancel()
	assert.NoError(t, waitRun(t, errCh))
	assert.Equal(t, []string{"open", "message", "close"}, rec.Events())
}

func TestClient_Heartbeat(t *testing.T) {
	pings := make(chan struct{}, 16)
	url := newPeer(t, func(conn *websocket.Conn) {
		conn.SetPingHandler(func(data string) error {
			pings <- struct{}{}
			return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	opts := NewOptions()
	opts.PingInterval = 20 * time.Millisecond
	opts.PongWait = 500 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, errCh := runClient(ctx, t, url, newRecorder(), opts)

	for i := 0; i < 2; i++ {
		select {
		case <-pings:
		case <-time.After(waitTimeout):
			require.FailNow(t, "timeout waiting for ping")
		}
	}

	cancel()
	assert.NoError(t, waitRun(t, errCh))
}

func TestClient_WriteContextDone(t *testing.T) {
	client, err := NewClient("ws://localhost:9001", newRecorder(), nil)
	require.NoError(t, err)
	for i := 0; i < writeBufferSize; i++ {
		require.NoError(t, client.Write(context.Background(), &Message{Type: BinaryMessage}))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, client.Write(ctx, &Message{Type: BinaryMessage}), context.Canceled)
	assert.Error(t, client.Write(context.Background(), nil))
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "ws", url: "ws://localhost:9001"},
		{name: "wss with path", url: "wss://example.com:443/socket"},
		{name: "http scheme", url: "http://localhost:9001", wantErr: true},
		{name: "no scheme", url: "localhost:9001", wantErr: true},
		{name: "bad host", url: "ws://bad host", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.url, newRecorder(), nil)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.url, client.URL())
			assert.NotEmpty(t, client.ID())
		})
	}

	_, err := NewClient("ws://localhost:9001", nil, nil)
	assert.Error(t, err)
}
