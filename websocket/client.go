// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/wangtaoking1/wsprobe/errors"
	"github.com/wangtaoking1/wsprobe/log"
)

const writeBufferSize = 100

var (
	// ErrClientStarted is returned when Run is called more than once.
	ErrClientStarted = errors.New("websocket client already started")
	// ErrClientClosed is returned when writing to a stopped client.
	ErrClientClosed = errors.New("websocket client closed")
)

// Close codes which end the connection without an error event.
var cleanCloseCodes = []int{
	websocket.CloseNormalClosure,
	websocket.CloseGoingAway,
	websocket.CloseNoStatusReceived,
}

// Client is a single websocket connection to a server. A Client is
// used for one Run only.
type Client struct {
	id      string
	url     string
	handler Handler
	opts    *Options
	dialer  *websocket.Dialer
	header  http.Header

	conn    *websocket.Conn
	writeCh chan *Message
	stopCh  chan struct{}

	started   atomic.Bool
	closing   atomic.Bool
	stopOnce  sync.Once
	errOnce   sync.Once
	handlerMu sync.Mutex

	// written by the read loop, read after all loops stopped
	closeCode   int
	closeReason string
}

var _ Writer = (*Client)(nil)

// NewClient creates a client for rawURL. The url must use the ws or wss scheme.
func NewClient(rawURL string, handler Handler, opts *Options) (*Client, error) {
	if handler == nil {
		return nil, errors.New("websocket handler can not be nil")
	}
	if opts == nil {
		opts = NewOptions()
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid websocket url %q", rawURL)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, errors.Errorf("invalid websocket url %q: scheme must be ws or wss", rawURL)
	}

	header := http.Header{}
	if opts.Origin != "" {
		header.Set("Origin", opts.Origin)
	}

	return &Client{
		id:      uuid.New().String(),
		url:     rawURL,
		handler: handler,
		opts:    opts,
		dialer: &websocket.Dialer{
			Proxy:             http.ProxyFromEnvironment,
			HandshakeTimeout:  opts.HandshakeTimeout,
			ReadBufferSize:    opts.ReadBufferSize,
			WriteBufferSize:   opts.WriteBufferSize,
			EnableCompression: opts.Compression,
			Subprotocols:      opts.Subprotocols,
		},
		header:    header,
		writeCh:   make(chan *Message, writeBufferSize),
		stopCh:    make(chan struct{}),
		closeCode: websocket.CloseAbnormalClosure,
	}, nil
}

// ID returns the id used to tag the logs of this connection.
func (c *Client) ID() string {
	return c.id
}

// URL returns the server url.
func (c *Client) URL() string {
	return c.url
}

// Run connects to the server and serves the connection until it is closed
// by either side or ctx is done. Cancelling ctx performs a normal close
// handshake, or abandons a pending dial. A nil error means the connection
// was closed cleanly.
func (c *Client) Run(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return ErrClientStarted
	}
	ctx = log.WithContext(ctx, "client_id", c.id, "url", c.url)

	conn, resp, err := c.dialer.DialContext(ctx, c.url, c.header)
	if err != nil {
		c.stop()
		if ctx.Err() != nil {
			log.From(ctx).Debugw("Dial interrupted", "error", err)
			c.handleClose(ctx)

			return nil
		}
		if resp != nil {
			err = errors.WithMessagef(err, "handshake status %d", resp.StatusCode)
		}
		c.reportError(ctx, err)
		c.handleClose(ctx)

		return errors.WithMessagef(err, "dial %s", c.url)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	c.conn = conn
	log.From(ctx).Debugw("Websocket connection established", "subprotocol", conn.Subprotocol())

	c.conn.SetReadLimit(c.opts.ReadLimit)
	c.conn.SetCloseHandler(func(code int, text string) error {
		return c.handleCloseFrame(ctx, code, text)
	})
	if c.opts.PingInterval > 0 {
		_ = c.conn.SetReadDeadline(c.deadline(c.opts.PongWait))
		c.conn.SetPongHandler(func(string) error {
			return c.conn.SetReadDeadline(c.deadline(c.opts.PongWait))
		})
	}

	var g errgroup.Group
	g.Go(func() error {
		return c.pingLoop(ctx)
	})
	g.Go(func() error {
		return c.writeLoop(ctx)
	})
	g.Go(func() error {
		c.handleOpen(ctx)
		return c.readLoop(ctx)
	})
	err = g.Wait()

	c.stop()
	c.handleClose(ctx)
	log.From(ctx).Debugw("Websocket client stopped", "code", c.closeCode)

	return err
}

// Write queues message for sending. It fails once the client is stopped.
func (c *Client) Write(ctx context.Context, message *Message) error {
	if message == nil {
		return errors.New("message can not be nil")
	}
	select {
	case <-c.stopCh:
		return ErrClientClosed
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.stopCh:
		return ErrClientClosed
	case c.writeCh <- message:
		return nil
	}
}

func (c *Client) readLoop(ctx context.Context) error {
	defer c.stop()

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			return c.handleReadError(ctx, err)
		}
		c.handleMessage(ctx, &Message{Type: MessageType(messageType), Data: data})
	}
}

func (c *Client) handleReadError(ctx context.Context, err error) error {
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		c.closeCode, c.closeReason = closeErr.Code, closeErr.Text
		if !websocket.IsUnexpectedCloseError(err, cleanCloseCodes...) {
			log.From(ctx).Debugw("Websocket closed by server", "code", closeErr.Code, "reason", closeErr.Text)
			return nil
		}
	}
	if c.closing.Load() {
		return nil
	}

	c.stop()
	c.reportError(ctx, err)

	return errors.WithMessage(err, "read message")
}

func (c *Client) writeLoop(ctx context.Context) error {
	for {
		select {
		case <-c.stopCh:
			return nil
		case <-ctx.Done():
			c.closeGracefully(ctx)
			return nil
		case msg := <-c.writeCh:
			_ = c.conn.SetWriteDeadline(c.deadline(c.opts.WriteTimeout))
			if err := c.conn.WriteMessage(int(msg.Type), msg.Data); err != nil {
				if c.closing.Load() {
					return nil
				}
				c.stop()
				c.reportError(ctx, err)

				return errors.WithMessage(err, "write message")
			}
			log.From(ctx).Debugw("Websocket message sent", "type", msg.Type, "len", len(msg.Data))
		}
	}
}

func (c *Client) pingLoop(ctx context.Context) error {
	if c.opts.PingInterval <= 0 {
		return nil
	}

	pingTicker := time.NewTicker(c.opts.PingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.stopCh:
			return nil
		case <-pingTicker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), c.deadline(c.opts.WriteTimeout)); err != nil {
				if c.closing.Load() {
					return nil
				}
				c.stop()
				c.reportError(ctx, err)

				return errors.WithMessage(err, "write ping message")
			}
		}
	}
}

// handleCloseFrame records the close frame of the server and replies to it.
// The reply is skipped when our own close frame was sent first, so the read
// loop always sees a *websocket.CloseError.
func (c *Client) handleCloseFrame(ctx context.Context, code int, text string) error {
	c.closeCode, c.closeReason = code, text

	msg := websocket.FormatCloseMessage(code, "")
	err := c.conn.WriteControl(websocket.CloseMessage, msg, c.deadline(c.opts.WriteTimeout))
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		log.From(ctx).Debugw("Reply close message failed", "error", err)
	}

	return nil
}

// closeGracefully sends a normal close frame and waits for the read loop
// to see the server reply, at most CloseTimeout.
func (c *Client) closeGracefully(ctx context.Context) {
	c.closing.Store(true)
	defer c.stop()

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := c.conn.WriteControl(websocket.CloseMessage, msg, c.deadline(c.opts.WriteTimeout)); err != nil {
		log.From(ctx).Debugw("Write close message failed", "error", err)
		return
	}
	if c.opts.CloseTimeout <= 0 {
		return
	}

	timer := time.NewTimer(c.opts.CloseTimeout)
	defer timer.Stop()
	select {
	case <-c.stopCh:
	case <-timer.C:
		log.From(ctx).Warnw("Timeout waiting for the server close reply", "timeout", c.opts.CloseTimeout)
	}
}

// stop ends all loops and releases the connection.
func (c *Client) stop() {
	c.stopOnce.Do(func() {
		c.closing.Store(true)
		close(c.stopCh)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

func (c *Client) deadline(d time.Duration) time.Time {
	if d <= 0 {
		return time.Time{}
	}

	return time.Now().Add(d)
}

func (c *Client) handleOpen(ctx context.Context) {
	c.callHandler(ctx, "open", func() {
		c.handler.OnOpen(ctx, c)
	})
}

func (c *Client) handleMessage(ctx context.Context, msg *Message) {
	c.callHandler(ctx, "message", func() {
		c.handler.OnMessage(ctx, c, msg)
	})
}

func (c *Client) reportError(ctx context.Context, err error) {
	c.errOnce.Do(func() {
		c.callHandler(ctx, "error", func() {
			c.handler.OnError(ctx, err)
		})
	})
}

func (c *Client) handleClose(ctx context.Context) {
	c.callHandler(ctx, "close", func() {
		c.handler.OnClose(ctx, c.closeCode, c.closeReason)
	})
}

func (c *Client) callHandler(ctx context.Context, event string, fn func()) {
	c.handlerMu.Lock()
	defer c.handlerMu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			log.From(ctx).Errorw("Handle websocket event panic", "event", event, "panic", r)
		}
	}()

	fn()
}
