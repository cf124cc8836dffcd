// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package websocket

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// Options contains configuration options for the websocket client.
type Options struct {
	HandshakeTimeout time.Duration `json:"handshake-timeout" mapstructure:"handshake-timeout"`
	WriteTimeout     time.Duration `json:"write-timeout"     mapstructure:"write-timeout"`
	CloseTimeout     time.Duration `json:"close-timeout"     mapstructure:"close-timeout"`
	// PingInterval enables the heartbeat when positive. Must be less than PongWait.
	PingInterval    time.Duration `json:"ping-interval"     mapstructure:"ping-interval"`
	PongWait        time.Duration `json:"pong-wait"         mapstructure:"pong-wait"`
	ReadLimit       int64         `json:"read-limit"        mapstructure:"read-limit"`
	ReadBufferSize  int           `json:"read-buffer-size"  mapstructure:"read-buffer-size"`
	WriteBufferSize int           `json:"write-buffer-size" mapstructure:"write-buffer-size"`
	Compression     bool          `json:"compression"       mapstructure:"compression"`
	Origin          string        `json:"origin"            mapstructure:"origin"`
	Subprotocols    []string      `json:"subprotocols"      mapstructure:"subprotocols"`
}

// NewOptions return a new options for client.
func NewOptions() *Options {
	return &Options{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     10 * time.Second,
		CloseTimeout:     5 * time.Second,
		PingInterval:     0,
		PongWait:         30 * time.Second,
		ReadLimit:        0,
		ReadBufferSize:   4096,
		WriteBufferSize:  4096,
		Compression:      false,
	}
}

func (o *Options) Validate() []error {
	var errs []error
	durations := []struct {
		name  string
		value time.Duration
	}{
		{"handshake-timeout", o.HandshakeTimeout},
		{"write-timeout", o.WriteTimeout},
		{"close-timeout", o.CloseTimeout},
		{"ping-interval", o.PingInterval},
		{"pong-wait", o.PongWait},
	}
	for _, d := range durations {
		if d.value < 0 {
			errs = append(errs, fmt.Errorf("--websocket.%s %v must not be negative", d.name, d.value))
		}
	}
	if o.PingInterval > 0 && o.PingInterval >= o.PongWait {
		errs = append(errs, fmt.Errorf("--websocket.ping-interval %v must be less than --websocket.pong-wait %v",
			o.PingInterval, o.PongWait))
	}
	if o.ReadLimit < 0 {
		errs = append(errs, fmt.Errorf("--websocket.read-limit %v must not be negative", o.ReadLimit))
	}
	if o.ReadBufferSize < 0 || o.WriteBufferSize < 0 {
		errs = append(errs, fmt.Errorf("--websocket.read-buffer-size and --websocket.write-buffer-size must not be negative"))
	}

	return errs
}

func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.DurationVar(&o.HandshakeTimeout, "websocket.handshake-timeout", o.HandshakeTimeout, "Time allowed to complete the opening handshake, 0 means no limit")
	fs.DurationVar(&o.WriteTimeout, "websocket.write-timeout", o.WriteTimeout, "Time allowed to write a message to the server, 0 means no limit")
	fs.DurationVar(&o.CloseTimeout, "websocket.close-timeout", o.CloseTimeout, "Time to wait for the server close reply before tearing down the connection")
	fs.DurationVar(&o.PingInterval, "websocket.ping-interval", o.PingInterval, "Send pings to the server with this period, 0 disables the heartbeat")
	fs.DurationVar(&o.PongWait, "websocket.pong-wait", o.PongWait, "Time allowed to read the next pong message when the heartbeat is enabled")
	fs.Int64Var(&o.ReadLimit, "websocket.read-limit", o.ReadLimit, "Maximum message size in bytes allowed from the server, 0 means no limit")
	fs.IntVar(&o.ReadBufferSize, "websocket.read-buffer-size", o.ReadBufferSize, "The byte size of websocket read buffer")
	fs.IntVar(&o.WriteBufferSize, "websocket.write-buffer-size", o.WriteBufferSize, "The byte size of websocket write buffer")
	fs.BoolVar(&o.Compression, "websocket.compression", o.Compression, "Negotiate per message compression with the server")
	fs.StringVar(&o.Origin, "websocket.origin", o.Origin, "Origin header sent with the opening handshake")
	fs.StringSliceVar(&o.Subprotocols, "websocket.subprotocols", o.Subprotocols, "Subprotocols requested by the client, comma separated")
}
