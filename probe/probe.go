// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package probe

import (
	"context"

	"github.com/wangtaoking1/wsprobe/log"
	"github.com/wangtaoking1/wsprobe/websocket"
)

// Run connects to the server selected by opts and serves the connection
// until it is closed or ctx is done.
func Run(ctx context.Context, opts *Options, wsOpts *websocket.Options) error {
	if err := opts.Complete(); err != nil {
		return err
	}

	client, err := websocket.NewClient(opts.URL(), NewHandler(), wsOpts)
	if err != nil {
		return err
	}
	log.Infow("Connecting to websocket server", "url", client.URL(), "client_id", client.ID())

	return client.Run(ctx)
}
