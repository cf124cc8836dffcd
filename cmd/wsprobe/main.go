// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// wsprobe opens one websocket connection, sends a fixed binary payload and
// logs the connection lifecycle.
package main

import (
	"context"

	"github.com/wangtaoking1/wsprobe/app"
	"github.com/wangtaoking1/wsprobe/log"
	"github.com/wangtaoking1/wsprobe/probe"
)

const description = `wsprobe opens one websocket connection to ws://<address>, sends the
binary payload [10 20 30 40 50] once connected and logs every connect,
disconnect, error and inbound binary message.

The address defaults to localhost:9001. It can be given with --ws, or taken
from the ws query parameter of a hosting page url with --page-url.`

func main() {
	newApp(NewOptions()).Run()
}

func newApp(opts *Options, extra ...app.Option) app.App {
	appOpts := []app.Option{
		app.WithDescription(description),
		app.WithOptions(opts),
		app.WithDefaultValidArgs(),
		app.WithRunFunc(run(opts)),
	}

	return app.NewApp("wsprobe", "websocket probe", append(appOpts, extra...)...)
}

func run(opts *Options) app.RunFunc {
	return func(ctx context.Context, name string) error {
		log.Init(opts.Log)
		defer log.Flush()

		return probe.Run(ctx, opts.Probe, opts.WebSocket)
	}
}
