// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"

	"github.com/wangtaoking1/wsprobe/flag"
	"github.com/wangtaoking1/wsprobe/log"
	"github.com/wangtaoking1/wsprobe/probe"
	"github.com/wangtaoking1/wsprobe/websocket"
)

// Options is the configuration of the wsprobe command.
type Options struct {
	Probe     *probe.Options     `json:"probe"     mapstructure:",squash"`
	WebSocket *websocket.Options `json:"websocket" mapstructure:"websocket"`
	Log       *log.Options       `json:"log"       mapstructure:"log"`
}

// NewOptions creates an Options object with default parameters.
func NewOptions() *Options {
	return &Options{
		Probe:     probe.NewOptions(),
		WebSocket: websocket.NewOptions(),
		Log:       log.NewOptions(),
	}
}

func (o *Options) Flags() (fss flag.NamedFlagSets) {
	o.Probe.AddFlags(fss.FlagSet("probe"))
	o.WebSocket.AddFlags(fss.FlagSet("websocket"))
	o.Log.AddFlags(fss.FlagSet("log"))

	return fss
}

func (o *Options) Complete() error {
	return o.Probe.Complete()
}

func (o *Options) Validate() []error {
	var errs []error
	errs = append(errs, o.Probe.Validate()...)
	errs = append(errs, o.WebSocket.Validate()...)
	errs = append(errs, o.Log.Validate()...)

	return errs
}

func (o *Options) String() string {
	data, _ := json.Marshal(o)

	return string(data)
}
