// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package probe

import (
	"github.com/spf13/pflag"
)

// Options selects the server address.
type Options struct {
	// Address is the host:port of the server.
	Address string `json:"ws"       mapstructure:"ws"`
	// PageURL is a hosting page url whose ws query parameter selects the address.
	PageURL string `json:"page-url" mapstructure:"page-url"`
}

// NewOptions returns options which resolve to DefaultAddress.
func NewOptions() *Options {
	return &Options{}
}

// Complete resolves the effective address. An explicit address wins over
// the page url, which wins over DefaultAddress.
func (o *Options) Complete() error {
	if o.Address != "" {
		return nil
	}
	if o.PageURL == "" {
		o.Address = DefaultAddress
		return nil
	}

	addr, err := AddressFromPageURL(o.PageURL)
	if err != nil {
		return err
	}
	o.Address = addr

	return nil
}

func (o *Options) Validate() []error {
	var errs []error
	if o.PageURL != "" {
		if _, err := AddressFromPageURL(o.PageURL); err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

// URL returns the websocket url of the completed options.
func (o *Options) URL() string {
	return URL(o.Address)
}

func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Address, "ws", o.Address, "The `HOST:PORT` of the websocket server, used verbatim in ws://HOST:PORT (default "+DefaultAddress+")")
	fs.StringVar(&o.PageURL, "page-url", o.PageURL, "A hosting page `URL` whose "+QueryParam+" query parameter selects the server address")
}
