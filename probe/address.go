// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package probe

import (
	"net/url"

	"github.com/wangtaoking1/wsprobe/errors"
)

const (
	// DefaultAddress is used when no address is given.
	DefaultAddress = "localhost:9001"
	// QueryParam is the page url query parameter holding the address.
	QueryParam = "ws"

	scheme = "ws://"
)

// AddressFromQuery returns the ws parameter of values, or DefaultAddress
// when it is missing or empty.
func AddressFromQuery(values url.Values) string {
	if addr := values.Get(QueryParam); addr != "" {
		return addr
	}

	return DefaultAddress
}

// AddressFromPageURL applies AddressFromQuery to the query of a hosting page url.
func AddressFromPageURL(pageURL string) (string, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return "", errors.Wrapf(err, "invalid page url %q", pageURL)
	}

	return AddressFromQuery(u.Query()), nil
}

// URL returns the websocket url of address. The address is used verbatim.
func URL(address string) string {
	return scheme + address
}
