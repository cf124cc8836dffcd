// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

// Package errors wraps github.com/pkg/errors so callers import a single
// errors package.
package errors

import (
	"github.com/pkg/errors"
)

var (
	New          = errors.New
	Errorf       = errors.Errorf
	Wrap         = errors.Wrap
	Wrapf        = errors.Wrapf
	WithMessage  = errors.WithMessage
	WithMessagef = errors.WithMessagef
	WithStack    = errors.WithStack
	Cause        = errors.Cause
	Is           = errors.Is
	As           = errors.As
	Unwrap       = errors.Unwrap
)
