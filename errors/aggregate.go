// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package errors

import (
	"errors"
	"strings"

	"go.uber.org/multierr"
)

// Aggregate represents an object that contains multiple errors.
type Aggregate interface {
	error
	Errors() []error
	Is(error) bool
}

type aggregate struct {
	err error
}

// NewAggregate converts a slice of errors into an Aggregate. Nil entries
// are dropped; nil is returned when nothing is left.
func NewAggregate(errlist []error) Aggregate {
	err := multierr.Combine(errlist...)
	if err == nil {
		return nil
	}

	return aggregate{err: err}
}

func (agg aggregate) Error() string {
	errs := agg.Errors()
	if len(errs) == 1 {
		return errs[0].Error()
	}

	seen := make(map[string]struct{}, len(errs))
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := e.Error()
		if _, ok := seen[msg]; ok {
			continue
		}
		seen[msg] = struct{}{}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 1 {
		return msgs[0]
	}

	return "[" + strings.Join(msgs, ", ") + "]"
}

func (agg aggregate) Is(target error) bool {
	return errors.Is(agg.err, target)
}

func (agg aggregate) Errors() []error {
	return multierr.Errors(agg.err)
}
