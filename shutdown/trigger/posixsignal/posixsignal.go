// Copyright 2025 Tao Wang <wangtaoking1@qq.com>. All rights reserved.
// Use of this source code is governed by a MIT style
// license that can be found in the LICENSE file.

package posixsignal

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/wangtaoking1/wsprobe/shutdown"
)

// Name defines shutdown manager name.
const Name = "PosixSignalTrigger"

// trigger implements the shutdown Trigger interface that is added
// to GracefulShutdown. Initialize with New.
type trigger struct {
	signals []os.Signal
	exit    bool
}

// Option configures the trigger.
type Option func(*trigger)

// WithExit makes the trigger exit the process once every callback returned.
func WithExit() Option {
	return func(t *trigger) {
		t.exit = true
	}
}

// GetName returns name of this trigger.
func (t *trigger) GetName() string {
	return Name
}

// Start starts listening for posix signals. Only the first signal is
// handled, later ones get the default behavior so a second interrupt
// kills a stuck process.
func (t *trigger) Start(executor shutdown.Executor) error {
	c := make(chan os.Signal, 1)
	signal.Notify(c, t.signals...)

	go func() {
		// Block until a signal is received.
		<-c
		signal.Stop(c)

		// Trigger the shutdown execution.
		executor.Execute(t)
	}()

	return nil
}

// After exits the process when configured with WithExit.
func (t *trigger) After() {
	if t.exit {
		os.Exit(0)
	}
}

// New initializes the PosixSignalTrigger with the given signals, SIGINT
// and SIGTERM by default.
func New(sig []os.Signal, opts ...Option) shutdown.Trigger {
	if len(sig) == 0 {
		sig = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	t := &trigger{
		signals: sig,
	}
	for _, o := range opts {
		o(t)
	}

	return t
}
