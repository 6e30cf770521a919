// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package unitlock serializes unit events. Lifecycle passes run in the
// operator daemon while administrative commands run as separate
// processes; the machine-wide mutex guarantees that exactly one of them
// touches the unit state at a time.
package unitlock

import (
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/mutex/v2"
)

// DefaultName is the mutex name shared by the daemon and the command
// processes of one unit.
const DefaultName = "onos-operator-hook"

// Lock acquires the unit event mutex.
type Lock struct {
	name  string
	clock clock.Clock
}

// New returns a lock with the given mutex name.
func New(name string, clk clock.Clock) *Lock {
	return &Lock{name: name, clock: clk}
}

// Acquire blocks until the mutex is held, the cancel channel fires, or
// an error occurs. The returned func releases the mutex.
func (l *Lock) Acquire(cancel <-chan struct{}) (func(), error) {
	releaser, err := mutex.Acquire(mutex.Spec{
		Name:   l.name,
		Clock:  l.clock,
		Delay:  250 * time.Millisecond,
		Cancel: cancel,
	})
	if err != nil {
		return nil, errors.Annotatef(err, "acquiring lock %q", l.name)
	}
	return releaser.Release, nil
}
