// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package apptracker maintains the set of ONOS applications that are
// meant to be active. The local set is authoritative desired state: it is
// mutated before any remote call, and a failed remote call is not rolled
// back. Convergence against the live service is re-attempted by the next
// reconciliation pass.
package apptracker

import (
	"fmt"
	"strings"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/charmed-osm/onos-operator/internal/state"
)

var logger = loggo.GetLogger("onos.apptracker")

const (
	// ErrAlreadyActive is returned when activating an application that is
	// already a member of the active set.
	ErrAlreadyActive = errors.ConstError("application is already active")

	// ErrNotActive is returned when deactivating an application that is
	// not a member of the active set.
	ErrNotActive = errors.ConstError("application is not active")

	// ErrUnknownApplication is returned when the application is not part
	// of the installed application catalog.
	ErrUnknownApplication = errors.ConstError("application does not exist")
)

// Catalog lists the applications installed in the ONOS distribution.
type Catalog interface {
	AvailableApplications() ([]string, error)
}

// Activator toggles application activation on the live service.
type Activator interface {
	Activate(name string) error
	Deactivate(name string) error
}

// Tracker converges the persisted active-application set. It mutates the
// unit state in place; persisting the mutation is the caller's concern
// and must happen even when the remote call failed.
type Tracker struct {
	unit      *state.Unit
	catalog   Catalog
	activator Activator
}

// NewTracker returns a tracker over the given unit state.
func NewTracker(unit *state.Unit, catalog Catalog, activator Activator) *Tracker {
	return &Tracker{unit: unit, catalog: catalog, activator: activator}
}

// Active returns the active application identifiers in activation order.
func (t *Tracker) Active() []string {
	return append([]string(nil), t.unit.Apps...)
}

// ActiveJoined returns the active set as the comma-joined form consumed
// by the ONOS_APPS environment variable.
func (t *Tracker) ActiveJoined() string {
	return strings.Join(t.unit.Apps, ", ")
}

// IsActive reports whether the named application is in the active set.
func (t *Tracker) IsActive(name string) bool {
	return set.NewStrings(t.unit.Apps...).Contains(name)
}

// Activate adds the application to the active set and, if the service has
// been started, issues the remote activation call. The set mutation is
// kept even when the remote call fails.
func (t *Tracker) Activate(name string) error {
	if err := t.checkExists(name); err != nil {
		return errors.Trace(err)
	}
	if t.IsActive(name) {
		return fmt.Errorf("application %q is already active%w", name, errors.Hide(ErrAlreadyActive))
	}
	t.unit.Apps = append(t.unit.Apps, name)
	logger.Infof("activated application %q", name)
	if t.unit.Started {
		if err := t.activator.Activate(name); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

// Deactivate removes the application from the active set and, if the
// service has been started, issues the remote deactivation call.
func (t *Tracker) Deactivate(name string) error {
	if err := t.checkExists(name); err != nil {
		return errors.Trace(err)
	}
	if !t.IsActive(name) {
		return fmt.Errorf("application %q is not active%w", name, errors.Hide(ErrNotActive))
	}
	for i, app := range t.unit.Apps {
		if app == name {
			t.unit.Apps = append(t.unit.Apps[:i], t.unit.Apps[i+1:]...)
			break
		}
	}
	logger.Infof("deactivated application %q", name)
	if t.unit.Started {
		if err := t.activator.Deactivate(name); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

func (t *Tracker) checkExists(name string) error {
	apps, err := t.catalog.AvailableApplications()
	if err != nil {
		return errors.Trace(err)
	}
	if !set.NewStrings(apps...).Contains(name) {
		return fmt.Errorf("application %q does not exist%w", name, errors.Hide(ErrUnknownApplication))
	}
	return nil
}
