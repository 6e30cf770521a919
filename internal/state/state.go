// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package state persists the operator's view of the unit across process
// restarts: which applications are meant to be active, whether the
// workload has been started, and the provisioned users and groups. The
// state is an explicit object handed to the reconciler and dispatcher at
// construction; every mutating operation is followed by a Save.
package state

import (
	"os"

	"github.com/juju/errors"
	"github.com/juju/utils/v4"
	"gopkg.in/yaml.v2"

	"github.com/charmed-osm/onos-operator/core/credentials"
	"github.com/charmed-osm/onos-operator/core/onos"
)

// Unit is the durable unit state. Apps preserves activation order; Users
// and Groups preserve insertion order so the rendered credentials file is
// stable across restarts.
type Unit struct {
	// Apps are the application identifiers believed to be active.
	Apps []string `yaml:"apps"`

	// Started records that the onos pebble service has been started at
	// least once; remote activation calls are only issued after that.
	Started bool `yaml:"started"`

	// Ready records that the pebble API in the workload container has
	// been reached.
	Ready bool `yaml:"ready"`

	Users  []credentials.User  `yaml:"users"`
	Groups []credentials.Group `yaml:"groups"`
}

// NewUnit returns the initial state for a fresh unit, with the system
// application pre-seeded into the active set.
func NewUnit() *Unit {
	return &Unit{Apps: []string{onos.SystemApp}}
}

// Load reads unit state from path. A missing file yields the initial
// state; the first Save will create it.
func Load(path string) (*Unit, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewUnit(), nil
	}
	if err != nil {
		return nil, errors.Annotatef(err, "reading state %q", path)
	}
	var unit Unit
	if err := yaml.Unmarshal(data, &unit); err != nil {
		return nil, errors.Annotatef(err, "parsing state %q", path)
	}
	return &unit, nil
}

// Save durably writes the unit state to path via a temp file and rename.
func (u *Unit) Save(path string) error {
	data, err := yaml.Marshal(u)
	if err != nil {
		return errors.Trace(err)
	}
	if err := utils.AtomicWriteFile(path, data, 0600); err != nil {
		return errors.Annotatef(err, "writing state %q", path)
	}
	return nil
}

// Store returns a credentials store restored from the persisted users and
// groups, in their saved order.
func (u *Unit) Store() *credentials.Store {
	return credentials.Restore(u.Users, u.Groups)
}

// SetStore snapshots a credentials store back into the unit state.
func (u *Unit) SetStore(store *credentials.Store) {
	u.Users = store.Users()
	u.Groups = store.Groups()
}
