// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"os"
	"path/filepath"

	"github.com/juju/clock"
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/gnuflag"

	"github.com/charmed-osm/onos-operator/core/credentials"
	"github.com/charmed-osm/onos-operator/internal/activation"
	"github.com/charmed-osm/onos-operator/internal/apptracker"
	"github.com/charmed-osm/onos-operator/internal/container"
	"github.com/charmed-osm/onos-operator/internal/dispatcher"
	"github.com/charmed-osm/onos-operator/internal/ingress"
	"github.com/charmed-osm/onos-operator/internal/operatorconfig"
	"github.com/charmed-osm/onos-operator/internal/reconciler"
	"github.com/charmed-osm/onos-operator/internal/state"
	"github.com/charmed-osm/onos-operator/internal/unitlock"
)

const (
	defaultDataDir      = "/var/lib/onos-operator"
	defaultPebbleSocket = "/charm/containers/onos/pebble.socket"
)

// operatorCommand carries the flags shared by every subcommand and knows
// how to assemble the component graph around the persisted unit state.
type operatorCommand struct {
	cmd.CommandBase

	dataDir      string
	pebbleSocket string
	serviceName  string
}

func (c *operatorCommand) SetFlags(f *gnuflag.FlagSet) {
	f.StringVar(&c.dataDir, "data-dir", defaultDataDir,
		"directory holding the operator's state and configuration")
	f.StringVar(&c.pebbleSocket, "pebble-socket", defaultPebbleSocket,
		"pebble API socket of the workload container")
	f.StringVar(&c.serviceName, "service-name", "onos",
		"service name declared on the ingress relation")
}

func (c *operatorCommand) statePath() string {
	return filepath.Join(c.dataDir, "state.yaml")
}

func (c *operatorCommand) configPath() string {
	return filepath.Join(c.dataDir, "config.yaml")
}

func (c *operatorCommand) ingressPath() string {
	return filepath.Join(c.dataDir, "ingress.yaml")
}

// components is the assembled graph one event operates on.
type components struct {
	unit       *state.Unit
	pebble     *container.Pebble
	tracker    *apptracker.Tracker
	reconciler *reconciler.Reconciler
	dispatcher *dispatcher.Dispatcher
}

// build loads the unit state and wires the components. The activation
// client authenticates with the configured admin password; before the
// configuration is complete the password is empty, which only matters
// once the service has been started.
func (c *operatorCommand) build() (*components, error) {
	unit, err := state.Load(c.statePath())
	if err != nil {
		return nil, errors.Trace(err)
	}
	pebble, err := container.NewPebble(c.pebbleSocket)
	if err != nil {
		return nil, errors.Trace(err)
	}

	adminPassword := ""
	cfg, err := operatorconfig.Read(c.configPath())
	switch {
	case err == nil:
		adminPassword = cfg.AdminPassword
	case errors.Is(err, os.ErrNotExist), errors.Is(err, operatorconfig.ErrConfigMissing):
		// Not configured yet. The empty password only matters once the
		// service has been started, which requires configuration.
	default:
		return nil, errors.Trace(err)
	}
	activator := activation.NewClient(activation.DefaultBaseURL, credentials.AdminUser, adminPassword)

	tracker := apptracker.NewTracker(unit, pebble, activator)
	rec, err := reconciler.New(reconciler.Config{
		Unit:        unit,
		Tracker:     tracker,
		Filesystem:  pebble,
		Ingress:     ingress.NewFileRelation(c.ingressPath()),
		ServiceName: c.serviceName,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	disp, err := dispatcher.New(dispatcher.Config{
		Unit:       unit,
		StatePath:  c.statePath(),
		Tracker:    tracker,
		Reconciler: rec,
		Catalog:    pebble,
		Supervisor: pebble,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &components{
		unit:       unit,
		pebble:     pebble,
		tracker:    tracker,
		reconciler: rec,
		dispatcher: disp,
	}, nil
}

// actionCommand is the base of the administrative subcommands: it takes
// the unit lock, dispatches exactly one command and renders the result
// envelope.
type actionCommand struct {
	operatorCommand
	out cmd.Output

	dispatch func(*dispatcher.Dispatcher) dispatcher.Result
}

func (c *actionCommand) SetFlags(f *gnuflag.FlagSet) {
	c.operatorCommand.SetFlags(f)
	c.out.AddFlags(f, "yaml", cmd.DefaultFormatters.Formatters())
}

func (c *actionCommand) Run(ctx *cmd.Context) error {
	lock := unitlock.New(unitlock.DefaultName, clock.WallClock)
	release, err := lock.Acquire(nil)
	if err != nil {
		return errors.Trace(err)
	}
	defer release()

	comps, err := c.build()
	if err != nil {
		return errors.Trace(err)
	}
	result := c.dispatch(comps.dispatcher)
	if err := c.out.Write(ctx, result); err != nil {
		return errors.Trace(err)
	}
	if result.Failed {
		return cmd.ErrSilent
	}
	return nil
}
