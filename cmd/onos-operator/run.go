// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"os"

	"github.com/juju/clock"
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/charmed-osm/onos-operator/internal/unitlock"
	"github.com/charmed-osm/onos-operator/internal/worker/operator"
)

var logger = loggo.GetLogger("onos.cmd")

type runCommand struct {
	operatorCommand
}

func newRunCommand() cmd.Command {
	return &runCommand{}
}

func (c *runCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "run",
		Purpose: "Run the operator lifecycle loop.",
		Doc: `
Waits for pebble in the workload container to report ready, installs the
service layer, starts ONOS and then keeps the workload converged with
the operator configuration, re-reconciling whenever the configuration
file changes. Runs until interrupted.
`,
	}
}

func (c *runCommand) Run(ctx *cmd.Context) error {
	comps, err := c.build()
	if err != nil {
		return errors.Trace(err)
	}
	w, err := operator.NewWorker(operator.WorkerConfig{
		Unit:       comps.unit,
		StatePath:  c.statePath(),
		ConfigPath: c.configPath(),
		Reconciler: comps.reconciler,
		Tracker:    comps.tracker,
		Supervisor: comps.pebble,
		Guard:      unitlock.New(unitlock.DefaultName, clock.WallClock),
		Clock:      clock.WallClock,
	})
	if err != nil {
		return errors.Trace(err)
	}

	interrupted := make(chan os.Signal, 1)
	ctx.InterruptNotify(interrupted)
	defer ctx.StopInterruptNotify(interrupted)

	done := make(chan error, 1)
	go func() {
		done <- w.Wait()
	}()
	select {
	case <-interrupted:
		logger.Infof("interrupted, stopping operator")
		w.Kill()
		return errors.Trace(<-done)
	case err := <-done:
		return errors.Trace(err)
	}
}
