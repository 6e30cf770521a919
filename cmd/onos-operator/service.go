// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"github.com/juju/cmd/v3"

	"github.com/charmed-osm/onos-operator/internal/dispatcher"
)

type startCommand struct {
	actionCommand
}

func newStartCommand() cmd.Command {
	c := &startCommand{}
	c.dispatch = func(d *dispatcher.Dispatcher) dispatcher.Result {
		return d.StartService()
	}
	return c
}

func (c *startCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "start",
		Purpose: "Start the ONOS service in the workload container.",
	}
}

type stopCommand struct {
	actionCommand
}

func newStopCommand() cmd.Command {
	c := &stopCommand{}
	c.dispatch = func(d *dispatcher.Dispatcher) dispatcher.Result {
		return d.StopService()
	}
	return c
}

func (c *stopCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "stop",
		Purpose: "Stop the ONOS service in the workload container.",
	}
}

type restartCommand struct {
	actionCommand
}

func newRestartCommand() cmd.Command {
	c := &restartCommand{}
	c.dispatch = func(d *dispatcher.Dispatcher) dispatcher.Result {
		return d.RestartService()
	}
	return c
}

func (c *restartCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "restart",
		Purpose: "Restart the ONOS service in the workload container.",
	}
}
