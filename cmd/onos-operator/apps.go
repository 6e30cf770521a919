// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"

	"github.com/charmed-osm/onos-operator/internal/dispatcher"
)

type listActivatedAppsCommand struct {
	actionCommand
}

func newListActivatedAppsCommand() cmd.Command {
	c := &listActivatedAppsCommand{}
	c.dispatch = func(d *dispatcher.Dispatcher) dispatcher.Result {
		return d.ListActivatedApps()
	}
	return c
}

func (c *listActivatedAppsCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "list-activated-apps",
		Purpose: "List the ONOS applications this unit keeps activated.",
	}
}

type listAvailableAppsCommand struct {
	actionCommand
}

func newListAvailableAppsCommand() cmd.Command {
	c := &listAvailableAppsCommand{}
	c.dispatch = func(d *dispatcher.Dispatcher) dispatcher.Result {
		return d.ListAvailableApps()
	}
	return c
}

func (c *listAvailableAppsCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "list-available-apps",
		Purpose: "List the ONOS applications shipped in the workload container.",
	}
}

type activateAppCommand struct {
	actionCommand

	name string
}

func newActivateAppCommand() cmd.Command {
	c := &activateAppCommand{}
	c.dispatch = func(d *dispatcher.Dispatcher) dispatcher.Result {
		return d.ActivateApp(c.name)
	}
	return c
}

func (c *activateAppCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "activate-app",
		Args:    "<application>",
		Purpose: "Activate an ONOS application on this unit.",
		Doc: `
Adds the application to the set this unit keeps activated and, once the
service is running, activates it through the ONOS REST API.
`,
	}
}

func (c *activateAppCommand) Init(args []string) error {
	if len(args) == 0 {
		return errors.New("missing application name")
	}
	c.name = args[0]
	return cmd.CheckEmpty(args[1:])
}

type deactivateAppCommand struct {
	actionCommand

	name string
}

func newDeactivateAppCommand() cmd.Command {
	c := &deactivateAppCommand{}
	c.dispatch = func(d *dispatcher.Dispatcher) dispatcher.Result {
		return d.DeactivateApp(c.name)
	}
	return c
}

func (c *deactivateAppCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "deactivate-app",
		Args:    "<application>",
		Purpose: "Deactivate an ONOS application on this unit.",
	}
}

func (c *deactivateAppCommand) Init(args []string) error {
	if len(args) == 0 {
		return errors.New("missing application name")
	}
	c.name = args[0]
	return cmd.CheckEmpty(args[1:])
}
