// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"github.com/juju/cmd/v3"
	"github.com/juju/errors"

	"github.com/charmed-osm/onos-operator/internal/dispatcher"
)

type addUserCommand struct {
	actionCommand

	username string
	password string
	group    string
}

func newAddUserCommand() cmd.Command {
	c := &addUserCommand{}
	c.dispatch = func(d *dispatcher.Dispatcher) dispatcher.Result {
		return d.AddUser(c.username, c.password, c.group)
	}
	return c
}

func (c *addUserCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "add-user",
		Args:    "<username> <password> <group>",
		Purpose: "Add a Karaf user to the workload.",
		Doc: `
The group must already exist. The reserved users admin and guest cannot
be redefined.
`,
	}
}

func (c *addUserCommand) Init(args []string) error {
	if len(args) < 3 {
		return errors.New("add-user requires <username> <password> <group>")
	}
	c.username, c.password, c.group = args[0], args[1], args[2]
	return cmd.CheckEmpty(args[3:])
}

type deleteUserCommand struct {
	actionCommand

	username string
}

func newDeleteUserCommand() cmd.Command {
	c := &deleteUserCommand{}
	c.dispatch = func(d *dispatcher.Dispatcher) dispatcher.Result {
		return d.DeleteUser(c.username)
	}
	return c
}

func (c *deleteUserCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "delete-user",
		Args:    "<username>",
		Purpose: "Delete a Karaf user from the workload.",
	}
}

func (c *deleteUserCommand) Init(args []string) error {
	if len(args) == 0 {
		return errors.New("missing username")
	}
	c.username = args[0]
	return cmd.CheckEmpty(args[1:])
}
