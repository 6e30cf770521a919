// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package main

import (
	"strings"

	"github.com/juju/cmd/v3"
	"github.com/juju/errors"

	"github.com/charmed-osm/onos-operator/internal/dispatcher"
)

type listRolesCommand struct {
	actionCommand
}

func newListRolesCommand() cmd.Command {
	c := &listRolesCommand{}
	c.dispatch = func(d *dispatcher.Dispatcher) dispatcher.Result {
		return d.ListRoles()
	}
	return c
}

func (c *listRolesCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "list-roles",
		Purpose: "List the Karaf roles a group may carry.",
	}
}

type addGroupCommand struct {
	actionCommand

	groupname string
	roles     string
}

func newAddGroupCommand() cmd.Command {
	c := &addGroupCommand{}
	c.dispatch = func(d *dispatcher.Dispatcher) dispatcher.Result {
		return d.AddGroup(c.groupname, c.roles)
	}
	return c
}

func (c *addGroupCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "add-group",
		Args:    "<groupname> <role>[,<role>...]",
		Purpose: "Add a Karaf group to the workload.",
		Doc: `
Roles are comma separated; see list-roles for the accepted set. Adding
an existing group replaces its role list.
`,
	}
}

func (c *addGroupCommand) Init(args []string) error {
	if len(args) < 2 {
		return errors.New("add-group requires <groupname> <roles>")
	}
	c.groupname = args[0]
	// Allow the role list to be given either comma separated or as
	// further positional arguments.
	c.roles = strings.Join(args[1:], ",")
	return nil
}

type deleteGroupCommand struct {
	actionCommand

	groupname string
}

func newDeleteGroupCommand() cmd.Command {
	c := &deleteGroupCommand{}
	c.dispatch = func(d *dispatcher.Dispatcher) dispatcher.Result {
		return d.DeleteGroup(c.groupname)
	}
	return c
}

func (c *deleteGroupCommand) Info() *cmd.Info {
	return &cmd.Info{
		Name:    "delete-group",
		Args:    "<groupname>",
		Purpose: "Delete a Karaf group from the workload.",
		Doc: `
A group still referenced by a user cannot be deleted; delete or move its
users first.
`,
	}
}

func (c *deleteGroupCommand) Init(args []string) error {
	if len(args) == 0 {
		return errors.New("missing group name")
	}
	c.groupname = args[0]
	return cmd.CheckEmpty(args[1:])
}
