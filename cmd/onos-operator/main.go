// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// onos-operator supervises an ONOS controller workload: it keeps the
// declared set of activated applications converged against the live REST
// API and provisions Karaf users and groups. The run subcommand is the
// long-lived lifecycle loop; the remaining subcommands are the
// administrative surface and may be invoked while the loop is running.
package main

import (
	"fmt"
	"os"

	"github.com/juju/cmd/v3"
)

func main() {
	ctx, err := cmd.DefaultContext()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	os.Exit(cmd.Main(newSuperCommand(), ctx, os.Args[1:]))
}

func newSuperCommand() *cmd.SuperCommand {
	super := cmd.NewSuperCommand(cmd.SuperCommandParams{
		Name: "onos-operator",
		Doc:  "operator for the ONOS SDN controller workload",
		Log:  &cmd.Log{},
	})
	super.Register(newRunCommand())
	super.Register(newListActivatedAppsCommand())
	super.Register(newListAvailableAppsCommand())
	super.Register(newActivateAppCommand())
	super.Register(newDeactivateAppCommand())
	super.Register(newListRolesCommand())
	super.Register(newAddUserCommand())
	super.Register(newDeleteUserCommand())
	super.Register(newAddGroupCommand())
	super.Register(newDeleteGroupCommand())
	super.Register(newStartCommand())
	super.Register(newStopCommand())
	super.Register(newRestartCommand())
	return super
}
