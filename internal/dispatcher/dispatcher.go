// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package dispatcher maps administrative commands onto the reconciler,
// application tracker and credential store, and folds every outcome into
// a uniform result envelope. It performs no domain logic of its own
// beyond leadership and existence pre-checks; the underlying components
// are the same ones the reconciler drives, so both paths share one
// source of truth.
package dispatcher

import (
	"fmt"
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/charmed-osm/onos-operator/core/credentials"
	"github.com/charmed-osm/onos-operator/internal/apptracker"
	"github.com/charmed-osm/onos-operator/internal/reconciler"
	"github.com/charmed-osm/onos-operator/internal/state"
)

var logger = loggo.GetLogger("onos.dispatcher")

const (
	// ErrAlreadyRunning is returned when starting a service that is
	// already active.
	ErrAlreadyRunning = errors.ConstError("service is already active")

	// ErrNotRunning is returned when stopping a service that is not
	// active.
	ErrNotRunning = errors.ConstError("service is not running")

	// ErrNotLeader is returned when a non-leader unit attempts a
	// state-mutating command.
	ErrNotLeader = errors.ConstError("this unit is not the leader")
)

// Supervisor is the service-control surface of the workload container.
type Supervisor interface {
	Start() error
	Stop() error
	Running() (bool, error)
}

// Result is the uniform outcome envelope of an administrative command.
// Failures carry a message; successes carry an output line plus
// command-specific details.
type Result struct {
	Failed  bool              `yaml:"failed,omitempty" json:"failed,omitempty"`
	Message string            `yaml:"message,omitempty" json:"message,omitempty"`
	Output  string            `yaml:"output,omitempty" json:"output,omitempty"`
	Details map[string]string `yaml:"details,omitempty" json:"details,omitempty"`
}

// Config holds the dispatcher's collaborators.
type Config struct {
	// Unit is the persisted unit state, shared with the reconciler.
	Unit *state.Unit

	// StatePath is where unit state is saved after mutating commands.
	StatePath string

	Tracker    *apptracker.Tracker
	Reconciler *reconciler.Reconciler
	Catalog    apptracker.Catalog
	Supervisor Supervisor

	// IsLeader guards state-mutating commands. Nil means the unit always
	// holds leadership (single-unit deployments).
	IsLeader func() (bool, error)
}

// Validate ensures that the required collaborators are set.
func (c Config) Validate() error {
	if c.Unit == nil {
		return errors.NotValidf("nil Unit")
	}
	if c.StatePath == "" {
		return errors.NotValidf("empty StatePath")
	}
	if c.Tracker == nil {
		return errors.NotValidf("nil Tracker")
	}
	if c.Reconciler == nil {
		return errors.NotValidf("nil Reconciler")
	}
	if c.Catalog == nil {
		return errors.NotValidf("nil Catalog")
	}
	if c.Supervisor == nil {
		return errors.NotValidf("nil Supervisor")
	}
	return nil
}

// Dispatcher executes administrative commands.
type Dispatcher struct {
	config Config
}

// New returns a dispatcher for the given collaborators.
func New(config Config) (*Dispatcher, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Dispatcher{config: config}, nil
}

// ListActivatedApps reports the active application set.
func (d *Dispatcher) ListActivatedApps() Result {
	return succeed("", map[string]string{
		"activated-apps": d.config.Tracker.ActiveJoined(),
	})
}

// ListAvailableApps reports every installable application.
func (d *Dispatcher) ListAvailableApps() Result {
	apps, err := d.config.Catalog.AvailableApplications()
	if err != nil {
		return fail("listing available applications", err)
	}
	return succeed("successfully retrieved list of all available apps", map[string]string{
		"available-apps": strings.Join(apps, ", "),
	})
}

// ListRoles reports the role catalog.
func (d *Dispatcher) ListRoles() Result {
	return succeed("", map[string]string{
		"roles": strings.Join(credentials.AllRoles, ", "),
	})
}

// ActivateApp adds an application to the active set and converges the
// live service.
func (d *Dispatcher) ActivateApp(name string) Result {
	if res, ok := d.checkLeader("activating app"); !ok {
		return res
	}
	err := d.config.Tracker.Activate(name)
	// The local set may have been mutated even when the remote call
	// failed, so the state is saved regardless.
	if saveErr := d.save(); err == nil {
		err = saveErr
	}
	if err != nil {
		return fail("activating app", err)
	}
	return succeed(fmt.Sprintf("application %s successfully activated", name), nil)
}

// DeactivateApp removes an application from the active set and converges
// the live service.
func (d *Dispatcher) DeactivateApp(name string) Result {
	if res, ok := d.checkLeader("deactivating app"); !ok {
		return res
	}
	err := d.config.Tracker.Deactivate(name)
	if saveErr := d.save(); err == nil {
		err = saveErr
	}
	if err != nil {
		return fail("deactivating app", err)
	}
	return succeed(fmt.Sprintf("application %s successfully deactivated", name), nil)
}

// AddUser creates a user and pushes the re-rendered credentials.
func (d *Dispatcher) AddUser(username, password, group string) Result {
	if res, ok := d.checkLeader("adding user"); !ok {
		return res
	}
	if err := d.mutateStore(func(store *credentials.Store) error {
		return store.AddUser(username, password, group)
	}); err != nil {
		return fail("adding user", err)
	}
	return succeed(fmt.Sprintf("user %s added to group %s", username, group), nil)
}

// DeleteUser removes a user and pushes the re-rendered credentials.
func (d *Dispatcher) DeleteUser(username string) Result {
	if res, ok := d.checkLeader("deleting user"); !ok {
		return res
	}
	if err := d.mutateStore(func(store *credentials.Store) error {
		return store.DeleteUser(username)
	}); err != nil {
		return fail("deleting user", err)
	}
	return succeed(fmt.Sprintf("user %s deleted", username), nil)
}

// AddGroup creates a group from a comma-separated role list and pushes
// the re-rendered credentials.
func (d *Dispatcher) AddGroup(groupname, roles string) Result {
	if res, ok := d.checkLeader("adding group"); !ok {
		return res
	}
	parsed, err := credentials.ParseRoles(roles)
	if err != nil {
		return fail("adding group", err)
	}
	if err := d.mutateStore(func(store *credentials.Store) error {
		return store.AddGroup(groupname, parsed)
	}); err != nil {
		return fail("adding group", err)
	}
	return succeed(fmt.Sprintf("group %s added with roles %s", groupname, strings.Join(parsed, ",")), nil)
}

// DeleteGroup removes a group and pushes the re-rendered credentials.
func (d *Dispatcher) DeleteGroup(groupname string) Result {
	if res, ok := d.checkLeader("deleting group"); !ok {
		return res
	}
	if err := d.mutateStore(func(store *credentials.Store) error {
		return store.DeleteGroup(groupname)
	}); err != nil {
		return fail("deleting group", err)
	}
	return succeed(fmt.Sprintf("group %s deleted", groupname), nil)
}

// StartService starts the onos service. Starting an already-active
// service is an error.
func (d *Dispatcher) StartService() Result {
	running, err := d.config.Supervisor.Running()
	if err != nil {
		return fail("starting onos", err)
	}
	if running {
		return fail("starting onos", ErrAlreadyRunning)
	}
	if err := d.config.Supervisor.Start(); err != nil {
		return fail("starting onos", err)
	}
	return succeed("service started", nil)
}

// StopService stops the onos service. Stopping an inactive service is an
// error.
func (d *Dispatcher) StopService() Result {
	running, err := d.config.Supervisor.Running()
	if err != nil {
		return fail("stopping onos", err)
	}
	if !running {
		return fail("stopping onos", ErrNotRunning)
	}
	if err := d.config.Supervisor.Stop(); err != nil {
		return fail("stopping onos", err)
	}
	return succeed("service stopped", nil)
}

// RestartService stops the onos service when it is running, then starts
// it.
func (d *Dispatcher) RestartService() Result {
	running, err := d.config.Supervisor.Running()
	if err != nil {
		return fail("restarting onos", err)
	}
	if running {
		if err := d.config.Supervisor.Stop(); err != nil {
			return fail("restarting onos", err)
		}
	}
	if err := d.config.Supervisor.Start(); err != nil {
		return fail("restarting onos", err)
	}
	return succeed("service restarted", nil)
}

// mutateStore applies one mutation to the credential store, persists the
// unit state and pushes the re-rendered credentials file.
func (d *Dispatcher) mutateStore(mutate func(*credentials.Store) error) error {
	store := d.config.Unit.Store()
	if err := mutate(store); err != nil {
		return errors.Trace(err)
	}
	d.config.Unit.SetStore(store)
	if err := d.save(); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(d.config.Reconciler.PushCredentials())
}

func (d *Dispatcher) save() error {
	return errors.Trace(d.config.Unit.Save(d.config.StatePath))
}

func (d *Dispatcher) checkLeader(action string) (Result, bool) {
	if d.config.IsLeader == nil {
		return Result{}, true
	}
	leader, err := d.config.IsLeader()
	if err != nil {
		return fail(action, err), false
	}
	if !leader {
		return fail(action, ErrNotLeader), false
	}
	return Result{}, true
}

func succeed(output string, details map[string]string) Result {
	return Result{Output: output, Details: details}
}

func fail(action string, err error) Result {
	logger.Errorf("failed %s: %v", action, err)
	return Result{Failed: true, Message: fmt.Sprintf("Failed %s: %v", action, err)}
}
