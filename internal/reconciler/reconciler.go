// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package reconciler converges the live ONOS workload with the declared
// configuration. A pass validates the configuration, converges GUI
// activation, seeds and pushes credentials, forwards the ingress
// declaration and ensures the async-logging augmentation. Every step is
// idempotent: a pass may be re-run at any time with unchanged desired
// state and will not repeat work already done.
package reconciler

import (
	"strings"

	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/charmed-osm/onos-operator/core/onos"
	"github.com/charmed-osm/onos-operator/internal/apptracker"
	"github.com/charmed-osm/onos-operator/internal/container"
	"github.com/charmed-osm/onos-operator/internal/ingress"
	"github.com/charmed-osm/onos-operator/internal/operatorconfig"
	"github.com/charmed-osm/onos-operator/internal/state"
)

var logger = loggo.GetLogger("onos.reconciler")

// AsyncLogging is appended to the pax-logging configuration so Karaf logs
// through an async appender. The content guard keeps the append from
// repeating on later passes.
const AsyncLogging = `
log4j.appender.async=org.apache.log4j.AsyncAppender
log4j.appender.async.appenders=rolling
`

// Filesystem is the file surface of the workload container.
type Filesystem interface {
	ListFiles(path, pattern string) ([]container.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
}

// Ingress receives the external-hostname declaration.
type Ingress interface {
	Declare(ingress.Declaration) error
}

// Config holds the reconciler's collaborators.
type Config struct {
	// Unit is the persisted unit state, shared with the dispatcher.
	Unit *state.Unit

	// Tracker converges application activation.
	Tracker *apptracker.Tracker

	// Filesystem reads and writes files inside the workload container.
	Filesystem Filesystem

	// Ingress receives hostname declarations. May be nil when the unit
	// has no ingress integration.
	Ingress Ingress

	// ServiceName is the name declared on the ingress relation.
	ServiceName string
}

// Validate ensures that the required collaborators are set.
func (c Config) Validate() error {
	if c.Unit == nil {
		return errors.NotValidf("nil Unit")
	}
	if c.Tracker == nil {
		return errors.NotValidf("nil Tracker")
	}
	if c.Filesystem == nil {
		return errors.NotValidf("nil Filesystem")
	}
	return nil
}

// Reconciler runs convergence passes over the unit.
type Reconciler struct {
	config Config
}

// New returns a reconciler for the given collaborators.
func New(config Config) (*Reconciler, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Reconciler{config: config}, nil
}

// Reconcile runs one convergence pass with an already-validated
// configuration. Callers obtain cfg from operatorconfig; a validation
// failure there aborts the pass before any state changes.
func (r *Reconciler) Reconcile(cfg *operatorconfig.Config) error {
	if err := r.convergeGUI(cfg); err != nil {
		return errors.Trace(err)
	}
	if err := r.convergeCredentials(cfg); err != nil {
		return errors.Trace(err)
	}
	if err := r.declareIngress(cfg); err != nil {
		return errors.Trace(err)
	}
	if err := r.ensureAsyncLogging(); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// convergeGUI activates or deactivates the GUI application only when the
// declared flag and the active set disagree.
func (r *Reconciler) convergeGUI(cfg *operatorconfig.Config) error {
	active := r.config.Tracker.IsActive(onos.GUIApp)
	switch {
	case cfg.EnableGUI && !active:
		return errors.Trace(r.config.Tracker.Activate(onos.GUIApp))
	case !cfg.EnableGUI && active:
		return errors.Trace(r.config.Tracker.Deactivate(onos.GUIApp))
	}
	return nil
}

// convergeCredentials seeds the reserved identities and pushes the
// rendered credentials file. Seeding always happens; the push is skipped
// silently until the workload is ready and the Karaf directory can be
// discovered.
func (r *Reconciler) convergeCredentials(cfg *operatorconfig.Config) error {
	store := r.config.Unit.Store()
	store.SeedReserved(cfg.AdminPassword, cfg.GuestPassword, cfg.EnableGuest)
	r.config.Unit.SetStore(store)
	return errors.Trace(r.PushCredentials())
}

// PushCredentials renders the credential store into users.properties and
// writes it into the container. Not an error when the workload is not
// ready yet; the next pass will push.
func (r *Reconciler) PushCredentials() error {
	if !r.config.Unit.Ready {
		return nil
	}
	karafFolder, err := r.karafFolder()
	if err != nil {
		return errors.Trace(err)
	}
	if karafFolder == "" {
		logger.Debugf("karaf folder not discoverable yet, skipping credentials push")
		return nil
	}
	rendered := r.config.Unit.Store().Render()
	path := onos.UsersPropertiesPath(karafFolder)
	if err := r.config.Filesystem.WriteFile(path, []byte(rendered)); err != nil {
		return errors.Trace(err)
	}
	logger.Debugf("pushed credentials to %q", path)
	return nil
}

// declareIngress forwards the external hostname, when one is declared.
func (r *Reconciler) declareIngress(cfg *operatorconfig.Config) error {
	if r.config.Ingress == nil || cfg.ExternalHostname == "" {
		return nil
	}
	return errors.Trace(r.config.Ingress.Declare(ingress.Declaration{
		ServiceHostname: cfg.ExternalHostname,
		ServiceName:     r.config.ServiceName,
		ServicePort:     onos.WebPort,
	}))
}

// ensureAsyncLogging appends the async-appender snippet to the logging
// configuration exactly once, guarded by content inspection.
func (r *Reconciler) ensureAsyncLogging() error {
	if !r.config.Unit.Ready {
		return nil
	}
	karafFolder, err := r.karafFolder()
	if err != nil {
		return errors.Trace(err)
	}
	if karafFolder == "" {
		return nil
	}
	path := onos.LoggingConfigPath(karafFolder)
	content, err := r.config.Filesystem.ReadFile(path)
	if err != nil {
		return errors.Trace(err)
	}
	if strings.Contains(string(content), AsyncLogging) {
		return nil
	}
	augmented := append(content, []byte(AsyncLogging)...)
	if err := r.config.Filesystem.WriteFile(path, augmented); err != nil {
		return errors.Trace(err)
	}
	logger.Infof("enabled async logging in %q", path)
	return nil
}

// karafFolder discovers the versioned Apache Karaf directory under the
// ONOS root. An empty result means the workload has not unpacked it yet.
func (r *Reconciler) karafFolder() (string, error) {
	infos, err := r.config.Filesystem.ListFiles(onos.RootFolder, onos.KarafFolderPattern)
	if err != nil {
		return "", errors.Trace(err)
	}
	for _, info := range infos {
		if info.Dir {
			return info.Name, nil
		}
	}
	return "", nil
}
