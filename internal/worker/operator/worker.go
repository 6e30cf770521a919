// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package operator runs the unit's lifecycle loop: it waits for the
// workload's pebble daemon, runs the first configuration pass, brings the
// onos service up, and then reconciles again on every configuration
// change. Administrative commands run out of process and share the same
// state through the unit lock.
package operator

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/juju/clock"
	"github.com/juju/errors"
	"github.com/juju/loggo"
	"github.com/juju/retry"
	"github.com/juju/worker/v4"
	"github.com/juju/worker/v4/catacomb"

	"github.com/charmed-osm/onos-operator/internal/container"
	"github.com/charmed-osm/onos-operator/internal/operatorconfig"
	"github.com/charmed-osm/onos-operator/internal/reconciler"
	"github.com/charmed-osm/onos-operator/internal/state"
)

var logger = loggo.GetLogger("onos.worker.operator")

// readyProbeDelay is the interval between pebble readiness probes.
const readyProbeDelay = 3 * time.Second

// Supervisor is the service-control surface of the workload container.
type Supervisor interface {
	Ready() error
	EnsureLayer(layerYAML []byte) error
	Start() error
	Stop() error
	Running() (bool, error)
}

// Tracker supplies the comma-joined active set for the service layer.
type Tracker interface {
	ActiveJoined() string
}

// Guard serializes unit events across processes.
type Guard interface {
	Acquire(cancel <-chan struct{}) (func(), error)
}

// WorkerConfig contains the information necessary to run the operator
// worker.
type WorkerConfig struct {
	// Unit is the persisted unit state.
	Unit *state.Unit

	// StatePath is where unit state is saved after each pass.
	StatePath string

	// ConfigPath is the operator configuration file, watched for changes.
	ConfigPath string

	Reconciler *reconciler.Reconciler
	Tracker    Tracker
	Supervisor Supervisor
	Guard      Guard
	Clock      clock.Clock
}

// Validate ensures that the required values are set in the structure.
func (c WorkerConfig) Validate() error {
	if c.Unit == nil {
		return errors.NotValidf("nil Unit")
	}
	if c.StatePath == "" {
		return errors.NotValidf("empty StatePath")
	}
	if c.ConfigPath == "" {
		return errors.NotValidf("empty ConfigPath")
	}
	if c.Reconciler == nil {
		return errors.NotValidf("nil Reconciler")
	}
	if c.Tracker == nil {
		return errors.NotValidf("nil Tracker")
	}
	if c.Supervisor == nil {
		return errors.NotValidf("nil Supervisor")
	}
	if c.Guard == nil {
		return errors.NotValidf("nil Guard")
	}
	if c.Clock == nil {
		return errors.NotValidf("nil Clock")
	}
	return nil
}

type operatorWorker struct {
	catacomb catacomb.Catacomb
	config   WorkerConfig
}

// NewWorker creates a new operator lifecycle worker.
func NewWorker(config WorkerConfig) (worker.Worker, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	w := &operatorWorker{config: config}
	if err := catacomb.Invoke(catacomb.Plan{
		Site: &w.catacomb,
		Work: w.loop,
	}); err != nil {
		return nil, errors.Trace(err)
	}
	return w, nil
}

// Kill implements Worker.Kill().
func (w *operatorWorker) Kill() {
	w.catacomb.Kill(nil)
}

// Wait implements Worker.Wait().
func (w *operatorWorker) Wait() error {
	return w.catacomb.Wait()
}

func (w *operatorWorker) loop() error {
	if err := w.waitPebbleReady(); err != nil {
		return errors.Trace(err)
	}
	if err := w.runLocked(w.pebbleReadyPass); err != nil {
		return errors.Trace(err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Trace(err)
	}
	defer watcher.Close()
	// Watch the directory rather than the file: config updates are
	// typically atomic renames, which replace the watched inode.
	if err := watcher.Add(filepath.Dir(w.config.ConfigPath)); err != nil {
		return errors.Trace(err)
	}

	configName := filepath.Base(w.config.ConfigPath)
	for {
		select {
		case <-w.catacomb.Dying():
			return w.catacomb.ErrDying()
		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("config watcher closed")
			}
			if filepath.Base(event.Name) != configName {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debugf("config change detected: %v", event)
			// A pebble-ready pass blocked on missing config is retried
			// here: the service is not started until it succeeds.
			pass := w.configChangedPass
			if !w.config.Unit.Started {
				pass = w.pebbleReadyPass
			}
			if err := w.runLocked(pass); err != nil {
				return errors.Trace(err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("config watcher closed")
			}
			return errors.Annotate(err, "watching config")
		}
	}
}

// waitPebbleReady probes the workload's pebble daemon until it answers.
func (w *operatorWorker) waitPebbleReady() error {
	return retry.Call(retry.CallArgs{
		Clock:    w.config.Clock,
		Delay:    readyProbeDelay,
		Attempts: retry.UnlimitedAttempts,
		Stop:     w.catacomb.Dying(),
		Func:     w.config.Supervisor.Ready,
		NotifyFunc: func(err error, attempt int) {
			logger.Debugf("waiting for pebble (attempt %d): %v", attempt, err)
		},
	})
}

// runLocked runs one event pass under the unit lock and persists the
// unit state afterwards.
func (w *operatorWorker) runLocked(pass func() error) error {
	release, err := w.config.Guard.Acquire(w.catacomb.Dying())
	if err != nil {
		return errors.Trace(err)
	}
	defer release()

	if err := pass(); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(w.config.Unit.Save(w.config.StatePath))
}

// pebbleReadyPass is the first pass after the workload container comes
// up: configure, install the service layer and start the service.
func (w *operatorWorker) pebbleReadyPass() error {
	w.config.Unit.Ready = true
	cfg, err := w.readConfig()
	if err != nil || cfg == nil {
		return errors.Trace(err)
	}
	if err := w.config.Reconciler.Reconcile(cfg); err != nil {
		return errors.Trace(err)
	}
	layer, err := container.OnosLayer(cfg.JavaOpts, w.config.Tracker.ActiveJoined())
	if err != nil {
		return errors.Trace(err)
	}
	if err := w.config.Supervisor.EnsureLayer(layer); err != nil {
		return errors.Trace(err)
	}
	if err := w.restartService(); err != nil {
		return errors.Trace(err)
	}
	w.config.Unit.Started = true
	logger.Infof("onos service started")
	return nil
}

// configChangedPass reconciles the unit against a changed configuration.
func (w *operatorWorker) configChangedPass() error {
	cfg, err := w.readConfig()
	if err != nil || cfg == nil {
		return errors.Trace(err)
	}
	return errors.Trace(w.config.Reconciler.Reconcile(cfg))
}

// readConfig loads and validates the configuration. A missing required
// key blocks the unit rather than killing the worker: the pass is
// skipped and re-run when the configuration next changes.
func (w *operatorWorker) readConfig() (*operatorconfig.Config, error) {
	cfg, err := operatorconfig.Read(w.config.ConfigPath)
	if errors.Is(err, operatorconfig.ErrConfigMissing) {
		logger.Warningf("blocked: config missing: %v", err)
		return nil, nil
	}
	if err != nil {
		return nil, errors.Trace(err)
	}
	return cfg, nil
}

func (w *operatorWorker) restartService() error {
	running, err := w.config.Supervisor.Running()
	if err != nil {
		return errors.Trace(err)
	}
	if running {
		if err := w.config.Supervisor.Stop(); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(w.config.Supervisor.Start())
}
