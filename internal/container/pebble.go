// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package container adapts the pebble API of the workload container to the
// narrow collaborator surfaces the operator needs: service supervision,
// file access and application-catalog discovery. All calls are
// synchronous; callers decide what a failure means.
package container

import (
	"bytes"
	"time"

	"github.com/canonical/pebble/client"
	"github.com/juju/errors"

	"github.com/charmed-osm/onos-operator/core/onos"
)

// startTimeout bounds how long a service start/stop change may take
// before it is reported as an error.
const startTimeout = 30 * time.Second

// FileInfo describes one entry of a container directory listing.
type FileInfo struct {
	Name string
	Dir  bool
}

// Pebble wraps a pebble client for the workload container.
type Pebble struct {
	client *client.Client
}

// NewPebble connects to the pebble daemon on the given unix socket.
func NewPebble(socketPath string) (*Pebble, error) {
	pc, err := client.New(&client.Config{Socket: socketPath})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Pebble{client: pc}, nil
}

// Ready probes the pebble daemon. It returns nil once the daemon answers.
func (p *Pebble) Ready() error {
	_, err := p.client.SysInfo()
	return errors.Trace(err)
}

// ListFiles lists the entries of a container directory, optionally
// filtered by a glob pattern.
func (p *Pebble) ListFiles(path, pattern string) ([]FileInfo, error) {
	infos, err := p.client.ListFiles(&client.ListFilesOptions{
		Path:    path,
		Pattern: pattern,
	})
	if err != nil {
		return nil, errors.Annotatef(err, "listing %q", path)
	}
	result := make([]FileInfo, len(infos))
	for i, info := range infos {
		result[i] = FileInfo{Name: info.Name(), Dir: info.IsDir()}
	}
	return result, nil
}

// ReadFile returns the contents of a container file.
func (p *Pebble) ReadFile(path string) ([]byte, error) {
	var buf bytes.Buffer
	err := p.client.Pull(&client.PullOptions{Path: path, Target: &buf})
	if err != nil {
		return nil, errors.Annotatef(err, "reading %q", path)
	}
	return buf.Bytes(), nil
}

// WriteFile writes a container file, creating parent directories.
func (p *Pebble) WriteFile(path string, data []byte) error {
	err := p.client.Push(&client.PushOptions{
		Source:   bytes.NewReader(data),
		Path:     path,
		MakeDirs: true,
	})
	return errors.Annotatef(err, "writing %q", path)
}

// AvailableApplications lists the installable applications shipped with
// the ONOS distribution.
func (p *Pebble) AvailableApplications() ([]string, error) {
	infos, err := p.ListFiles(onos.AppsFolder, "")
	if err != nil {
		return nil, errors.Trace(err)
	}
	apps := make([]string, len(infos))
	for i, info := range infos {
		apps[i] = info.Name
	}
	return apps, nil
}

// EnsureLayer adds or replaces the onos service layer.
func (p *Pebble) EnsureLayer(layerYAML []byte) error {
	err := p.client.AddLayer(&client.AddLayerOptions{
		Combine:   true,
		Label:     onos.ServiceName,
		LayerData: layerYAML,
	})
	return errors.Annotate(err, "adding service layer")
}

// Start starts the onos service and waits for the change to complete.
func (p *Pebble) Start() error {
	changeID, err := p.client.Start(&client.ServiceOptions{Names: []string{onos.ServiceName}})
	if err != nil {
		return errors.Annotate(err, "starting service")
	}
	return errors.Trace(p.waitChange(changeID))
}

// Stop stops the onos service and waits for the change to complete.
func (p *Pebble) Stop() error {
	changeID, err := p.client.Stop(&client.ServiceOptions{Names: []string{onos.ServiceName}})
	if err != nil {
		return errors.Annotate(err, "stopping service")
	}
	return errors.Trace(p.waitChange(changeID))
}

// Running reports whether the onos service is currently active.
func (p *Pebble) Running() (bool, error) {
	infos, err := p.client.Services(&client.ServicesOptions{Names: []string{onos.ServiceName}})
	if err != nil {
		return false, errors.Annotate(err, "querying service status")
	}
	for _, info := range infos {
		if info.Name == onos.ServiceName {
			return info.Current == client.StatusActive, nil
		}
	}
	return false, nil
}

func (p *Pebble) waitChange(changeID string) error {
	change, err := p.client.WaitChange(changeID, &client.WaitChangeOptions{
		Timeout: startTimeout,
	})
	if err != nil {
		return errors.Trace(err)
	}
	if change.Err != "" {
		return errors.New(change.Err)
	}
	return nil
}
