// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package ingress forwards the declared external hostname to the ingress
// integration. The operator holds no ingress state of its own; the
// declaration is a pure pass-through of configuration.
package ingress

import (
	"github.com/juju/errors"
	"github.com/juju/utils/v4"
	"gopkg.in/yaml.v2"
)

// Declaration is the data forwarded on the ingress relation.
type Declaration struct {
	ServiceHostname string `yaml:"service-hostname"`
	ServiceName     string `yaml:"service-name"`
	ServicePort     int    `yaml:"service-port"`
}

// FileRelation writes declarations to the relation-data file consumed by
// the ingress integrator.
type FileRelation struct {
	path string
}

// NewFileRelation returns a relation writing to the given path.
func NewFileRelation(path string) *FileRelation {
	return &FileRelation{path: path}
}

// Declare publishes the declaration.
func (r *FileRelation) Declare(decl Declaration) error {
	data, err := yaml.Marshal(decl)
	if err != nil {
		return errors.Trace(err)
	}
	if err := utils.AtomicWriteFile(r.path, data, 0600); err != nil {
		return errors.Annotatef(err, "writing ingress declaration %q", r.path)
	}
	return nil
}
