// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package container

import (
	"github.com/juju/errors"
	"gopkg.in/yaml.v2"

	"github.com/charmed-osm/onos-operator/core/onos"
)

// Layer is a pebble configuration layer.
type Layer struct {
	Summary     string             `yaml:"summary"`
	Description string             `yaml:"description"`
	Services    map[string]Service `yaml:"services"`
}

// Service is one pebble service entry.
type Service struct {
	Override    string            `yaml:"override"`
	Summary     string            `yaml:"summary"`
	Command     string            `yaml:"command"`
	Startup     string            `yaml:"startup"`
	Environment map[string]string `yaml:"environment,omitempty"`
}

// OnosLayer builds the pebble layer for the ONOS service. onosApps is the
// comma-joined active application set exported as ONOS_APPS, which the
// ONOS startup scripts activate before the REST API is reachable.
func OnosLayer(javaOpts, onosApps string) ([]byte, error) {
	layer := Layer{
		Summary:     "onos layer",
		Description: "pebble config layer for onos",
		Services: map[string]Service{
			onos.ServiceName: {
				Override: "replace",
				Summary:  "onos service",
				Command:  "./bin/onos-service",
				Startup:  "enabled",
				Environment: map[string]string{
					"PATH":      "/usr/local/sbin:/usr/local/bin:/usr/sbin:/usr/bin:/sbin:/bin",
					"LANG":      "en_US.UTF-8",
					"LANGUAGE":  "en_US:en",
					"LC_ALL":    "en_US.UTF-8",
					"JAVA_HOME": "/usr/lib/jvm/zulu11-ca-amd64",
					"JAVA_OPTS": javaOpts,
					"ONOS_APPS": onosApps,
				},
			},
		},
	}
	data, err := yaml.Marshal(layer)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return data, nil
}
