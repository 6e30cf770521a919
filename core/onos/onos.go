// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package onos holds the identifiers and well-known paths of the managed
// ONOS distribution. Nothing here talks to the workload; these values are
// shared by the components that do.
package onos

import "path"

const (
	// ServiceName is the name of the pebble service running ONOS.
	ServiceName = "onos"

	// WebPort is the port the ONOS web UI and REST API listen on.
	WebPort = 8181

	// RootFolder is where the ONOS distribution is unpacked inside the
	// workload container.
	RootFolder = "/root/onos"

	// AppsFolder contains one entry per installable application.
	AppsFolder = RootFolder + "/apps"

	// KarafFolderPattern matches the embedded Apache Karaf runtime
	// directory under RootFolder. The directory name carries the Karaf
	// version, so it has to be discovered rather than hard-coded.
	KarafFolderPattern = "apache-karaf-*"
)

const (
	// SystemApp is the driver bundle ONOS cannot usefully run without.
	// It is activated from first start and never deactivated.
	SystemApp = "org.onosproject.drivers"

	// GUIApp is the web GUI bundle, toggled by the enable-gui config flag.
	GUIApp = "org.onosproject.gui2"
)

// UsersPropertiesPath returns the path of the Karaf users.properties file
// given the discovered Karaf directory name.
func UsersPropertiesPath(karafFolder string) string {
	return path.Join(RootFolder, karafFolder, "etc", "users.properties")
}

// LoggingConfigPath returns the path of the pax-logging configuration file
// given the discovered Karaf directory name.
func LoggingConfigPath(karafFolder string) string {
	return path.Join(RootFolder, karafFolder, "etc", "org.ops4j.pax.logging.cfg")
}
