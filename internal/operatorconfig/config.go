// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package operatorconfig validates the operator's declarative
// configuration in a single pass and hands the rest of the code a typed
// Config. Downstream components never consult a raw attribute map.
package operatorconfig

import (
	"fmt"
	"os"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
	"github.com/juju/schema"
	"gopkg.in/juju/environschema.v1"
	"gopkg.in/yaml.v2"
)

// ErrConfigMissing is returned when a required configuration key is
// absent. Reconciliation defers until the operator is reconfigured.
const ErrConfigMissing = errors.ConstError("required configuration missing")

const (
	adminPasswordKey    = "admin-password"
	guestPasswordKey    = "guest-password"
	enableGuestKey      = "enable-guest"
	enableGUIKey        = "enable-gui"
	javaOptsKey         = "java-opts"
	externalHostnameKey = "external-hostname"
)

var configSchema = environschema.Fields{
	adminPasswordKey: {
		Description: "Password of the ONOS administrator user.",
		Type:        environschema.Tstring,
		Secret:      true,
	},
	guestPasswordKey: {
		Description: "Password of the guest user, required when enable-guest is set.",
		Type:        environschema.Tstring,
		Secret:      true,
	},
	enableGuestKey: {
		Description: "Whether to provision the read-only guest user.",
		Type:        environschema.Tbool,
	},
	enableGUIKey: {
		Description: "Whether the ONOS web GUI application should be active.",
		Type:        environschema.Tbool,
	},
	javaOptsKey: {
		Description: "Extra JVM options passed to the ONOS service.",
		Type:        environschema.Tstring,
	},
	externalHostnameKey: {
		Description: "External hostname declared on the ingress relation.",
		Type:        environschema.Tstring,
	},
}

var configDefaults = schema.Defaults{
	adminPasswordKey:    schema.Omit,
	guestPasswordKey:    schema.Omit,
	enableGuestKey:      false,
	enableGUIKey:        false,
	javaOptsKey:         "",
	externalHostnameKey: schema.Omit,
}

// Config is the validated operator configuration.
type Config struct {
	AdminPassword    string
	GuestPassword    string
	EnableGuest      bool
	EnableGUI        bool
	JavaOpts         string
	ExternalHostname string
}

// Coerce validates a raw attribute map against the config schema and the
// conditional-requirement rules, returning the typed configuration.
func Coerce(attrs map[string]interface{}) (*Config, error) {
	known := set.NewStrings()
	for name := range configSchema {
		known.Add(name)
	}
	for name, value := range attrs {
		if !known.Contains(name) {
			return nil, errors.Errorf("unknown key %q (value %q)", name, value)
		}
	}

	fields, defaults, err := configSchema.ValidationSchema()
	if err != nil {
		return nil, errors.Trace(err)
	}
	for name, value := range configDefaults {
		defaults[name] = value
	}
	coerced, err := schema.FieldMap(fields, defaults).Coerce(attrs, nil)
	if err != nil {
		return nil, errors.Trace(err)
	}
	valid := coerced.(map[string]interface{})

	cfg := &Config{
		AdminPassword:    stringAttr(valid, adminPasswordKey),
		GuestPassword:    stringAttr(valid, guestPasswordKey),
		EnableGuest:      boolAttr(valid, enableGuestKey),
		EnableGUI:        boolAttr(valid, enableGUIKey),
		JavaOpts:         stringAttr(valid, javaOptsKey),
		ExternalHostname: stringAttr(valid, externalHostnameKey),
	}
	if cfg.AdminPassword == "" {
		return nil, fmt.Errorf("%s not set%w", adminPasswordKey, errors.Hide(ErrConfigMissing))
	}
	if cfg.EnableGuest && cfg.GuestPassword == "" {
		return nil, fmt.Errorf("%s not set%w", guestPasswordKey, errors.Hide(ErrConfigMissing))
	}
	return cfg, nil
}

// Read loads and validates the configuration from a flat YAML file.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Annotatef(err, "reading config %q", path)
	}
	attrs := map[string]interface{}{}
	if err := yaml.Unmarshal(data, &attrs); err != nil {
		return nil, errors.Annotatef(err, "parsing config %q", path)
	}
	cfg, err := Coerce(attrs)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return cfg, nil
}

func stringAttr(attrs map[string]interface{}, key string) string {
	v, _ := attrs[key].(string)
	return v
}

func boolAttr(attrs map[string]interface{}, key string) bool {
	v, _ := attrs[key].(bool)
	return v
}
