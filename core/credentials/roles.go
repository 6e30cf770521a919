// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package credentials

import (
	"fmt"
	"strings"

	"github.com/juju/collections/set"
	"github.com/juju/errors"
)

// AllRoles is the closed catalog of Karaf authorization roles. Groups may
// only carry roles drawn from this list.
var AllRoles = []string{
	"group",
	"admin",
	"manager",
	"viewer",
	"systembundles",
	"ssh",
	"webconsole",
}

var roleCatalog = set.NewStrings(AllRoles...)

// ParseRoles splits a comma-separated role list into its tokens. Each
// token must be alphanumeric; this is a purely syntactic check, catalog
// membership is validated separately when the group is created.
func ParseRoles(input string) ([]string, error) {
	if input == "" {
		return nil, fmt.Errorf("roles must be a non-empty string%w", errors.Hide(ErrInvalidInput))
	}
	roles := strings.Split(input, ",")
	for _, role := range roles {
		if !isAlphanumeric(role) {
			return nil, fmt.Errorf("role %q is not alphanumeric%w", role, errors.Hide(ErrInvalidRole))
		}
	}
	return roles, nil
}

// validateRoles checks every role against the catalog, reporting all
// unknown roles rather than just the first.
func validateRoles(roles []string) error {
	var unknown []string
	for _, role := range roles {
		if !roleCatalog.Contains(role) {
			unknown = append(unknown, role)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("role(s) %s do not exist%w",
			strings.Join(unknown, ", "), errors.Hide(ErrInvalidRole))
	}
	return nil
}

func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		alpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !alpha {
			return false
		}
	}
	return true
}
