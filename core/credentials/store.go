// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package credentials maintains the users and groups provisioned into the
// managed Karaf runtime, and renders them into the users.properties syntax
// it consumes. Two users (admin, guest) and their groups are system-managed
// and cannot be mutated through the public operations.
package credentials

import (
	"fmt"

	"github.com/juju/errors"
)

const (
	// AdminUser is the system-managed administrator username.
	AdminUser = "admin"
	// AdminGroup is the group holding every catalog role.
	AdminGroup = "admingroup"
	// GuestUser is the optional system-managed guest username.
	GuestUser = "guest"
	// GuestGroup is the group holding the read-only role set.
	GuestGroup = "guestgroup"
)

// guestRoles is the role set granted to the guest group.
var guestRoles = []string{"group", "viewer"}

// User is a single Karaf login, referencing its group by name.
type User struct {
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
	Group    string `yaml:"group"`
}

// Group is a named set of catalog roles. Role order is preserved as
// supplied and duplicates are not collapsed.
type Group struct {
	Name  string   `yaml:"name"`
	Roles []string `yaml:"roles"`
}

// Store holds users and groups in insertion order. Rendering iterates in
// that order, so diffs of the pushed file stay stable across passes as
// long as the store is restored in the same order it was snapshotted.
type Store struct {
	users  []User
	groups []Group
}

// NewStore returns an empty store. Reserved identities are not present
// until SeedReserved is called with the configured passwords.
func NewStore() *Store {
	return &Store{}
}

// Restore rebuilds a store from a snapshot, preserving order.
func Restore(users []User, groups []Group) *Store {
	return &Store{
		users:  append([]User(nil), users...),
		groups: append([]Group(nil), groups...),
	}
}

// Users returns the users in insertion order.
func (s *Store) Users() []User {
	return append([]User(nil), s.users...)
}

// Groups returns the groups in insertion order.
func (s *Store) Groups() []Group {
	return append([]Group(nil), s.groups...)
}

// HasUser reports whether the named user exists.
func (s *Store) HasUser(name string) bool {
	for _, u := range s.users {
		if u.Name == name {
			return true
		}
	}
	return false
}

// HasGroup reports whether the named group exists.
func (s *Store) HasGroup(name string) bool {
	for _, g := range s.groups {
		if g.Name == name {
			return true
		}
	}
	return false
}

// SeedReserved materializes the system-managed identities. The admin user
// and group are always present; the guest user and group only when guest
// access is enabled. Identities that already exist are left untouched, so
// the operation is safe to repeat on every reconciliation pass.
func (s *Store) SeedReserved(adminPassword, guestPassword string, guestEnabled bool) {
	if !s.HasGroup(AdminGroup) {
		s.groups = append(s.groups, Group{Name: AdminGroup, Roles: append([]string(nil), AllRoles...)})
	}
	if !s.HasUser(AdminUser) {
		s.users = append(s.users, User{Name: AdminUser, Password: adminPassword, Group: AdminGroup})
	}
	if !guestEnabled {
		return
	}
	if !s.HasGroup(GuestGroup) {
		s.groups = append(s.groups, Group{Name: GuestGroup, Roles: append([]string(nil), guestRoles...)})
	}
	if !s.HasUser(GuestUser) {
		s.users = append(s.users, User{Name: GuestUser, Password: guestPassword, Group: GuestGroup})
	}
}

// AddUser stores a new user referencing an existing group.
func (s *Store) AddUser(name, password, group string) error {
	if !s.HasGroup(group) {
		return fmt.Errorf("group %q does not exist%w", group, errors.Hide(ErrUnknownGroup))
	}
	if s.HasUser(name) {
		return fmt.Errorf("user %q already exists%w", name, errors.Hide(ErrDuplicateUser))
	}
	if name == AdminUser || name == GuestUser {
		return fmt.Errorf("username %q is reserved%w", name, errors.Hide(ErrReservedName))
	}
	s.users = append(s.users, User{Name: name, Password: password, Group: group})
	return nil
}

// DeleteUser removes a user. Reserved users cannot be removed.
func (s *Store) DeleteUser(name string) error {
	if name == AdminUser || name == GuestUser {
		return fmt.Errorf("user %q is reserved%w", name, errors.Hide(ErrReservedName))
	}
	for i, u := range s.users {
		if u.Name == name {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("user %q does not exist%w", name, errors.Hide(ErrUnknownUser))
}

// AddGroup stores a new group after validating every role against the
// catalog. All unknown roles are reported, not just the first.
func (s *Store) AddGroup(name string, roles []string) error {
	if name == AdminGroup || name == GuestGroup {
		return fmt.Errorf("group name %q is reserved%w", name, errors.Hide(ErrReservedName))
	}
	if err := validateRoles(roles); err != nil {
		return errors.Trace(err)
	}
	// Re-adding an existing group replaces its role list in place,
	// keeping the group's position in the rendered file stable.
	for i, g := range s.groups {
		if g.Name == name {
			s.groups[i].Roles = append([]string(nil), roles...)
			return nil
		}
	}
	s.groups = append(s.groups, Group{Name: name, Roles: append([]string(nil), roles...)})
	return nil
}

// DeleteGroup removes a group. The group must not be referenced by any
// remaining user and must not be one of the reserved groups.
func (s *Store) DeleteGroup(name string) error {
	if name == AdminGroup || name == GuestGroup {
		return fmt.Errorf("group name %q is reserved%w", name, errors.Hide(ErrReservedName))
	}
	for _, u := range s.users {
		if u.Group == name {
			return fmt.Errorf("group %q is still referenced by user %q%w",
				name, u.Name, errors.Hide(ErrGroupInUse))
		}
	}
	for i, g := range s.groups {
		if g.Name == name {
			s.groups = append(s.groups[:i], s.groups[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("group %q does not exist%w", name, errors.Hide(ErrUnknownGroup))
}
