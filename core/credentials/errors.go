// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package credentials

import "github.com/juju/errors"

const (
	// ErrDuplicateUser is returned when adding a user whose name is taken.
	ErrDuplicateUser = errors.ConstError("user already exists")

	// ErrUnknownUser is returned when the named user does not exist.
	ErrUnknownUser = errors.ConstError("user not found")

	// ErrUnknownGroup is returned when the named group does not exist.
	ErrUnknownGroup = errors.ConstError("group not found")

	// ErrReservedName is returned when mutating a system-managed user or
	// group.
	ErrReservedName = errors.ConstError("name is reserved")

	// ErrInvalidRole is returned when a role is syntactically invalid or
	// not part of the role catalog.
	ErrInvalidRole = errors.ConstError("invalid role")

	// ErrInvalidInput is returned for malformed input, such as an empty
	// role list.
	ErrInvalidInput = errors.ConstError("invalid input")

	// ErrGroupInUse is returned when deleting a group that users still
	// reference.
	ErrGroupInUse = errors.ConstError("group is in use")
)
