// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package credentials

import (
	"bytes"
	"fmt"
	"strings"
)

// Render serializes the store into users.properties syntax:
//
//	username = password,_g_:groupname
//	_g_\:groupname = role1,role2
//
// Users come first, then groups, each in insertion order. Output is
// deterministic for identical store contents. No escaping is applied
// beyond the literal group-key prefix; that is a constraint of the Karaf
// property-file consumer, not a security boundary.
func (s *Store) Render() string {
	var buf bytes.Buffer
	for _, u := range s.users {
		fmt.Fprintf(&buf, "%s = %s,_g_:%s\n", u.Name, u.Password, u.Group)
	}
	buf.WriteString("\n")
	for _, g := range s.groups {
		fmt.Fprintf(&buf, `_g_\:%s = %s`+"\n", g.Name, strings.Join(g.Roles, ","))
	}
	return buf.String()
}
