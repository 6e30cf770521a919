// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package credentials_test

import (
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/charmed-osm/onos-operator/core/credentials"
)

type RolesSuite struct{}

var _ = gc.Suite(&RolesSuite{})

func (s *RolesSuite) TestParseRoles(c *gc.C) {
	roles, err := credentials.ParseRoles("viewer,admin")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(roles, jc.DeepEquals, []string{"viewer", "admin"})
}

func (s *RolesSuite) TestParseSingleRole(c *gc.C) {
	roles, err := credentials.ParseRoles("ssh")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(roles, jc.DeepEquals, []string{"ssh"})
}

func (s *RolesSuite) TestParseRolesEmpty(c *gc.C) {
	_, err := credentials.ParseRoles("")
	c.Assert(err, jc.ErrorIs, credentials.ErrInvalidInput)
}

func (s *RolesSuite) TestParseRolesNotAlphanumeric(c *gc.C) {
	_, err := credentials.ParseRoles("vi ewer")
	c.Assert(err, jc.ErrorIs, credentials.ErrInvalidRole)
	c.Assert(err, gc.ErrorMatches, `role "vi ewer" is not alphanumeric`)

	_, err = credentials.ParseRoles("viewer,")
	c.Assert(err, jc.ErrorIs, credentials.ErrInvalidRole)
}

func (s *RolesSuite) TestParseRolesCatalogNotConsulted(c *gc.C) {
	// Parsing is syntactic only; catalog membership is checked when the
	// group is created.
	roles, err := credentials.ParseRoles("bogus")
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(roles, jc.DeepEquals, []string{"bogus"})
}

func (s *RolesSuite) TestCatalog(c *gc.C) {
	c.Assert(credentials.AllRoles, jc.DeepEquals, []string{
		"group", "admin", "manager", "viewer", "systembundles", "ssh", "webconsole",
	})
}
