// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package credentials_test

import (
	"strings"

	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/charmed-osm/onos-operator/core/credentials"
)

type RenderSuite struct{}

var _ = gc.Suite(&RenderSuite{})

func (s *RenderSuite) TestRender(c *gc.C) {
	store := credentials.NewStore()
	c.Assert(store.AddGroup("g1", []string{"viewer"}), jc.ErrorIsNil)
	c.Assert(store.AddUser("alice", "p", "g1"), jc.ErrorIsNil)

	rendered := store.Render()
	c.Assert(strings.Contains(rendered, "alice = p,_g_:g1\n"), jc.IsTrue)
	c.Assert(strings.Contains(rendered, `_g_\:g1 = viewer`+"\n"), jc.IsTrue)
}

func (s *RenderSuite) TestRenderFull(c *gc.C) {
	store := credentials.NewStore()
	store.SeedReserved("secret", "guestsecret", true)

	c.Assert(store.Render(), gc.Equals, `admin = secret,_g_:admingroup
guest = guestsecret,_g_:guestgroup

_g_\:admingroup = group,admin,manager,viewer,systembundles,ssh,webconsole
_g_\:guestgroup = group,viewer
`)
}

func (s *RenderSuite) TestRenderDeterministic(c *gc.C) {
	store := credentials.NewStore()
	store.SeedReserved("secret", "", false)
	c.Assert(store.AddGroup("qa", []string{"ssh", "viewer"}), jc.ErrorIsNil)
	c.Assert(store.AddUser("bob", "pw", "qa"), jc.ErrorIsNil)

	first := store.Render()
	c.Assert(store.Render(), gc.Equals, first)
}

func (s *RenderSuite) TestRenderRoleOrderPreserved(c *gc.C) {
	store := credentials.NewStore()
	c.Assert(store.AddGroup("qa", []string{"ssh", "viewer", "ssh"}), jc.ErrorIsNil)
	c.Assert(strings.Contains(store.Render(), `_g_\:qa = ssh,viewer,ssh`), jc.IsTrue)
}
