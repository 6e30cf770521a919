// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package credentials_test

import (
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/charmed-osm/onos-operator/core/credentials"
)

type StoreSuite struct{}

var _ = gc.Suite(&StoreSuite{})

func seededStore() *credentials.Store {
	store := credentials.NewStore()
	store.SeedReserved("adminpass", "guestpass", true)
	return store
}

func (s *StoreSuite) TestSeedReserved(c *gc.C) {
	store := seededStore()
	c.Assert(store.HasUser(credentials.AdminUser), jc.IsTrue)
	c.Assert(store.HasUser(credentials.GuestUser), jc.IsTrue)
	c.Assert(store.HasGroup(credentials.AdminGroup), jc.IsTrue)
	c.Assert(store.HasGroup(credentials.GuestGroup), jc.IsTrue)

	groups := store.Groups()
	c.Assert(groups, gc.HasLen, 2)
	c.Assert(groups[0].Roles, jc.DeepEquals, credentials.AllRoles)
	c.Assert(groups[1].Roles, jc.DeepEquals, []string{"group", "viewer"})
}

func (s *StoreSuite) TestSeedReservedGuestDisabled(c *gc.C) {
	store := credentials.NewStore()
	store.SeedReserved("adminpass", "", false)
	c.Assert(store.HasUser(credentials.AdminUser), jc.IsTrue)
	c.Assert(store.HasUser(credentials.GuestUser), jc.IsFalse)
	c.Assert(store.HasGroup(credentials.GuestGroup), jc.IsFalse)
}

func (s *StoreSuite) TestSeedReservedIdempotent(c *gc.C) {
	store := seededStore()
	store.SeedReserved("otherpass", "otherpass", true)
	users := store.Users()
	c.Assert(users, gc.HasLen, 2)
	c.Assert(users[0].Password, gc.Equals, "adminpass")
	c.Assert(store.Groups(), gc.HasLen, 2)
}

func (s *StoreSuite) TestSeedGuestLater(c *gc.C) {
	store := credentials.NewStore()
	store.SeedReserved("adminpass", "", false)
	c.Assert(store.HasUser(credentials.GuestUser), jc.IsFalse)

	store.SeedReserved("adminpass", "guestpass", true)
	c.Assert(store.HasUser(credentials.GuestUser), jc.IsTrue)
	c.Assert(store.HasGroup(credentials.GuestGroup), jc.IsTrue)
	// Admin entries are untouched by the second pass.
	c.Assert(store.Users()[0].Password, gc.Equals, "adminpass")
	c.Assert(store.Users(), gc.HasLen, 2)
}

func (s *StoreSuite) TestAddUser(c *gc.C) {
	store := seededStore()
	err := store.AddUser("alice", "secret", credentials.GuestGroup)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(store.HasUser("alice"), jc.IsTrue)
}

func (s *StoreSuite) TestAddUserUnknownGroup(c *gc.C) {
	store := seededStore()
	err := store.AddUser("alice", "secret", "nogroup")
	c.Assert(err, jc.ErrorIs, credentials.ErrUnknownGroup)
	c.Assert(err, gc.ErrorMatches, `group "nogroup" does not exist`)
	c.Assert(store.HasUser("alice"), jc.IsFalse)
}

func (s *StoreSuite) TestAddUserDuplicate(c *gc.C) {
	store := seededStore()
	err := store.AddUser("alice", "secret", credentials.GuestGroup)
	c.Assert(err, jc.ErrorIsNil)
	err = store.AddUser("alice", "other", credentials.GuestGroup)
	c.Assert(err, jc.ErrorIs, credentials.ErrDuplicateUser)
}

func (s *StoreSuite) TestAddUserReserved(c *gc.C) {
	store := seededStore()
	// The seeded admin already exists, so the duplicate check fires first.
	err := store.AddUser("admin", "secret", credentials.AdminGroup)
	c.Assert(err, jc.ErrorIs, credentials.ErrDuplicateUser)

	// A reserved name that is not yet present is still refused.
	fresh := credentials.NewStore()
	fresh.SeedReserved("adminpass", "", false)
	err = fresh.AddUser("guest", "secret", credentials.AdminGroup)
	c.Assert(err, jc.ErrorIs, credentials.ErrReservedName)
}

func (s *StoreSuite) TestDeleteUser(c *gc.C) {
	store := seededStore()
	c.Assert(store.AddUser("alice", "secret", credentials.GuestGroup), jc.ErrorIsNil)
	c.Assert(store.DeleteUser("alice"), jc.ErrorIsNil)
	c.Assert(store.HasUser("alice"), jc.IsFalse)
}

func (s *StoreSuite) TestDeleteUserUnknown(c *gc.C) {
	store := seededStore()
	err := store.DeleteUser("alice")
	c.Assert(err, jc.ErrorIs, credentials.ErrUnknownUser)
}

func (s *StoreSuite) TestDeleteUserReserved(c *gc.C) {
	store := seededStore()
	err := store.DeleteUser("admin")
	c.Assert(err, jc.ErrorIs, credentials.ErrReservedName)
	err = store.DeleteUser("guest")
	c.Assert(err, jc.ErrorIs, credentials.ErrReservedName)
	c.Assert(store.Users(), gc.HasLen, 2)
}

func (s *StoreSuite) TestAddGroup(c *gc.C) {
	store := seededStore()
	err := store.AddGroup("qa", []string{"viewer", "ssh"})
	c.Assert(err, jc.ErrorIsNil)
	groups := store.Groups()
	c.Assert(groups[len(groups)-1].Roles, jc.DeepEquals, []string{"viewer", "ssh"})
}

func (s *StoreSuite) TestAddGroupInvalidRoles(c *gc.C) {
	store := seededStore()
	err := store.AddGroup("qa", []string{"viewer", "bogus", "nope"})
	c.Assert(err, jc.ErrorIs, credentials.ErrInvalidRole)
	c.Assert(err, gc.ErrorMatches, `role\(s\) bogus, nope do not exist`)
	c.Assert(store.HasGroup("qa"), jc.IsFalse)
	c.Assert(store.Groups(), gc.HasLen, 2)
}

func (s *StoreSuite) TestAddGroupReserved(c *gc.C) {
	store := seededStore()
	err := store.AddGroup("admingroup", []string{"viewer"})
	c.Assert(err, jc.ErrorIs, credentials.ErrReservedName)
}

func (s *StoreSuite) TestAddGroupReplacesRoles(c *gc.C) {
	store := seededStore()
	c.Assert(store.AddGroup("qa", []string{"viewer"}), jc.ErrorIsNil)
	c.Assert(store.AddGroup("qa", []string{"viewer", "ssh"}), jc.ErrorIsNil)
	groups := store.Groups()
	c.Assert(groups, gc.HasLen, 3)
	c.Assert(groups[2].Roles, jc.DeepEquals, []string{"viewer", "ssh"})
}

func (s *StoreSuite) TestDeleteGroup(c *gc.C) {
	store := seededStore()
	c.Assert(store.AddGroup("qa", []string{"viewer"}), jc.ErrorIsNil)
	c.Assert(store.DeleteGroup("qa"), jc.ErrorIsNil)
	c.Assert(store.HasGroup("qa"), jc.IsFalse)
}

func (s *StoreSuite) TestDeleteGroupReserved(c *gc.C) {
	store := seededStore()
	err := store.DeleteGroup("guestgroup")
	c.Assert(err, jc.ErrorIs, credentials.ErrReservedName)
}

func (s *StoreSuite) TestDeleteGroupUnknown(c *gc.C) {
	store := seededStore()
	err := store.DeleteGroup("qa")
	c.Assert(err, jc.ErrorIs, credentials.ErrUnknownGroup)
}

func (s *StoreSuite) TestDeleteGroupStillReferenced(c *gc.C) {
	store := seededStore()
	c.Assert(store.AddGroup("qa", []string{"viewer"}), jc.ErrorIsNil)
	c.Assert(store.AddUser("alice", "secret", "qa"), jc.ErrorIsNil)
	err := store.DeleteGroup("qa")
	c.Assert(err, jc.ErrorIs, credentials.ErrGroupInUse)
	c.Assert(err, gc.ErrorMatches, `group "qa" is still referenced by user "alice"`)
	c.Assert(store.HasGroup("qa"), jc.IsTrue)
}

func (s *StoreSuite) TestRestoreKeepsOrder(c *gc.C) {
	store := seededStore()
	c.Assert(store.AddGroup("qa", []string{"viewer"}), jc.ErrorIsNil)
	c.Assert(store.AddUser("alice", "secret", "qa"), jc.ErrorIsNil)

	restored := credentials.Restore(store.Users(), store.Groups())
	c.Assert(restored.Users(), jc.DeepEquals, store.Users())
	c.Assert(restored.Groups(), jc.DeepEquals, store.Groups())
	c.Assert(restored.Render(), gc.Equals, store.Render())
}
