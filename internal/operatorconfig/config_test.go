// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package operatorconfig_test

import (
	"os"
	"path/filepath"

	"github.com/juju/testing"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/charmed-osm/onos-operator/internal/operatorconfig"
)

type ConfigSuite struct {
	testing.IsolationSuite
}

var _ = gc.Suite(&ConfigSuite{})

func (s *ConfigSuite) TestCoerce(c *gc.C) {
	cfg, err := operatorconfig.Coerce(map[string]interface{}{
		"admin-password":    "secret",
		"enable-gui":        true,
		"java-opts":         "-Xmx1g",
		"external-hostname": "onos.example.com",
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(cfg, jc.DeepEquals, &operatorconfig.Config{
		AdminPassword:    "secret",
		EnableGUI:        true,
		JavaOpts:         "-Xmx1g",
		ExternalHostname: "onos.example.com",
	})
}

func (s *ConfigSuite) TestCoerceDefaults(c *gc.C) {
	cfg, err := operatorconfig.Coerce(map[string]interface{}{
		"admin-password": "secret",
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(cfg.EnableGuest, jc.IsFalse)
	c.Assert(cfg.EnableGUI, jc.IsFalse)
	c.Assert(cfg.JavaOpts, gc.Equals, "")
	c.Assert(cfg.ExternalHostname, gc.Equals, "")
}

func (s *ConfigSuite) TestMissingAdminPassword(c *gc.C) {
	_, err := operatorconfig.Coerce(map[string]interface{}{})
	c.Assert(err, jc.ErrorIs, operatorconfig.ErrConfigMissing)
	c.Assert(err, gc.ErrorMatches, "admin-password not set")
}

func (s *ConfigSuite) TestGuestPasswordRequiredWhenGuestEnabled(c *gc.C) {
	_, err := operatorconfig.Coerce(map[string]interface{}{
		"admin-password": "secret",
		"enable-guest":   true,
	})
	c.Assert(err, jc.ErrorIs, operatorconfig.ErrConfigMissing)
	c.Assert(err, gc.ErrorMatches, "guest-password not set")

	cfg, err := operatorconfig.Coerce(map[string]interface{}{
		"admin-password": "secret",
		"enable-guest":   true,
		"guest-password": "guestsecret",
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(cfg.GuestPassword, gc.Equals, "guestsecret")
}

func (s *ConfigSuite) TestGuestPasswordNotRequiredWhenGuestDisabled(c *gc.C) {
	cfg, err := operatorconfig.Coerce(map[string]interface{}{
		"admin-password": "secret",
	})
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(cfg.GuestPassword, gc.Equals, "")
}

func (s *ConfigSuite) TestUnknownKey(c *gc.C) {
	_, err := operatorconfig.Coerce(map[string]interface{}{
		"admin-password": "secret",
		"some-attr":      "value",
	})
	c.Assert(err, gc.ErrorMatches, `unknown key "some-attr" \(value "value"\)`)
}

func (s *ConfigSuite) TestRead(c *gc.C) {
	path := filepath.Join(c.MkDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
admin-password: secret
enable-guest: true
guest-password: guestsecret
enable-gui: true
`), 0600)
	c.Assert(err, jc.ErrorIsNil)

	cfg, err := operatorconfig.Read(path)
	c.Assert(err, jc.ErrorIsNil)
	c.Assert(cfg.AdminPassword, gc.Equals, "secret")
	c.Assert(cfg.EnableGuest, jc.IsTrue)
	c.Assert(cfg.EnableGUI, jc.IsTrue)
}

func (s *ConfigSuite) TestReadMissingFile(c *gc.C) {
	_, err := operatorconfig.Read(filepath.Join(c.MkDir(), "nope.yaml"))
	c.Assert(err, gc.ErrorMatches, `reading config .*: .*`)
}
