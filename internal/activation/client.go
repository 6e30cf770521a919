// Copyright 2021 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package activation talks to the ONOS REST API to toggle application
// activation. Calls are synchronous and are not retried here; a failed
// call surfaces to the caller and convergence is re-attempted on the next
// reconciliation pass.
package activation

import (
	"fmt"
	"net/http"

	"github.com/juju/errors"

	"github.com/charmed-osm/onos-operator/core/onos"
)

// DefaultBaseURL is the ONOS REST root on the workload's loopback.
var DefaultBaseURL = fmt.Sprintf("http://localhost:%d/onos/v1", onos.WebPort)

// Client issues activation calls authenticated as the administrator.
type Client struct {
	baseURL  string
	username string
	password string
	client   *http.Client
}

// NewClient returns a client for the ONOS REST API at baseURL.
func NewClient(baseURL, username, password string) *Client {
	return &Client{
		baseURL:  baseURL,
		username: username,
		password: password,
		client:   &http.Client{},
	}
}

// Activate turns the named application on.
func (c *Client) Activate(name string) error {
	return errors.Annotatef(c.call(http.MethodPost, name), "activating application %q", name)
}

// Deactivate turns the named application off.
func (c *Client) Deactivate(name string) error {
	return errors.Annotatef(c.call(http.MethodDelete, name), "deactivating application %q", name)
}

func (c *Client) call(method, name string) error {
	url := fmt.Sprintf("%s/applications/%s/active", c.baseURL, name)
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return errors.Trace(err)
	}
	req.SetBasicAuth(c.username, c.password)
	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Trace(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("%s %s: %s", method, url, resp.Status)
	}
	return nil
}
