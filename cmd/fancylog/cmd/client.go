// Copyright 2022 The Swarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coreos/go-semver/semver"
	"github.com/ethersphere/fancylog"
	"github.com/ethersphere/fancylog/pkg/jsonhttp"
	"github.com/ethersphere/fancylog/pkg/logadmin"
)

var errIncompatibleVersion = errors.New("incompatible admin API version")

// adminClient talks to the admin API of a running process.
type adminClient struct {
	baseURL    string
	httpClient *http.Client
}

func newAdminClient(addr string) *adminClient {
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	return &adminClient{
		baseURL:    strings.TrimRight(addr, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// do sends a request and decodes a successful response into v. Error
// responses are returned as errors carrying the server message.
func (c *adminClient) do(ctx context.Context, method, path string, query url.Values, v interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var sr jsonhttp.StatusResponse
		if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil || sr.Message == "" {
			return fmt.Errorf("%s %s: %s", method, path, resp.Status)
		}
		return fmt.Errorf("%s %s: %s", method, path, sr.Message)
	}
	if v == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// checkVersion fails when the server runs a version with a different
// major, or for major zero a different minor, version number.
func (c *adminClient) checkVersion(ctx context.Context) error {
	var h logadmin.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &h); err != nil {
		return err
	}
	server, err := semver.NewVersion(h.Version)
	if err != nil {
		return fmt.Errorf("server version %q: %w", h.Version, err)
	}
	client, err := semver.NewVersion(fancylog.Version)
	if err != nil {
		return fmt.Errorf("client version %q: %w", fancylog.Version, err)
	}
	if server.Major != client.Major || (client.Major == 0 && server.Minor != client.Minor) {
		return fmt.Errorf("%w: server %s, client %s", errIncompatibleVersion, server, client)
	}
	return nil
}
