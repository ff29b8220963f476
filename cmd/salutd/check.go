// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2026 Canonical Ltd
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 3 as
 * published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */
package main

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"gopkg.in/retry.v1"

	"github.com/salutd/salutd/cmd"
	"github.com/salutd/salutd/daemon"
	"github.com/salutd/salutd/httputil"
)

var checkRetryStrategy = func(timeout time.Duration) retry.Strategy {
	return retry.LimitTime(timeout, retry.Exponential{
		Initial:  100 * time.Millisecond,
		Factor:   1.5,
		MaxDelay: time.Second,
	})
}

type cmdCheck struct {
	URL     string        `long:"url" value-name:"URL" default:"http://localhost:3000/" description:"Where the server answers"`
	Timeout time.Duration `long:"timeout" default:"10s" description:"How long to keep trying"`
}

func (x *cmdCheck) Execute(args []string) error {
	httputil.SetUserAgentFromVersion(cmd.Version, "check")
	cli := httputil.NewHTTPClient(&httputil.ClientOptions{Timeout: 2 * time.Second})

	doRequest := func() (*http.Response, error) {
		return cli.Get(x.URL)
	}

	var body []byte
	readResponseBody := func(resp *http.Response) error {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("got HTTP status %d", resp.StatusCode)
		}
		var err error
		body, err = io.ReadAll(resp.Body)
		return err
	}

	if _, err := httputil.RetryRequest(x.URL, doRequest, readResponseBody, checkRetryStrategy(x.Timeout)); err != nil {
		return fmt.Errorf("cannot reach %s: %v", x.URL, err)
	}
	if string(body) != daemon.Greeting {
		return fmt.Errorf("unexpected answer from %s: %q", x.URL, body)
	}

	fmt.Fprintf(Stdout, "%s\n", body)
	return nil
}
