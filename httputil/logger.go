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
package httputil

import (
	"net/http"
	"net/http/httputil"
	"time"

	"github.com/salutd/salutd/logger"
	"github.com/salutd/salutd/osutil"
)

// debugEnvKey holds a bitmask of DebugRequest and DebugResponse.
const debugEnvKey = "SALUTD_DEBUG_HTTP"

type debugflag uint

const (
	DebugRequest = debugflag(1 << iota)
	DebugResponse
)

// LoggedTransport is an http.RoundTripper that sets the salutd
// User-Agent and, depending on Key in the environment, logs the
// headers of each request and response. Bodies are never logged.
type LoggedTransport struct {
	Transport http.RoundTripper
	Key       string
}

// RoundTrip is from the http.RoundTripper interface.
func (tr *LoggedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	flags := debugflag(osutil.GetenvInt64(tr.Key))

	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent())
	}

	if flags&DebugRequest != 0 {
		buf, _ := httputil.DumpRequestOut(req, false)
		logger.Debugf("> %q", buf)
	}

	rsp, err := tr.Transport.RoundTrip(req)

	if err == nil && flags&DebugResponse != 0 {
		buf, _ := httputil.DumpResponse(rsp, false)
		logger.Debugf("< %q", buf)
	}

	return rsp, err
}

type ClientOptions struct {
	Timeout time.Duration
}

// NewHTTPClient returns an http.Client going through a LoggedTransport,
// with the given timeout. Redirects are returned, not followed.
func NewHTTPClient(opts *ClientOptions) *http.Client {
	if opts == nil {
		opts = &ClientOptions{}
	}

	return &http.Client{
		Transport: &LoggedTransport{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Key:       debugEnvKey,
		},
		Timeout: opts.Timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
