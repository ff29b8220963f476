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
package httputil_test

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"syscall"
	"time"

	. "gopkg.in/check.v1"
	"gopkg.in/retry.v1"

	"github.com/salutd/salutd/httputil"
)

type retrySuite struct{}

var _ = Suite(&retrySuite{})

var testRetryStrategy = retry.LimitCount(5, retry.LimitTime(1*time.Second,
	retry.Exponential{
		Initial: 1 * time.Millisecond,
		Factor:  1,
	},
))

func readBody(got *string) func(resp *http.Response) error {
	return func(resp *http.Response) error {
		if resp.StatusCode != 200 {
			return fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		body, err := io.ReadAll(resp.Body)
		*got = string(body)
		return err
	}
}

func (s *retrySuite) TestRetryRequestOn500(c *C) {
	n := 0
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n++
		if n < 4 {
			w.WriteHeader(500)
			return
		}
		io.WriteString(w, "ok")
	}))
	defer mockServer.Close()

	cli := httputil.NewHTTPClient(nil)
	doRequest := func() (*http.Response, error) {
		return cli.Get(mockServer.URL)
	}

	var got string
	_, err := httputil.RetryRequest("endp", doRequest, readBody(&got), testRetryStrategy)
	c.Assert(err, IsNil)
	c.Check(got, Equals, "ok")
	c.Check(n, Equals, 4)
}

func (s *retrySuite) TestRetryRequestGivesUpOn500(c *C) {
	n := 0
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n++
		w.WriteHeader(503)
	}))
	defer mockServer.Close()

	cli := httputil.NewHTTPClient(nil)
	doRequest := func() (*http.Response, error) {
		return cli.Get(mockServer.URL)
	}

	var got string
	_, err := httputil.RetryRequest("endp", doRequest, readBody(&got), testRetryStrategy)
	c.Check(err, ErrorMatches, `unexpected status 503 \(after 5 attempts\)`)
	c.Check(n, Equals, 5)
}

func (s *retrySuite) TestRetryRequestNoRetryOn404(c *C) {
	n := 0
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n++
		w.WriteHeader(404)
	}))
	defer mockServer.Close()

	cli := httputil.NewHTTPClient(nil)
	doRequest := func() (*http.Response, error) {
		return cli.Get(mockServer.URL)
	}

	var got string
	_, err := httputil.RetryRequest("endp", doRequest, readBody(&got), testRetryStrategy)
	c.Check(err, ErrorMatches, `unexpected status 404`)
	c.Check(n, Equals, 1)
}

func (s *retrySuite) TestRetryRequestConnectionRefused(c *C) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	c.Assert(err, IsNil)
	addr := l.Addr().String()
	l.Close()

	n := 0
	cli := httputil.NewHTTPClient(nil)
	doRequest := func() (*http.Response, error) {
		n++
		return cli.Get("http://" + addr)
	}

	var got string
	_, err = httputil.RetryRequest("endp", doRequest, readBody(&got), testRetryStrategy)
	c.Check(err, ErrorMatches, `.*connection refused \(after 5 attempts\)`)
	c.Check(n, Equals, 5)
}

func (s *retrySuite) TestRetryRequestServerComesUpLate(c *C) {
	n := 0
	doRequest := func() (*http.Response, error) {
		n++
		if n < 3 {
			return nil, &url.Error{Op: "Get", URL: "http://localhost:3000", Err: syscall.ECONNREFUSED}
		}
		return &http.Response{StatusCode: 200, Body: io.NopCloser(nil)}, nil
	}

	_, err := httputil.RetryRequest("endp", doRequest, func(*http.Response) error { return nil }, testRetryStrategy)
	c.Check(err, IsNil)
	c.Check(n, Equals, 3)
}

func (s *retrySuite) TestShouldRetryError(c *C) {
	for _, t := range []struct {
		err   error
		retry bool
	}{
		{io.EOF, true},
		{io.ErrUnexpectedEOF, true},
		{&url.Error{Op: "Get", URL: "x", Err: io.EOF}, true},
		{&net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, true},
		{syscall.ECONNRESET, true},
		{errors.New("some other error"), false},
		{syscall.EACCES, false},
	} {
		c.Check(httputil.ShouldRetryError(t.err), Equals, t.retry, Commentf("%v", t.err))
	}
}
