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
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"

	"gopkg.in/retry.v1"

	"github.com/salutd/salutd/logger"
)

func maybeLogRetryAttempt(url string, attempt *retry.Attempt, startTime time.Time) {
	if attempt.Count() > 1 {
		delta := time.Since(startTime) / time.Millisecond
		logger.Debugf("Retrying %s, attempt %d, elapsed time=%v ms", url, attempt.Count(), delta)
	}
}

func isTemporary(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// ShouldRetryError returns true for the errors a server that is still
// coming up (or got briefly overloaded) produces.
func ShouldRetryError(err error) bool {
	if urlErr, ok := err.(*url.Error); ok {
		err = urlErr.Err
	}
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return true
	case errors.Is(err, syscall.ECONNREFUSED), errors.Is(err, syscall.ECONNRESET):
		return true
	case isTemporary(err):
		return true
	}
	return false
}

// ShouldRetryHttpResponse returns true for 5xx and 429 responses, unless
// this is the last attempt.
func ShouldRetryHttpResponse(attempt *retry.Attempt, resp *http.Response) bool {
	if !attempt.More() {
		return false
	}
	return resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
}

// RetryRequest calls doRequest and read the response body in a loop using
// the provided retryStrategy, until a response is read without errors or
// the strategy gives up.
func RetryRequest(endpoint string, doRequest func() (*http.Response, error), readResponseBody func(resp *http.Response) error, retryStrategy retry.Strategy) (resp *http.Response, err error) {
	var attempt *retry.Attempt
	startTime := time.Now()
	for attempt = retry.Start(retryStrategy, nil); attempt.Next(); {
		maybeLogRetryAttempt(endpoint, attempt, startTime)

		resp, err = doRequest()
		if err != nil {
			if ShouldRetryError(err) && attempt.More() {
				continue
			}
			break
		}

		if ShouldRetryHttpResponse(attempt, resp) {
			resp.Body.Close()
			continue
		}

		err = readResponseBody(resp)
		resp.Body.Close()
		if err != nil && ShouldRetryError(err) && attempt.More() {
			continue
		}
		break
	}

	if err != nil {
		if attempt.Count() > 1 {
			return nil, fmt.Errorf("%v (after %d attempts)", err, attempt.Count())
		}
		return nil, err
	}
	return resp, nil
}
