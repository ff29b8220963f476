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
package daemon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/salutd/salutd/logger"
)

// ResponseType is the response type
type ResponseType string

// error responses carry a JSON object with this "type" field
const (
	ResponseTypeError ResponseType = "error"
)

// Response knows how to serve itself
type Response interface {
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// HTMLResponse serves its content as a 200 text/html body, the way a
// bare string is served by most web frameworks.
type HTMLResponse string

func (h HTMLResponse) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	hdr := w.Header()
	hdr.Set("Content-Type", "text/html; charset=utf-8")
	hdr.Set("Content-Length", strconv.Itoa(len(h)))
	w.WriteHeader(http.StatusOK)
	// net/http drops the body of HEAD requests
	w.Write([]byte(h))
}

type resp struct {
	Type   ResponseType
	Status int
	Result interface{}
}

func (r *resp) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		"type":        r.Type,
		"status":      http.StatusText(r.Status),
		"status-code": r.Status,
		"result":      &r.Result,
	})
}

func (r *resp) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	bs, err := r.MarshalJSON()
	if err != nil {
		InternalError("cannot marshal %T to JSON: %v", r.Result, err).ServeHTTP(w, nil)
		return
	}

	hdr := w.Header()
	hdr.Set("Content-Type", "application/json")
	w.WriteHeader(r.Status)
	w.Write(bs)
}

type errorResult struct {
	Message string `json:"message"`
}

// ErrorResponseFunc is a callable error Response.
type ErrorResponseFunc func(string, ...interface{}) Response

// ErrorResponse builds an "error" response from the given error status.
func ErrorResponse(status int) ErrorResponseFunc {
	return func(format string, v ...interface{}) Response {
		res := &errorResult{}
		if len(v) == 0 {
			res.Message = format
		} else {
			res.Message = fmt.Sprintf(format, v...)
		}
		if status == http.StatusInternalServerError {
			logger.Noticef("%s", res.Message)
		}

		return &resp{
			Type:   ResponseTypeError,
			Result: res,
			Status: status,
		}
	}
}

// standard error responses
var (
	NotFound        = ErrorResponse(http.StatusNotFound)
	InternalError   = ErrorResponse(http.StatusInternalServerError)
	TooManyRequests = ErrorResponse(http.StatusTooManyRequests)
)
