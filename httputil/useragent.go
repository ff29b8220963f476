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
	"fmt"
	"runtime"
)

// UserAgent to send
var userAgent = "unset"

// SetUserAgentFromVersion sets up a user-agent string.
func SetUserAgentFromVersion(version string, extraProds ...string) {
	extras := ""
	for _, p := range extraProds {
		extras += " " + p
	}
	userAgent = fmt.Sprintf("salutd/%s%s (%s; %s)", version, extras, runtime.GOOS, runtime.GOARCH)
}

// UserAgent returns the user-agent string setup through SetUserAgentFromVersion.
func UserAgent() string {
	return userAgent
}
