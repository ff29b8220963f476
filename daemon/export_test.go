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
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

func APICommands() []*Command {
	return api
}

func (d *Daemon) AddRoutes() {
	d.addRoutes()
}

func (d *Daemon) RouterMatch(req *http.Request, m *mux.RouteMatch) bool {
	return d.router.Match(req, m)
}

// Handler is the full request chain as served by Start.
func (d *Daemon) Handler() http.Handler {
	return logit(d.ratelimit(d.router))
}

func MockActivationListeners(f func() ([]net.Listener, error)) (restore func()) {
	old := activationListeners
	activationListeners = f
	return func() {
		activationListeners = old
	}
}

func MockSdNotify(f func(unsetEnvironment bool, state string) (bool, error)) (restore func()) {
	old := sdNotify
	sdNotify = f
	return func() {
		sdNotify = old
	}
}

func MockShutdownTimeout(d time.Duration) (restore func()) {
	old := shutdownTimeout
	shutdownTimeout = d
	return func() {
		shutdownTimeout = old
	}
}

var (
	GetListener = getListener
	SameTCPAddr = sameTCPAddr
)
