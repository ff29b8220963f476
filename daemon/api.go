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
	"net/http"
)

// Greeting is what the root route answers, always.
const Greeting = "Salut ! Le serveur fonctionne."

var api = []*Command{
	rootCmd,
}

var rootCmd = &Command{
	Path: "/",
	GET:  greet,
}

func greet(c *Command, r *http.Request) Response {
	return HTMLResponse(Greeting)
}
