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
	"os"
	"time"

	"gopkg.in/retry.v1"

	"github.com/salutd/salutd/config"
	"github.com/salutd/salutd/logger"
)

var (
	Run         = run
	RunWatchdog = runWatchdog
	RunServer   = runServer
)

func MockSignalNotify(f func(c chan<- os.Signal, sig ...os.Signal)) (restore func()) {
	old := signalNotify
	signalNotify = f
	return func() {
		signalNotify = old
	}
}

func MockLoggerSetup(f func(opts *logger.LoggerOptions)) (restore func()) {
	old := loggerSetup
	loggerSetup = f
	return func() {
		loggerSetup = old
	}
}

func MockCheckRetryStrategy(s retry.Strategy) (restore func()) {
	old := checkRetryStrategy
	checkRetryStrategy = func(time.Duration) retry.Strategy { return s }
	return func() {
		checkRetryStrategy = old
	}
}

// ServeConfig parses args and returns the configuration the serve
// command would run with.
func ServeConfig(args []string) (*config.Config, error) {
	parser, serve := newParser()
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}
	return serve.config()
}
