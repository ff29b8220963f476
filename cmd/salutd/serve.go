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
	"os"
	"os/signal"
	"syscall"
	"time"

	sddaemon "github.com/coreos/go-systemd/daemon"
	"github.com/jessevdk/go-flags"

	"github.com/salutd/salutd/cmd"
	"github.com/salutd/salutd/config"
	"github.com/salutd/salutd/daemon"
	"github.com/salutd/salutd/httputil"
	"github.com/salutd/salutd/logger"
	"github.com/salutd/salutd/osutil"
)

var (
	signalNotify = signal.Notify
	loggerSetup  = logger.SimpleSetup
)

type cmdServe struct {
	opts   *options
	parser *flags.Parser
}

func (x *cmdServe) setParser(parser *flags.Parser) {
	x.parser = parser
}

func (x *cmdServe) isSet(longName string) bool {
	opt := x.parser.FindOptionByLongName(longName)
	return opt != nil && opt.IsSet()
}

// config is the configuration file (if any) with the command line on
// top.
func (x *cmdServe) config() (*config.Config, error) {
	cfg := config.Default()
	if x.opts.ConfigFile != "" {
		var err error
		cfg, err = config.Load(x.opts.ConfigFile)
		if err != nil {
			return nil, err
		}
	}

	if x.isSet("address") {
		cfg.Address = x.opts.Address
	}
	if x.isSet("port") {
		cfg.Port = x.opts.Port
	}
	if x.opts.Debug {
		cfg.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (x *cmdServe) Execute(args []string) error {
	cfg, err := x.config()
	if err != nil {
		return err
	}
	loggerSetup(&logger.LoggerOptions{ForceDebug: cfg.Debug})
	if cfg.Debug {
		logger.NoGuardDebugf("configuration: %+v", *cfg)
	}

	return runServer(cfg)
}

func runWatchdog(d *daemon.Daemon) (*time.Ticker, error) {
	// not running under systemd
	if os.Getenv("WATCHDOG_USEC") == "" {
		return nil, nil
	}
	usec := osutil.GetenvInt64("WATCHDOG_USEC")
	if usec <= 0 {
		return nil, fmt.Errorf("cannot parse WATCHDOG_USEC: %q", os.Getenv("WATCHDOG_USEC"))
	}
	dur := time.Duration(usec/2) * time.Microsecond
	logger.Debugf("Setting up sd_notify() watchdog timer every %s", dur)
	wt := time.NewTicker(dur)

	go func() {
		for {
			select {
			case <-wt.C:
				sddaemon.SdNotify(false, "WATCHDOG=1")
			case <-d.Dying():
				return
			}
		}
	}()

	return wt, nil
}

func runServer(cfg *config.Config) error {
	t0 := time.Now().Truncate(time.Millisecond)
	httputil.SetUserAgentFromVersion(cmd.Version)

	ch := make(chan os.Signal, 2)
	signalNotify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)

	d, err := daemon.New(cfg)
	if err != nil {
		return err
	}
	d.Version = cmd.Version
	if err := d.Init(); err != nil {
		return err
	}

	d.Start()

	watchdog, err := runWatchdog(d)
	if err != nil {
		d.Stop()
		return fmt.Errorf("cannot run software watchdog: %v", err)
	}
	if watchdog != nil {
		defer watchdog.Stop()
	}

	logger.Debugf("activation done in %v", time.Now().Truncate(time.Millisecond).Sub(t0))

	select {
	case sig := <-ch:
		logger.Noticef("Exiting on %s signal.", sig)
	case <-d.Dying():
		// the server stopped on its own
	}

	return d.Stop()
}
