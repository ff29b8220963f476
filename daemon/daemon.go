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
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/coreos/go-systemd/activation"
	sddaemon "github.com/coreos/go-systemd/daemon"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
	"gopkg.in/tomb.v2"

	"github.com/salutd/salutd/config"
	"github.com/salutd/salutd/logger"
)

var (
	activationListeners = activation.Listeners
	sdNotify            = sddaemon.SdNotify

	shutdownTimeout = 5 * time.Second
)

// A Daemon listens for requests and routes them to the right command
type Daemon struct {
	Version  string
	config   *config.Config
	listener net.Listener
	server   *http.Server
	tomb     tomb.Tomb
	router   *mux.Router
	limiter  *rate.Limiter
}

// A ResponseFunc handles one of the individual verbs for a method
type ResponseFunc func(*Command, *http.Request) Response

// A Command routes a request to an individual per-verb ResponseFunc
type Command struct {
	Path string
	// GET also answers HEAD requests
	GET ResponseFunc

	d *Daemon
}

func (c *Command) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var rspf ResponseFunc

	switch r.Method {
	case "GET", "HEAD":
		rspf = c.GET
	}

	// only the verbs a command knows about are routed; everything else
	// gets the same answer as an unknown path
	if rspf == nil {
		NotFound("cannot %s %s", r.Method, r.URL.Path).ServeHTTP(w, r)
		return
	}

	rspf(c, r).ServeHTTP(w, r)
}

type wrappedWriter struct {
	w http.ResponseWriter
	s int
}

func (w *wrappedWriter) Header() http.Header {
	return w.w.Header()
}

func (w *wrappedWriter) Write(bs []byte) (int, error) {
	if w.s == 0 {
		w.s = http.StatusOK
	}
	return w.w.Write(bs)
}

func (w *wrappedWriter) WriteHeader(s int) {
	w.w.WriteHeader(s)
	w.s = s
}

func logit(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := &wrappedWriter{w: w}
		t0 := time.Now()
		handler.ServeHTTP(ww, r)
		t := time.Since(t0)
		logger.Debugf("%s %s %s %s %d", r.RemoteAddr, r.Method, r.URL, t, ww.s)
	})
}

func (d *Daemon) ratelimit(handler http.Handler) http.Handler {
	if d.limiter == nil {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !d.limiter.Allow() {
			TooManyRequests("too many requests").ServeHTTP(w, r)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

// sameTCPAddr reports whether the (possibly inherited) listener address
// got is the one asked for in want.
func sameTCPAddr(want *net.TCPAddr, got net.Addr) bool {
	tcpAddr, ok := got.(*net.TCPAddr)
	if !ok || tcpAddr.Port != want.Port {
		return false
	}
	if want.IP == nil || want.IP.IsUnspecified() {
		return tcpAddr.IP == nil || tcpAddr.IP.IsUnspecified()
	}
	return want.IP.Equal(tcpAddr.IP)
}

// getListener tries to get a listener for the given address from the
// listeners handed over by systemd, and if it fails it tries to set it
// up directly.
func getListener(addr string, activated []net.Listener) (net.Listener, error) {
	want, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}

	for _, listener := range activated {
		if listener == nil {
			continue
		}
		if sameTCPAddr(want, listener.Addr()) {
			logger.Debugf("using socket-activated listener on %s", listener.Addr())
			return listener, nil
		}
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	logger.Debugf("socket %q was not activated; listening", addr)

	return listener, nil
}

// Init binds the listener and sets up the routes.
// Don't call more than once.
func (d *Daemon) Init() error {
	t0 := time.Now()
	listeners, err := activationListeners()
	if err != nil {
		return err
	}

	addr := d.config.ListenAddr()
	listener, err := getListener(addr, listeners)
	if err != nil {
		return fmt.Errorf("cannot listen on %s: %v", addr, err)
	}
	d.listener = listener

	d.addRoutes()

	logger.Debugf("init done in %s", time.Since(t0))

	return nil
}

func (d *Daemon) addRoutes() {
	d.router = mux.NewRouter()
	// "//" and friends are not "/"
	d.router.SkipClean(true)

	for _, c := range api {
		c.d = d
		d.router.Handle(c.Path, c).Name(c.Path)
	}

	d.router.NotFoundHandler = NotFound("not found")
}

// Addr is the address the daemon is listening on, valid after Init.
func (d *Daemon) Addr() net.Addr {
	return d.listener.Addr()
}

// Start the Daemon
func (d *Daemon) Start() {
	d.server = &http.Server{
		Handler: logit(d.ratelimit(d.router)),
	}

	d.tomb.Go(func() error {
		if err := d.server.Serve(d.listener); err != nil && err != http.ErrServerClosed && d.tomb.Err() == tomb.ErrStillAlive {
			return err
		}

		return nil
	})

	logger.Debugf("salutd %s serving on %s", d.Version, d.Addr())
	logger.Noticef("Serveur lancé sur %s", config.URL(d.Addr()))

	if _, err := sdNotify(false, "READY=1"); err != nil {
		logger.Noticef("cannot notify systemd: %v", err)
	}
}

// Stop shuts down the Daemon, letting in-flight requests finish for a
// little while.
func (d *Daemon) Stop() error {
	if _, err := sdNotify(false, "STOPPING=1"); err != nil {
		logger.Noticef("cannot notify systemd: %v", err)
	}

	d.tomb.Kill(nil)

	if d.server == nil {
		// never started
		d.listener.Close()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := d.server.Shutdown(ctx); err != nil {
		logger.Noticef("cannot gracefully shut down: %v", err)
		d.server.Close()
	}

	return d.tomb.Wait()
}

// Dying is a tomb-ish thing
func (d *Daemon) Dying() <-chan struct{} {
	return d.tomb.Dying()
}

// New Daemon
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &Daemon{
		config: cfg,
	}
	if cfg.RequestsPerSecond > 0 {
		d.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}
	return d, nil
}
