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
	"io"
	"os"
	"strings"

	"github.com/jessevdk/go-flags"

	"github.com/salutd/salutd/cmd"
	"github.com/salutd/salutd/logger"
)

var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

const (
	shortHelp = "Say hello over HTTP"
	longHelp  = `
salutd answers GET / on port 3000 with a short greeting.
Without a command it runs the server.
`
)

type options struct {
	ConfigFile string `long:"config" short:"c" value-name:"FILE" description:"YAML configuration file"`
	Address    string `long:"address" value-name:"HOST" description:"Address to bind (default: all interfaces)"`
	Port       int    `long:"port" short:"p" value-name:"PORT" description:"TCP port to listen on (default: 3000)"`
	Debug      bool   `long:"debug" description:"Log debug messages"`
}

type parserSetter interface {
	setParser(*flags.Parser)
}

// newParser creates and populates a fresh parser. The serve command is
// also returned as it runs when no command is given.
func newParser() (*flags.Parser, *cmdServe) {
	opts := &options{}
	serve := &cmdServe{opts: opts}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.ShortDescription = shortHelp
	parser.LongDescription = strings.TrimSpace(longHelp)
	parser.SubcommandsOptional = true

	for _, c := range []struct {
		name, short, long string
		obj               flags.Commander
	}{
		{"serve", "Run the server (default)", "The serve command binds the listener and answers requests until interrupted.", serve},
		{"check", "Ask a running server for its greeting", "The check command asks a running server for its greeting, retrying until it answers or the timeout expires.", &cmdCheck{}},
		{"version", "Print the version and exit", "The version command prints the salutd version.", &cmdVersion{}},
	} {
		if x, ok := c.obj.(parserSetter); ok {
			x.setParser(parser)
		}
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.obj); err != nil {
			logger.Panicf("cannot add command %q: %v", c.name, err)
		}
	}

	return parser, serve
}

func init() {
	logger.SimpleSetup(nil)
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	parser, serve := newParser()
	rest, err := parser.ParseArgs(args)
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			parser.WriteHelp(Stdout)
			return nil
		}
		return err
	}

	if parser.Active == nil {
		if len(rest) > 0 {
			return fmt.Errorf(`unknown command %q, see "salutd --help"`, rest[0])
		}
		// no command: serve, with the global options already parsed
		return serve.Execute(nil)
	}

	return nil
}

type cmdVersion struct{}

func (x *cmdVersion) Execute(args []string) error {
	fmt.Fprintf(Stdout, "salutd %s\n", cmd.Version)
	return nil
}
