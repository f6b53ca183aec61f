/*
 * Bonsai
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package server contains the code for the Bonsai server.

The server offers a REST API and a websocket endpoint which both run Bonsai
programs. All programs share one host environment.
*/
package server

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"devt.de/krotik/bonsai"
	"devt.de/krotik/bonsai/api"
	v1 "devt.de/krotik/bonsai/api/v1"
	"devt.de/krotik/bonsai/config"
	"devt.de/krotik/bonsai/host"
	"devt.de/krotik/common/httputil"
	"devt.de/krotik/common/lockutil"
)

/*
Logger is a function which processes log messages from the server
*/
type Logger func(v ...interface{})

/*
LogNull is a discarding logger to be used for disabling loggers
*/
var LogNull = func(v ...interface{}) {
}

/*
LogInfo is called if an info message is logged in the server code
*/
var LogInfo = Logger(log.Print)

/*
LogDebug is called if a debug message is logged in the server code
(by default disabled)
*/
var LogDebug = Logger(LogNull)

/*
Using custom consolelogger type so we can test log.Fatal calls with unit tests. Overwrite
these if the server should not call os.Exit on a fatal error.
*/
var fatal = Logger(log.Fatal)

/*
Base path for all file (used by unit tests)
*/
var basepath = ""

/*
StartServer runs the Bonsai server. The server uses config.Config for all its
configuration parameters. The server runs until its lockfile is modified.
*/
func StartServer() {
	StartServerWithEnvironment(nil)
}

/*
StartServerWithEnvironment runs the Bonsai server with a given host
environment. A default environment is created if env is nil.
*/
func StartServerWithEnvironment(env *host.Environment) {

	LogInfo(fmt.Sprintf("Bonsai %v", config.ProductVersion))

	// Ensure we have a configuration - use the default configuration if nothing was set

	config.EnsureConfig()

	logger, err := bonsai.NewLogger(config.Str(config.LogLevel))
	if err != nil {
		fatal(err)
		return
	}

	if env == nil {
		LogInfo("Creating host environment")

		if env, err = bonsai.NewEnvironment(logger); err != nil {
			fatal(err)
			return
		}
	}

	addr := config.Str(config.SockHost) + ":" + config.Str(config.SockPort)

	// Register REST endpoints

	api.Env = env
	api.Logger = logger
	api.APIHost = addr

	api.RegisterRestEndpoints(api.GeneralEndpointMap)
	api.RegisterRestEndpoints(v1.V1EndpointMap)

	// Register websocket endpoint

	endpoint := NewSockEndpoint(env, logger, uint64(config.Int(config.SockConnectionCacheSize)))

	api.HandleFunc(EndpointSock, endpoint.ServeHTTP)

	// Start HTTP server

	hs := &httputil.HTTPServer{}

	var wg sync.WaitGroup
	wg.Add(1)

	LogInfo("Starting server on: ", addr)

	go hs.RunHTTPServer(addr, &wg)

	// Wait until the server has started

	wg.Wait()

	if hs.LastError != nil {
		fatal(hs.LastError)
		return
	}

	// Create a lockfile so the server can be shut down

	lf := lockutil.NewLockFile(filepath.Join(basepath, config.Str(config.LockFile)),
		time.Duration(2)*time.Second)

	if err = lf.Start(); err != nil {
		hs.Shutdown()
		fatal(err)
		return
	}

	go func() {

		// Check if the lockfile watcher is running and
		// call shutdown once it has finished

		for lf.WatcherRunning() {
			time.Sleep(time.Duration(1) * time.Second)
		}

		LogInfo("Lockfile was modified")

		hs.Shutdown()
	}()

	// Add to the wait group so we can wait for the shutdown

	wg.Add(1)

	LogInfo("Waiting for shutdown")
	wg.Wait()

	LogInfo("Shutting down")

	os.RemoveAll(filepath.Join(basepath, config.Str(config.LockFile)))
}
