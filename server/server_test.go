/*
 * Bonsai
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package server

import (
	"bytes"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"devt.de/krotik/bonsai/api"
	v1 "devt.de/krotik/bonsai/api/v1"
	"devt.de/krotik/bonsai/config"
	"devt.de/krotik/bonsai/host"
	"devt.de/krotik/common/fileutil"
	"github.com/gorilla/websocket"
)

/*
Flag to enable / disable long running tests.
(Only used for test development - should never be false)
*/
const RunLongRunningTests = true

const testdir = "testserver"

var printLog = []string{}
var errorLog = []string{}

func TestMain(m *testing.M) {
	flag.Parse()

	basepath = testdir

	// Log all print and error messages

	LogInfo = func(v ...interface{}) {
		printLog = append(printLog, fmt.Sprint(v...))
	}
	fatal = func(v ...interface{}) {
		errorLog = append(errorLog, fmt.Sprint(v...))
	}

	defer func() {
		fatal = log.Fatal
		LogInfo = log.Print
		basepath = ""
	}()

	if res, _ := fileutil.PathExists(testdir); res {
		if err := os.RemoveAll(testdir); err != nil {
			fmt.Print("Could not remove test directory:", err.Error())
		}
	}

	ensurePath(testdir)

	// Run the tests

	res := m.Run()

	if res, _ := fileutil.PathExists(testdir); res {
		if err := os.RemoveAll(testdir); err != nil {
			fmt.Print("Could not remove test directory:", err.Error())
		}
	}

	os.Exit(res)
}

/*
ensurePath ensures that a given relative path exists.
*/
func ensurePath(path string) {
	if res, _ := fileutil.PathExists(path); !res {
		if err := os.Mkdir(path, 0770); err != nil {
			fmt.Print("Could not create directory:", err.Error())
		}
	}
}

func TestStartServer(t *testing.T) {

	if !RunLongRunningTests {
		return
	}

	// Make sure to reset the DefaultServeMux

	defer func() { http.DefaultServeMux = http.NewServeMux() }()

	printLog = []string{}
	errorLog = []string{}

	config.LoadDefaultConfig()
	config.Config[config.SockPort] = "9092"
	config.Config[config.EnableScriptEngine] = false

	defer config.LoadDefaultConfig()

	env := host.NewEnvironment(nil)

	done := make(chan bool)

	go func() {
		StartServerWithEnvironment(env)
		done <- true
	}()

	// Wait until the lockfile was written

	lockfile := filepath.Join(testdir, config.Str(config.LockFile))

	for i := 0; i < 50; i++ {
		if res, _ := fileutil.PathExists(lockfile); res {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	dialer := websocket.Dialer{Subprotocols: []string{SockProtocol}}

	c, _, err := dialer.Dial("ws://localhost:9092"+EndpointSock, nil)
	if err != nil {
		t.Error("Could not open websocket:", err)
		return
	}

	readMessage(c)

	c.WriteMessage(websocket.TextMessage,
		[]byte(`{"program": ["()", ["$", "console.log"], [":", "hello"]]}`))

	if res := readMessage(c); fmt.Sprint(res["payload"]) != "map[result:<nil>]" {
		t.Error("Unexpected result:", res)
		return
	}

	if res := env.Console.History(); len(res) != 1 || res[0].S != "hello" {
		t.Error("Unexpected result:", res)
		return
	}

	c.Close()

	// The REST API runs against the same environment

	resp, err := http.Post("http://localhost:9092"+v1.EndpointRun, "application/json",
		bytes.NewBufferString(`{"program": ["()", ["$", "console.log"], [":", "rest"]]}`))
	if err != nil {
		t.Error("Could not call REST API:", err)
		return
	}
	resp.Body.Close()

	if res := env.Console.History(); resp.StatusCode != http.StatusOK || len(res) != 2 || res[1].S != "rest" {
		t.Error("Unexpected result:", resp.Status, res)
		return
	}

	// Shut down the server by overwriting the lockfile

	ioutil.WriteFile(lockfile, []byte("a"), 0600)

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Error("Server did not shut down")
		return
	}

	if len(errorLog) != 0 {
		t.Error("Unexpected errors:", errorLog)
		return
	}

	if res := strings.Join(printLog, "\n"); res != `Bonsai 1.0.0
Starting server on: localhost:9092
Waiting for shutdown
Lockfile was modified
Shutting down` {
		t.Error("Unexpected log:", res)
		return
	}
}

func TestStartServerErrors(t *testing.T) {
	defer func() { http.DefaultServeMux = http.NewServeMux() }()

	errorLog = []string{}

	config.LoadDefaultConfig()
	config.Config[config.LogLevel] = "foo"

	defer config.LoadDefaultConfig()

	StartServer()

	if len(errorLog) != 1 {
		t.Error("Unexpected errors:", errorLog)
		return
	}

	config.LoadDefaultConfig()
	config.Config[config.SockHost] = "invalid host"

	errorLog = []string{}

	StartServerWithEnvironment(host.NewEnvironment(nil))

	if len(errorLog) != 1 {
		t.Error("Unexpected errors:", errorLog)
		return
	}
}

func TestDefaultEnvironment(t *testing.T) {
	defer func() { http.DefaultServeMux = http.NewServeMux() }()

	var registered []string

	api.HandleFunc = func(pattern string, handler func(http.ResponseWriter, *http.Request)) {
		registered = append(registered, pattern)
	}
	defer func() { api.HandleFunc = http.HandleFunc }()

	config.LoadDefaultConfig()
	config.Config[config.SockHost] = "invalid host"
	defer config.LoadDefaultConfig()

	printLog = []string{}
	errorLog = []string{}

	StartServer()

	sort.Strings(registered)

	if res := strings.Join(registered, " "); res != "/bonsai/about/ /bonsai/sock "+
		"/bonsai/swagger.json/ /bonsai/v1/console/ /bonsai/v1/env/ /bonsai/v1/program/ /bonsai/v1/run/" {
		t.Error("Unexpected result:", res)
		return
	}

	if api.APIHost != "invalid host:9091" || api.Env == nil {
		t.Error("Unexpected result:", api.APIHost, api.Env)
		return
	}

	if res := strings.Join(printLog, "\n"); !strings.Contains(res, "Creating host environment") {
		t.Error("Unexpected log:", res)
		return
	}
}
