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
	"encoding/json"
	"fmt"
	"net/http"

	"devt.de/krotik/bonsai"
	"devt.de/krotik/bonsai/api"
	"devt.de/krotik/bonsai/host"
	"devt.de/krotik/bonsai/value"
	"devt.de/krotik/common/cryptutil"
	"devt.de/krotik/common/datautil"
	"devt.de/krotik/common/stringutil"
	"devt.de/krotik/ecal/util"
	"github.com/gorilla/websocket"
)

/*
EndpointSock is the endpoint URL (rooted) for websocket operations
*/
const EndpointSock = api.APIRoot + "/sock"

/*
SockProtocol is the websocket subprotocol of the endpoint
*/
const SockProtocol = "bonsai-sock"

/*
sockUpgrader can upgrade normal requests to websocket communications
*/
var sockUpgrader = websocket.Upgrader{
	Subprotocols:    []string{SockProtocol},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

/*
SockEndpoint runs Bonsai programs which are sent through websocket
connections. Every message must be a JSON object of the form
{"program": <tree>}. The reply carries either a result or an error in its
payload. A message {"close": true} closes the connection.
*/
type SockEndpoint struct {
	Env         *host.Environment  // Host environment for all programs
	Logger      util.Logger        // Logger for program evaluation
	Connections *datautil.MapCache // Registry of open connections
}

/*
NewSockEndpoint creates a new websocket endpoint. At most cacheSize
connections are registered.
*/
func NewSockEndpoint(env *host.Environment, logger util.Logger, cacheSize uint64) *SockEndpoint {
	if logger == nil {
		logger = util.NewNullLogger()
	}
	return &SockEndpoint{env, logger, datautil.NewMapCache(cacheSize, 0)}
}

/*
Connection returns a registered connection.
*/
func (se *SockEndpoint) Connection(commID string) (*WebsocketConnection, bool) {
	if wc, ok := se.Connections.Get(commID); ok {
		return wc.(*WebsocketConnection), true
	}
	return nil, false
}

/*
ServeHTTP handles a websocket request.
*/
func (se *SockEndpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	// Update the incomming connection to a websocket
	// If the upgrade fails then the client gets an HTTP error response.

	conn, err := sockUpgrader.Upgrade(w, r, nil)

	if err != nil {

		// We give details here on what went wrong

		w.Write([]byte(err.Error()))
		return
	}

	commID := fmt.Sprintf("%x", cryptutil.GenerateUUID())

	wc := NewWebsocketConnection(commID, conn)

	se.Connections.Put(commID, wc)
	defer se.Connections.Remove(commID)

	LogDebug("Opened connection ", commID)

	if err = wc.Init(); err == nil {

		for {
			var fatal bool
			var data map[string]interface{}

			// Read websocket message

			if data, fatal, err = wc.ReadData(); err != nil {

				if fatal {
					break
				}

				err = wc.WriteData(map[string]interface{}{
					"error": err.Error(),
				})

				continue
			}

			if val, ok := data["close"]; ok && stringutil.IsTrueValue(fmt.Sprint(val)) {
				LogDebug("Closing connection ", commID)
				wc.Close("")
				return
			}

			if err = wc.WriteData(se.HandleMessage(commID, data)); err != nil {
				LogInfo("Could not write to connection ", commID, ": ", err)
			}
		}
	}

	LogDebug("Connection ", commID, " ended: ", err)

	conn.Close()
}

/*
HandleMessage runs the program of a websocket message and returns the reply
payload.
*/
func (se *SockEndpoint) HandleMessage(commID string, data map[string]interface{}) map[string]interface{} {

	tree, ok := data["program"]
	if !ok {
		return map[string]interface{}{
			"error": "Message must contain a program",
		}
	}

	p, err := bonsai.Compile(commID, tree)

	if err == nil {
		var res value.Value

		p.Logger = se.Logger

		if res, err = p.Evaluate(se.Env); err == nil {
			native := res.Native()

			// Results which have no JSON representation (e.g. infinity)
			// are reported as errors

			if _, err = json.Marshal(native); err == nil {
				return map[string]interface{}{
					"result": native,
				}
			}

			err = fmt.Errorf("Could not encode result: %v", err)
		}
	}

	se.Logger.LogDebug(err)

	return map[string]interface{}{
		"error": err.Error(),
	}
}
