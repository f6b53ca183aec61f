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
Package v1 contains version 1 of the Bonsai REST API.

/bonsai/v1/program

Decode a program and return its free variables and its printed form.

/bonsai/v1/run

Decode a program and run it against the host environment of the server.

/bonsai/v1/env

Inspect the symbols of the host environment.

/bonsai/v1/console

Read or clear the history of the console.log sink.
*/
package v1

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"strconv"
	"strings"

	"devt.de/krotik/bonsai/api"
)

/*
APIv1 is the directory for version 1 of the API
*/
const APIv1 = "/v1"

/*
HTTPHeaderTotalCount is a special header value containing the total count of objects.
*/
const HTTPHeaderTotalCount = "X-Total-Count"

/*
V1EndpointMap is a map of urls to endpoints for version 1 of the API
*/
var V1EndpointMap = map[string]api.RestEndpointInst{
	EndpointProgram: ProgramEndpointInst,
	EndpointRun:     RunEndpointInst,
	EndpointEnv:     EnvEndpointInst,
	EndpointConsole: ConsoleEndpointInst,
}

// Helper functions
// ================

/*
checkResources check given resources for a GET request.
*/
func checkResources(w http.ResponseWriter, resources []string, requiredMin int, requiredMax int, errorMsg string) bool {
	if len(resources) < requiredMin {
		http.Error(w, errorMsg, http.StatusBadRequest)
		return false
	} else if len(resources) > requiredMax {
		http.Error(w, "Invalid resource specification: "+strings.Join(resources[1:], "/"), http.StatusBadRequest)
		return false
	}
	return true
}

/*
Extract a positive number from a query parameter. Returns -1 and true
if the parameter was not given.
*/
func queryParamPosNum(w http.ResponseWriter, r *http.Request, param string) (int, bool) {

	val := r.URL.Query().Get(param)

	if val == "" {
		return -1, true
	}

	num, err := strconv.Atoi(val)

	if err != nil || num < 0 {
		http.Error(w, "Invalid parameter value: "+param+" should be a positive integer number", http.StatusBadRequest)
		return -1, false
	}

	return num, true
}

/*
readProgram reads the program tree of a request body of the form
{"program": <tree>}. Numbers are kept as json.Number values.
*/
func readProgram(w http.ResponseWriter, r *http.Request) (interface{}, bool) {

	body, err := ioutil.ReadAll(r.Body)

	if err == nil {
		dec := json.NewDecoder(bytes.NewBuffer(body))
		dec.UseNumber()

		data := make(map[string]interface{})

		if err = dec.Decode(&data); err == nil {

			if tree, ok := data["program"]; ok {
				return tree, true
			}

			http.Error(w, "Need a program parameter", http.StatusBadRequest)
			return nil, false
		}
	}

	http.Error(w, "Could not decode request body: "+err.Error(), http.StatusBadRequest)

	return nil, false
}

/*
writeJSON writes a JSON response. Data which cannot be encoded results in a
bad request error.
*/
func writeJSON(w http.ResponseWriter, data interface{}) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(data); err != nil {
		http.Error(w, "Could not encode result: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Write(buf.Bytes())
}

/*
programSwaggerParam is the swagger definition of a request body which
contains a program.
*/
var programSwaggerParam = []map[string]interface{}{
	{
		"name":        "data",
		"in":          "body",
		"description": "Program in Bonsai notation.",
		"required":    true,
		"schema": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"program": map[string]interface{}{
					"description": "Wire tree of the program.",
					"type":        "array",
				},
			},
		},
	},
}

/*
errorSwaggerResponse is the swagger definition of an error response.
*/
var errorSwaggerResponse = map[string]interface{}{
	"description": "Error response",
	"schema": map[string]interface{}{
		"$ref": "#/definitions/Error",
	},
}
