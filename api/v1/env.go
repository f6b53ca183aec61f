/*
 * Bonsai
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package v1

import (
	"fmt"
	"net/http"

	"devt.de/krotik/bonsai/api"
)

/*
EndpointEnv is the env endpoint URL (rooted). Handles everything under env/...
*/
const EndpointEnv = api.APIRoot + APIv1 + "/env/"

/*
EnvEndpointInst creates a new endpoint handler.
*/
func EnvEndpointInst() api.RestEndpointHandler {
	return &envEndpoint{}
}

/*
Handler object for host environment operations.
*/
type envEndpoint struct {
	*api.DefaultEndpointHandler
}

/*
HandleGET returns all symbols of the host environment or the value of a
single symbol.

env/         - Returns an object of all symbols with their printed values
env/<name>   - Returns a single symbol
*/
func (ee *envEndpoint) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {

	if api.Env == nil {
		http.Error(w, "No host environment", http.StatusServiceUnavailable)
		return
	}

	if !checkResources(w, resources, 0, 1, "") {
		return
	}

	if len(resources) == 0 {
		symbols := make(map[string]interface{})

		for _, name := range api.Env.Names() {
			v, _ := api.Env.Lookup(name)
			symbols[name] = v.Repr()
		}

		writeJSON(w, map[string]interface{}{
			"symbols": symbols,
		})
		return
	}

	v, ok := api.Env.Lookup(resources[0])
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown symbol: %v", resources[0]), http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]interface{}{
		"name":  resources[0],
		"kind":  v.Kind.String(),
		"value": v.Native(),
	})
}

/*
SwaggerDefs is used to describe the endpoint in swagger.
*/
func (ee *envEndpoint) SwaggerDefs(s map[string]interface{}) {

	s["paths"].(map[string]interface{})["/v1/env"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "Return all symbols of the host environment.",
			"description": "All symbols which programs can use as free variables are returned with their printed values.",
			"produces": []string{
				"text/plain",
				"application/json",
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "Symbols of the host environment.",
				},
				"default": errorSwaggerResponse,
			},
		},
	}

	s["paths"].(map[string]interface{})["/v1/env/{name}"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "Return a symbol of the host environment.",
			"description": "Returns the kind and the value of a single symbol.",
			"produces": []string{
				"text/plain",
				"application/json",
			},
			"parameters": []map[string]interface{}{
				{
					"name":        "name",
					"in":          "path",
					"description": "Name of the symbol.",
					"required":    true,
					"type":        "string",
				},
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "Kind and value of the symbol.",
				},
				"default": errorSwaggerResponse,
			},
		},
	}
}

/*
EndpointConsole is the console endpoint URL (rooted). Handles everything under console/...
*/
const EndpointConsole = api.APIRoot + APIv1 + "/console/"

/*
ConsoleEndpointInst creates a new endpoint handler.
*/
func ConsoleEndpointInst() api.RestEndpointHandler {
	return &consoleEndpoint{}
}

/*
Handler object for console operations.
*/
type consoleEndpoint struct {
	*api.DefaultEndpointHandler
}

/*
HandleGET returns the history of the console.log sink. The query parameter
last limits the result to the most recent entries.
*/
func (ce *consoleEndpoint) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {

	if api.Env == nil {
		http.Error(w, "No host environment", http.StatusServiceUnavailable)
		return
	}

	if !checkResources(w, resources, 0, 0, "") {
		return
	}

	last, ok := queryParamPosNum(w, r, "last")
	if !ok {
		return
	}

	history := api.Env.Console.History()

	w.Header().Add(HTTPHeaderTotalCount, fmt.Sprint(len(history)))

	if last != -1 && last < len(history) {
		history = history[len(history)-last:]
	}

	data := make([]interface{}, len(history))
	for i, v := range history {
		data[i] = v.Native()
	}

	writeJSON(w, data)
}

/*
HandleDELETE clears the history of the console.log sink.
*/
func (ce *consoleEndpoint) HandleDELETE(w http.ResponseWriter, r *http.Request, resources []string) {

	if api.Env == nil {
		http.Error(w, "No host environment", http.StatusServiceUnavailable)
		return
	}

	api.Env.Console.Reset()

	writeJSON(w, map[string]interface{}{})
}

/*
SwaggerDefs is used to describe the endpoint in swagger.
*/
func (ce *consoleEndpoint) SwaggerDefs(s map[string]interface{}) {

	s["paths"].(map[string]interface{})["/v1/console"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "Return the console history.",
			"description": "Returns all values which were written to console.log.",
			"produces": []string{
				"text/plain",
				"application/json",
			},
			"parameters": []map[string]interface{}{
				{
					"name":        "last",
					"in":          "query",
					"description": "Only return the given number of most recent entries.",
					"required":    false,
					"type":        "number",
					"format":      "integer",
				},
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "List of written values.",
					"headers": map[string]interface{}{
						HTTPHeaderTotalCount: map[string]interface{}{
							"description": "Total number of written values.",
							"type":        "integer",
						},
					},
				},
				"default": errorSwaggerResponse,
			},
		},
		"delete": map[string]interface{}{
			"summary":     "Clear the console history.",
			"description": "Removes all entries of the console history.",
			"produces": []string{
				"text/plain",
				"application/json",
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "The history was cleared.",
				},
				"default": errorSwaggerResponse,
			},
		},
	}
}
