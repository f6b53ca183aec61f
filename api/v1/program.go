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
	"net/http"

	"devt.de/krotik/bonsai"
	"devt.de/krotik/bonsai/api"
	"devt.de/krotik/bonsai/value"
)

/*
EndpointProgram is the program endpoint URL (rooted). Handles everything under program/...
*/
const EndpointProgram = api.APIRoot + APIv1 + "/program/"

/*
ProgramEndpointInst creates a new endpoint handler.
*/
func ProgramEndpointInst() api.RestEndpointHandler {
	return &programEndpoint{}
}

/*
Handler object for program operations.
*/
type programEndpoint struct {
	*api.DefaultEndpointHandler
}

/*
HandlePOST decodes a program and returns its free variables and its printed
form.
*/
func (pe *programEndpoint) HandlePOST(w http.ResponseWriter, r *http.Request, resources []string) {

	tree, ok := readProgram(w, r)
	if !ok {
		return
	}

	p, err := bonsai.Compile("request", tree)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]interface{}{
		"free":    p.FreeVariables,
		"program": p.String(),
	})
}

/*
SwaggerDefs is used to describe the endpoint in swagger.
*/
func (pe *programEndpoint) SwaggerDefs(s map[string]interface{}) {

	s["paths"].(map[string]interface{})["/v1/program"] = map[string]interface{}{
		"post": map[string]interface{}{
			"summary":     "Decode a program.",
			"description": "The program endpoint decodes a program and returns its free variables and its printed form.",
			"consumes": []string{
				"application/json",
			},
			"produces": []string{
				"text/plain",
				"application/json",
			},
			"parameters": programSwaggerParam,
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "The program was decoded.",
					"schema": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"free": map[string]interface{}{
								"description": "Free variables of the program.",
								"type":        "array",
								"items": map[string]interface{}{
									"type": "string",
								},
							},
							"program": map[string]interface{}{
								"description": "Printed program.",
								"type":        "string",
							},
						},
					},
				},
				"default": errorSwaggerResponse,
			},
		},
	}
}

/*
EndpointRun is the run endpoint URL (rooted). Handles everything under run/...
*/
const EndpointRun = api.APIRoot + APIv1 + "/run/"

/*
RunEndpointInst creates a new endpoint handler.
*/
func RunEndpointInst() api.RestEndpointHandler {
	return &runEndpoint{}
}

/*
Handler object for run operations.
*/
type runEndpoint struct {
	*api.DefaultEndpointHandler
}

/*
HandlePOST runs a program against the host environment of the API.
*/
func (re *runEndpoint) HandlePOST(w http.ResponseWriter, r *http.Request, resources []string) {
	var res value.Value

	if api.Env == nil {
		http.Error(w, "No host environment", http.StatusServiceUnavailable)
		return
	}

	tree, ok := readProgram(w, r)
	if !ok {
		return
	}

	p, err := bonsai.Compile("request", tree)

	if err == nil {
		p.Logger = api.Logger

		if res, err = p.Evaluate(api.Env); err == nil {
			writeJSON(w, map[string]interface{}{
				"result": res.Native(),
				"repr":   res.Repr(),
			})
			return
		}
	}

	http.Error(w, err.Error(), http.StatusBadRequest)
}

/*
SwaggerDefs is used to describe the endpoint in swagger.
*/
func (re *runEndpoint) SwaggerDefs(s map[string]interface{}) {

	s["paths"].(map[string]interface{})["/v1/run"] = map[string]interface{}{
		"post": map[string]interface{}{
			"summary":     "Run a program.",
			"description": "The run endpoint decodes a program, binds its free variables against the host environment and evaluates it.",
			"consumes": []string{
				"application/json",
			},
			"produces": []string{
				"text/plain",
				"application/json",
			},
			"parameters": programSwaggerParam,
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "The program was evaluated.",
					"schema": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"result": map[string]interface{}{
								"description": "Result of the program as JSON value.",
							},
							"repr": map[string]interface{}{
								"description": "Printed result of the program.",
								"type":        "string",
							},
						},
					},
				},
				"default": errorSwaggerResponse,
			},
		},
	}
}
