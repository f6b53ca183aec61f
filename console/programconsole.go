/*
 * Bonsai
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package console

import (
	"encoding/json"
	"fmt"

	"devt.de/krotik/bonsai"
)

// Program Console
// ===============

/*
ProgramConsole runs Bonsai programs.
*/
type ProgramConsole struct {
	parent CommandConsoleAPI // Parent console API
}

/*
programConsoleKeywords are all keywords which this console can process.
*/
var programConsoleKeywords = []string{"["}

/*
Run executes one or more commands. It returns an error if the command
had an unexpected result and a flag if the command was handled.
*/
func (c *ProgramConsole) Run(cmd string) (bool, error) {

	if !cmdStartsWithKeyword(cmd, programConsoleKeywords) {
		return false, nil
	}

	c.parent.ExportBuffer().Reset()

	res, err := bonsai.Run("console", cmd, c.parent.Env())

	if err == nil {
		if out, jerr := json.Marshal(res.Native()); jerr == nil {
			c.parent.ExportBuffer().Write(out)
		}

		fmt.Fprintln(c.parent.Out(), res.Repr())
	}

	return true, err
}

/*
Commands returns an empty list. The command line is interpreted as a program.
*/
func (c *ProgramConsole) Commands() []Command {
	return nil
}
