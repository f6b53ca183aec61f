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
Package console contains the console command processor for Bonsai.

Lines which start with [ are Bonsai programs and are evaluated against the
host environment of the console. All other lines are console commands.
*/
package console

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"devt.de/krotik/bonsai/host"
)

/*
NewConsole creates a new Console object which can parse and execute given
commands and outputs the result to the Writer. It optionally exports data
with the given export function via the export command. Export is disabled
if no export function is defined.
*/
func NewConsole(out io.Writer, env *host.Environment,
	exportFunc func([]string, *bytes.Buffer) error) CommandConsole {

	cmdMap := make(map[string]Command)

	cmdMap[CommandHelp] = &CmdHelp{}
	cmdMap[CommandVer] = &CmdVer{}
	cmdMap[CommandVars] = &CmdVars{}
	cmdMap[CommandLog] = &CmdLog{}
	cmdMap[CommandFree] = &CmdFree{}
	cmdMap[CommandPrint] = &CmdPrint{}

	// Add export if we got an export function

	if exportFunc != nil {
		cmdMap[CommandExport] = &CmdExport{exportFunc}
	}

	c := &BonsaiConsole{out, bytes.NewBuffer(nil), env, nil, cmdMap}

	c.childConsoles = []CommandConsole{&ProgramConsole{c}}

	return c
}

/*
CommandConsole is the main interface for command processors.
*/
type CommandConsole interface {

	/*
		Run executes one or more commands. It returns an error if the command
		had an unexpected result and a flag if the command was handled.
	*/
	Run(cmd string) (bool, error)

	/*
	   Commands returns a sorted list of all available commands.
	*/
	Commands() []Command
}

/*
CommandConsoleAPI is the console interface which commands can use to access
the console state.
*/
type CommandConsoleAPI interface {
	CommandConsole

	/*
	   Env returns the host environment of the console.
	*/
	Env() *host.Environment

	/*
		Out returns a writer which can be used to write to the console.
	*/
	Out() io.Writer

	/*
	   ExportBuffer returns a buffer which can be used to write exportable data.
	*/
	ExportBuffer() *bytes.Buffer
}

/*
Command describes an available command.
*/
type Command interface {
	/*
	   Name returns the command name (as it should be typed).
	*/
	Name() string

	/*
	   ShortDescription returns a short description of the command (single line).
	*/
	ShortDescription() string

	/*
	   LongDescription returns an extensive description of the command (can be multiple lines).
	*/
	LongDescription() string

	/*
		Run executes the command.
	*/
	Run(args []string, capi CommandConsoleAPI) error
}

// Bonsai Console
// ==============

/*
BonsaiConsole implements the basic console functionality.
*/
type BonsaiConsole struct {
	out           io.Writer         // Output for this console
	export        *bytes.Buffer     // Export buffer
	env           *host.Environment // Host environment for programs
	childConsoles []CommandConsole  // List of child consoles

	CommandMap map[string]Command // Map of registered commands
}

/*
Env returns the host environment of the console.
*/
func (c *BonsaiConsole) Env() *host.Environment {
	return c.env
}

/*
Out returns a writer which can be used to write to the console.
*/
func (c *BonsaiConsole) Out() io.Writer {
	return c.out
}

/*
ExportBuffer returns a buffer which can be used to write exportable data.
*/
func (c *BonsaiConsole) ExportBuffer() *bytes.Buffer {
	return c.export
}

/*
Run executes one or more commands. It returns an error if the command
had an unexpected result and a flag if the command was handled.
*/
func (c *BonsaiConsole) Run(cmd string) (bool, error) {

	// Programs are given to the child consoles as they are

	for _, cc := range c.childConsoles {
		if ok, err := cc.Run(cmd); err != nil || ok {
			return ok, err
		}
	}

	// Split a line with multiple commands

	cmds := splitCommands(cmd)

	for _, cmd := range cmds {

		// Run the command and return if there is an error

		if ok, err := c.RunCommand(cmd); err != nil {

			// Return if there was an unexpected error

			return false, err

		} else if !ok {

			return false, fmt.Errorf("Unknown command")
		}
	}

	// Everything was handled

	return true, nil
}

/*
RunCommand executes a single command. It returns an error for unexpected results and
a flag if the command was handled.
*/
func (c *BonsaiConsole) RunCommand(cmdString string) (bool, error) {
	cmdSplit := strings.Fields(cmdString)

	if len(cmdSplit) > 0 {
		cmd := cmdSplit[0]
		args := cmdSplit[1:]

		// Reset the export buffer if we are not exporting

		if cmd != CommandExport {
			c.export.Reset()
		}

		if cmdObj, ok := c.CommandMap[cmd]; ok {
			return true, cmdObj.Run(args, c)
		} else if cmd == "?" {
			return true, c.CommandMap[CommandHelp].Run(args, c)
		}
	}

	return false, nil
}

/*
Commands returns a sorted list of all available commands.
*/
func (c *BonsaiConsole) Commands() []Command {
	var res []Command

	for _, c := range c.CommandMap {
		res = append(res, c)
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].Name() < res[j].Name()
	})

	return res
}

// Util functions
// ==============

/*
splitCommands splits a line with multiple commands. A line whose first
argument is a program is not split since the program may contain a ';'.
*/
func splitCommands(cmd string) []string {
	if ss := strings.Fields(cmd); len(ss) > 1 && strings.HasPrefix(ss[1], "[") {
		return []string{cmd}
	}

	return strings.Split(cmd, ";")
}

/*
cmdStartsWithKeyword checks if a given command line starts with a given list
of keywords.
*/
func cmdStartsWithKeyword(cmd string, keywords []string) bool {
	ss := strings.Fields(strings.ToLower(cmd))

	if len(ss) > 0 {
		firstCmd := strings.ToLower(ss[0])

		for _, k := range keywords {
			if k == firstCmd || strings.HasPrefix(firstCmd, k) {
				return true
			}
		}
	}

	return false
}
