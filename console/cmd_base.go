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
	"bytes"
	"fmt"
	"strings"

	"devt.de/krotik/bonsai"
	"devt.de/krotik/bonsai/config"
	"devt.de/krotik/common/stringutil"
)

// Command: ver
// ============

/*
CommandVer is a command name.
*/
const CommandVer = "ver"

/*
CmdVer displays version information.
*/
type CmdVer struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdVer) Name() string {
	return CommandVer
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdVer) ShortDescription() string {
	return "Displays version information."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdVer) LongDescription() string {
	return "Displays version information."
}

/*
Run executes the command.
*/
func (c *CmdVer) Run(args []string, capi CommandConsoleAPI) error {
	fmt.Fprintln(capi.Out(), fmt.Sprintf("Bonsai %v", config.ProductVersion))
	return nil
}

// Command: vars
// =============

/*
CommandVars is a command name.
*/
const CommandVars = "vars"

/*
CmdVars lists all symbols of the host environment.
*/
type CmdVars struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdVars) Name() string {
	return CommandVars
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdVars) ShortDescription() string {
	return "Lists all symbols of the host environment."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdVars) LongDescription() string {
	return "Lists all symbols of the host environment. Programs can refer to these " +
		"symbols by name."
}

/*
Run executes the command.
*/
func (c *CmdVars) Run(args []string, capi CommandConsoleAPI) error {
	tab := []string{"Name", "Value"}

	env := capi.Env()

	for _, name := range env.Names() {
		v, _ := env.Lookup(name)
		tab = append(tab, name, v.Repr())
	}

	capi.ExportBuffer().WriteString(stringutil.PrintCSVTable(tab, 2))
	fmt.Fprint(capi.Out(), stringutil.PrintStringTable(tab, 2))

	return nil
}

// Command: log
// ============

/*
CommandLog is a command name.
*/
const CommandLog = "log"

/*
CmdLog shows the console history of the host environment.
*/
type CmdLog struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdLog) Name() string {
	return CommandLog
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdLog) ShortDescription() string {
	return "Shows all values which were written to console.log."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdLog) LongDescription() string {
	return "Shows all values which were written to console.log. Use 'log clear' " +
		"to clear the history."
}

/*
Run executes the command.
*/
func (c *CmdLog) Run(args []string, capi CommandConsoleAPI) error {
	con := capi.Env().Console

	if len(args) > 0 {
		if args[0] != "clear" {
			return fmt.Errorf("Unknown argument: %v", args[0])
		}

		con.Reset()
		fmt.Fprintln(capi.Out(), "Log cleared")

		return nil
	}

	history := con.History()

	for _, v := range history {
		capi.ExportBuffer().WriteString(fmt.Sprintln(v.Repr()))
		fmt.Fprintln(capi.Out(), v.Repr())
	}

	fmt.Fprintln(capi.Out(), fmt.Sprintf("%v value%v", len(history),
		stringutil.Plural(len(history))))

	return nil
}

// Command: free
// =============

/*
CommandFree is a command name.
*/
const CommandFree = "free"

/*
CmdFree lists the free variables of a program.
*/
type CmdFree struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdFree) Name() string {
	return CommandFree
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdFree) ShortDescription() string {
	return "Lists the free variables of a program."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdFree) LongDescription() string {
	return "Lists the free variables of a program. All free variables must be " +
		"defined in the host environment before the program can run."
}

/*
Run executes the command.
*/
func (c *CmdFree) Run(args []string, capi CommandConsoleAPI) error {
	p, err := compileArgs(args)

	if err == nil {
		for _, name := range p.FreeVariables {
			_, ok := capi.Env().Lookup(name)

			capi.ExportBuffer().WriteString(fmt.Sprintln(name))
			fmt.Fprintln(capi.Out(), fmt.Sprintf("%v (defined: %v)", name, ok))
		}
	}

	return err
}

// Command: print
// ==============

/*
CommandPrint is a command name.
*/
const CommandPrint = "print"

/*
CmdPrint decodes a program and prints it in normalized form.
*/
type CmdPrint struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdPrint) Name() string {
	return CommandPrint
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdPrint) ShortDescription() string {
	return "Decodes a program and prints it."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdPrint) LongDescription() string {
	return "Decodes a program and prints it in normalized form. Decoding checks " +
		"all references and return statements of the program."
}

/*
Run executes the command.
*/
func (c *CmdPrint) Run(args []string, capi CommandConsoleAPI) error {
	p, err := compileArgs(args)

	if err == nil {
		out := p.String()

		capi.ExportBuffer().WriteString(out)
		fmt.Fprintln(capi.Out(), out)
	}

	return err
}

/*
compileArgs compiles a program which was given as command arguments.
*/
func compileArgs(args []string) (*bonsai.Program, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("Please specify a program")
	}
	return bonsai.CompileJSON("console", strings.Join(args, " "))
}

// Command: export
// ===============

/*
CommandExport is a command name.
*/
const CommandExport = "export"

/*
CmdExport exports the data which is currently in the export buffer.
*/
type CmdExport struct {
	exportFunc func([]string, *bytes.Buffer) error
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdExport) Name() string {
	return CommandExport
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdExport) ShortDescription() string {
	return "Exports the last output."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdExport) LongDescription() string {
	return "Exports the data which is currently in the export buffer. The export " +
		"buffer is filled with the previous command output in a machine readable form."
}

/*
Run executes the command.
*/
func (c *CmdExport) Run(args []string, capi CommandConsoleAPI) error {
	return c.exportFunc(args, capi.ExportBuffer())
}

// Command: help
// =============

/*
CommandHelp is a command name.
*/
const CommandHelp = "help"

/*
CmdHelp displays descriptions of other commands.
*/
type CmdHelp struct {
}

/*
Name returns the command name (as it should be typed)
*/
func (c *CmdHelp) Name() string {
	return CommandHelp
}

/*
ShortDescription returns a short description of the command (single line)
*/
func (c *CmdHelp) ShortDescription() string {
	return "Display descriptions for all available commands."
}

/*
LongDescription returns an extensive description of the command (can be multiple lines)
*/
func (c *CmdHelp) LongDescription() string {
	return "Display descriptions for all available commands."
}

/*
Run executes the command.
*/
func (c *CmdHelp) Run(args []string, capi CommandConsoleAPI) error {

	cmds := capi.Commands()

	if len(args) > 0 {
		name := args[0]

		for _, cmd := range cmds {
			if cmd.Name() == name {
				capi.ExportBuffer().WriteString(cmd.LongDescription())
				fmt.Fprintln(capi.Out(), cmd.LongDescription())
				return nil
			}
		}

		return fmt.Errorf("Unknown command: %s", name)
	}

	var tab []string

	tab = append(tab, "Command")
	tab = append(tab, "Description")

	for _, cmd := range cmds {
		tab = append(tab, cmd.Name())
		tab = append(tab, cmd.ShortDescription())
	}

	capi.ExportBuffer().WriteString(stringutil.PrintCSVTable(tab, 2))

	fmt.Fprint(capi.Out(), stringutil.PrintStringTable(tab, 2))

	return nil
}
