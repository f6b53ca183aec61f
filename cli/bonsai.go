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
Bonsai runs programs given in Bonsai notation.

Bonsai notation is a JSON encoding of an expression tree. Programs can be
run from a file, typed into an interactive console or sent to a websocket
server.
*/
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"devt.de/krotik/bonsai"
	"devt.de/krotik/bonsai/config"
	"devt.de/krotik/bonsai/console"
	"devt.de/krotik/bonsai/host"
	"devt.de/krotik/bonsai/server"
	"devt.de/krotik/common/termutil"
)

/*
workedExample is run if no program is given. It logs 99.
*/
const workedExample = `["()", ["$","console.log"], ["()", ["=>", ["{...}", [[]], [` +
	`["=",["$",1,0], ["+", [".", "foo", [":", {"foo": 42}]], ["$",0,0]]], ` +
	`["$",1,0], ["return", [":", 99]]]], [["$","x"]]], [":", 1]]]`

/*
exit terminates the process (used by unit tests)
*/
var exit = os.Exit

func main() {

	// Initialize the default command line parser

	flag.CommandLine.Init(os.Args[0], flag.ContinueOnError)

	// Define default usage message

	flag.Usage = func() {

		// Print usage for tool selection

		fmt.Println(fmt.Sprintf("Usage of %s <tool>", os.Args[0]))
		fmt.Println()
		fmt.Println(fmt.Sprintf("Bonsai %v", config.ProductVersion))
		fmt.Println()
		fmt.Println("Available commands:")
		fmt.Println()
		fmt.Println("    console   Interactive Bonsai console")
		fmt.Println("    run       Run a Bonsai program")
		fmt.Println("    server    Start Bonsai websocket server")
		fmt.Println()
		fmt.Println(fmt.Sprintf("Use %s <command> -help for more information about a given command.", os.Args[0]))
		fmt.Println()
	}

	// Parse the command bit

	err := flag.CommandLine.Parse(os.Args[1:])

	if len(flag.Args()) > 0 {

		arg := flag.Args()[0]

		if arg == "run" || arg == "console" || arg == "server" {

			if err = config.LoadConfigFile(config.DefaultConfigFile); err != nil {
				err = fmt.Errorf("Could not load config file %v: %v",
					config.DefaultConfigFile, err)

			} else if arg == "run" {
				err = RunProgram()
			} else if arg == "console" {
				err = RunCliConsole()
			} else {
				server.StartServer()
			}

		} else {
			flag.Usage()
		}

		if err != nil {
			fmt.Println(err.Error())
			exit(1)
		}

	} else if err == nil {

		flag.Usage()
	}
}

/*
newEnvironment creates the host environment for programs.
*/
func newEnvironment() (*host.Environment, error) {
	logger, err := bonsai.NewLogger(config.Str(config.LogLevel))
	if err != nil {
		return nil, err
	}

	return bonsai.NewEnvironment(logger)
}

/*
RunProgram runs a single program on the commandline.
*/
func RunProgram() error {
	var text string
	var source = "program"

	progfile := flag.String("file", "", "Read the program from a file")
	progline := flag.String("exec", "", "Run a program given on the commandline")
	showFree := flag.Bool("free", false, "Only show the free variables of the program")

	showHelp := flag.Bool("help", false, "Show this help message")

	flag.Usage = func() {
		fmt.Println()
		fmt.Println(fmt.Sprintf("Usage of %s run [options]", os.Args[0]))
		fmt.Println()
		flag.PrintDefaults()
		fmt.Println()
		fmt.Println("The worked example is run if no program is given.")
		fmt.Println()
	}

	flag.CommandLine.Parse(os.Args[2:])

	if *showHelp {
		flag.Usage()
		return nil
	}

	if *progfile != "" {
		content, err := ioutil.ReadFile(*progfile)
		if err != nil {
			return err
		}
		text = string(content)
		source = filepath.Base(*progfile)
	} else if *progline != "" {
		text = *progline
	} else {
		text = workedExample
	}

	p, err := bonsai.CompileJSON(source, text)
	if err != nil {
		return err
	}

	if *showFree {
		for _, name := range p.FreeVariables {
			fmt.Println(name)
		}
		return nil
	}

	env, err := newEnvironment()
	if err != nil {
		return err
	}

	res, err := p.Evaluate(env)
	if err == nil {
		fmt.Println(res.Repr())
	}

	return err
}

/*
RunCliConsole runs the interactive console on the commandline.
*/
func RunCliConsole() error {
	var err error

	cmdfile := flag.String("file", "", "Read commands from a file and exit")
	cmdline := flag.String("exec", "", "Execute a single line and exit")

	showHelp := flag.Bool("help", false, "Show this help message")

	flag.Usage = func() {
		fmt.Println()
		fmt.Println(fmt.Sprintf("Usage of %s console [options]", os.Args[0]))
		fmt.Println()
		flag.PrintDefaults()
		fmt.Println()
	}

	flag.CommandLine.Parse(os.Args[2:])

	if *showHelp {
		flag.Usage()
		return nil
	}

	if *cmdfile == "" && *cmdline == "" {
		fmt.Println(fmt.Sprintf("Bonsai %v - Console", config.ProductVersion))
	}

	var clt termutil.ConsoleLineTerminal

	isExitLine := func(s string) bool {
		return s == "exit" || s == "q" || s == "quit" || s == "bye" || s == "\x04"
	}

	clt, err = termutil.NewConsoleLineTerminal(os.Stdout)

	if *cmdfile != "" {
		var file *os.File

		// Read commands from a file

		file, err = os.Open(*cmdfile)
		if err == nil {
			defer file.Close()

			clt, err = termutil.AddFileReadingWrapper(clt, file, true)
		}

	} else if *cmdline != "" {
		var buf bytes.Buffer

		buf.WriteString(fmt.Sprintln(*cmdline))

		// Read commands from a single line

		clt, err = termutil.AddFileReadingWrapper(clt, &buf, true)

	} else {

		// Add history functionality

		histfile := filepath.Join(filepath.Dir(os.Args[0]), ".bonsai_console_history")
		clt, err = termutil.AddHistoryMixin(clt, histfile,
			func(s string) bool {
				return isExitLine(s)
			})
	}

	if err == nil {
		var env *host.Environment

		if env, err = newEnvironment(); err != nil {
			return err
		}

		// Create the console object

		con := console.NewConsole(os.Stdout, env,
			func(args []string, exportBuf *bytes.Buffer) error {

				// Export data to a chosen file

				filename := "export.out"

				if len(args) > 0 {
					filename = args[0]
				}

				return ioutil.WriteFile(filename, exportBuf.Bytes(), 0666)
			})

		// Start the console

		if err = clt.StartTerm(); err == nil {
			var line string

			defer clt.StopTerm()

			if *cmdfile == "" && *cmdline == "" {
				fmt.Println("Type 'q' or 'quit' to exit the shell and '?' to get help")
			}

			line, err = clt.NextLine()
			for err == nil && !isExitLine(line) {

				_, cerr := con.Run(line)

				if cerr != nil {

					// Output any error

					fmt.Fprintln(clt, cerr.Error())
				}

				line, err = clt.NextLine()
			}
		}
	}

	return err
}
