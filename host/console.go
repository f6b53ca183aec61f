/*
 * Bonsai
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package host

import (
	"fmt"
	"sync"

	"devt.de/krotik/bonsai/value"
	"devt.de/krotik/ecal/util"
)

/*
ConsoleLog is the name of the console sink in the default environment
*/
const ConsoleLog = "console.log"

/*
Console is a callable sink which writes its argument to a logger and keeps
a history of all written values.
*/
type Console struct {
	logger  util.Logger
	history []value.Value
	lock    *sync.Mutex
}

/*
NewConsole creates a new Console object. If no logger is given then
output is only recorded in the history.
*/
func NewConsole(logger util.Logger) *Console {
	if logger == nil {
		logger = util.NewNullLogger()
	}
	return &Console{logger, nil, &sync.Mutex{}}
}

/*
Name returns the name of the console sink.
*/
func (c *Console) Name() string {
	return ConsoleLog
}

/*
Arity returns the number of expected arguments.
*/
func (c *Console) Arity() int {
	return 1
}

/*
Call writes a value to the console. Returns null.
*/
func (c *Console) Call(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Null(), fmt.Errorf("%v requires exactly 1 argument", ConsoleLog)
	}

	c.lock.Lock()
	c.history = append(c.history, args[0])
	c.lock.Unlock()

	c.logger.LogInfo(args[0].String())

	return value.Null(), nil
}

/*
History returns all values which were written to the console.
*/
func (c *Console) History() []value.Value {
	c.lock.Lock()
	defer c.lock.Unlock()

	return append([]value.Value(nil), c.history...)
}

/*
Reset clears the history of the console.
*/
func (c *Console) Reset() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.history = nil
}
