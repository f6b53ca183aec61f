/*
 * Bonsai
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package ast

import "devt.de/krotik/common/stringutil"

/*
FreeVariables returns the names of all unresolved parameters of a tree in
order of their first occurrence. The host must supply a binding for each
returned name before the tree can be evaluated.
*/
func FreeVariables(root Node) []string {
	names := make([]string, 0)

	Walk(root, func(n Node) {
		if p, ok := n.(*Parameter); ok && !p.Resolved {
			if stringutil.IndexOf(p.Name, names) == -1 {
				names = append(names, p.Name)
			}
		}
	})

	return names
}
