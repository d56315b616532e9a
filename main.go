// SPDX-License-Identifier: MPL-2.0

// Command modsurface inspects the export surface of script modules.
package main

import cmd "github.com/invowk/modsurface/cmd/modsurface"

func main() {
	cmd.Execute()
}
