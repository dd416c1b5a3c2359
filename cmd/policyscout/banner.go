package main

import (
	"github.com/projectdiscovery/gologger"
	updateutils "github.com/projectdiscovery/utils/update"
)

const banner = `
    ____       ___            ____             __
   / __ \____  / (_)______  __/ __/___ __________/ /_
  / /_/ / __ \/ / / ___/ / / / /_/ __ '/ ___/ ___/ __ \
 / ____/ /_/ / / / /__/ /_/ / __/ /_/ / /__/ /__/ /_/ /
/_/    \____/_/_/\___/\__, /_/  \__,_/\___/\___/\____/
                      /____/
`

// ToolName identifies this binary in version and update checks.
const ToolName = `policyscout`

const version = `v1.0.0`

// showBanner prints the ASCII banner once at startup, unless silenced.
func showBanner() {
	gologger.Print().Msgf("%s\n", banner)
	gologger.Print().Msgf("                 carl scores what the crawlers can't tell apart\n\n")
}

// GetUpdateCallback returns a callback that prints the banner and runs
// the update check. No flag registered in ParseOptions invokes it.
func GetUpdateCallback() func() {
	return func() {
		showBanner()
		updateutils.GetUpdateToolCallback(ToolName, version)()
	}
}
