// cmd/hec/main.go
package main

import (
	"github.com/UCREL/HEC/internal/cli"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	setVersionInfo = cli.SetVersionInfo
	executeCmd     = cli.Execute
)

// main starts the hec CLI by delegating to the cobra root command.
func main() {
	setVersionInfo(version, commit, date)
	executeCmd()
}
