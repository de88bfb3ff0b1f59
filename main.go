package main

import (
	"fmt"
	"os"

	"github.com/babarot/minibin/internal/cli"
)

const appName = "minibin"

var (
	version  = "unset"
	revision = "unset"
	date     = "unset"
)

func main() {
	v := cli.Version{
		AppName:   appName,
		Version:   version,
		Revision:  revision,
		BuildDate: date,
	}
	if err := cli.Run(v); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}
