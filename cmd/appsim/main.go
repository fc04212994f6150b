// appsim CLI entry point.
package main

import "github.com/appsim/appsim/pkg/cli"

func main() {
	cli.Execute()
}
