package main

import "github.com/docsage-labs/docsage-cli/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
