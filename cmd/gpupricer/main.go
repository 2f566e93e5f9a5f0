package main

import "github.com/hostlabs/gpupricer-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
