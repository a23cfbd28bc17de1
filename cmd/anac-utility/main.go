package main

import "github.com/andrescamacho/anac-utility-go/internal/adapters/cli"

func main() {
	cli.Execute()
}
