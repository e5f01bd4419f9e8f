package main

import "github.com/aurum-network/aurum/internal/cli"

func main() {
	cli.Execute()
}
