package main

import "stanctl/internal/cli"

func main() {
	cli.Execute()
}
