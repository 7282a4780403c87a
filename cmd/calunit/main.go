package main

import "calunit/internal/cli"

func main() {
	cli.Execute()
}
