package main

import "tinysh/internal/cli"

func main() {
	cli.Execute()
}
