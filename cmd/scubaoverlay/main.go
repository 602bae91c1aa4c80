package main

import "scubaoverlay/internal/cli"

func main() {
	cli.Execute()
}
