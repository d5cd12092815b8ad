package main

import "github.com/LilVoxy/flowmap/cmd/flowmap-cli/commands"

func main() {
	commands.Execute()
}
