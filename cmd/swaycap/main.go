package main

import "github.com/bryanchriswhite/swaycap/cmd/swaycap/commands"

func main() {
	commands.Execute()
}
