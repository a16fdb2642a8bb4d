package main

import "charmi-backend/cmd/charmictl/commands"

func main() {
	commands.Execute()
}
