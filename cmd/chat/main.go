package main

import "cipherchat/cmd/chat/commands"

func main() {
	commands.Execute()
}
