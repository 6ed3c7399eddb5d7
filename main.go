package main

import "vahan-rc-bot/cmd"

func main() {
	cmd.Execute()
}
