package main

import "allogator/cmd"

func main() {
	cmd.Execute()
}
