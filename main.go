package main

import "github.com/hume-connect/intake/cmd"

func main() {
	cmd.Execute()
}
