package main

import "github.com/notargets/gobedform/cmd"

func main() {
	cmd.Execute()
}
