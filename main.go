package main

import "github.com/msomdec/rolecall/cmd"

func main() {
	cmd.Execute()
}
