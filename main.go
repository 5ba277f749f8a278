package main

import "github.com/timvw/fcshctl/cmd"

func main() {
	cmd.Execute()
}
