package main

import "github.com/opengrasp/handctl/cmd/handctl/cmd"

func main() {
	cmd.Execute()
}
