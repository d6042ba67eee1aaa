package main

import "github.com/dragsbruh/notfoundgen/cmd"

func main() {
	cmd.Execute()
}
