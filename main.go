package main

import "github.com/user/regnav/cmd"

func main() {
	cmd.Execute()
}
