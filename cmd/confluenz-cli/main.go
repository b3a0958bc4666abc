package main

import "confluenz/cmd/confluenz-cli/cmd"

func main() {
	cmd.Execute()
}
