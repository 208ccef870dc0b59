package main

import "github.com/notargets/meshclean/cmd"

func main() {
	cmd.Execute()
}
