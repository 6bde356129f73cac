package main

import "github.com/c12i/scaffolding/cmd"

func main() {
	cmd.Execute()
}
