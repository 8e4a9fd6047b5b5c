package main

import "github.com/aweris/vtree/cmd/vtree/cmd"

func main() {
	cmd.Execute()
}
