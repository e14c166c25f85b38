package main

import "github.com/gitter-badger/goby/cmd/goby/cmd"

func main() {
	cmd.Execute()
}
