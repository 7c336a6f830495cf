package main

import "github.com/djcass44/aptprep/cmd"

var version = "dev"

func main() {
	cmd.Execute(version)
}
