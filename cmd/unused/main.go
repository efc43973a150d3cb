package main

import (
	"os"

	"github.com/abramin/unused/cmd/unused/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args[1:], os.Stdout, os.Stderr))
}
