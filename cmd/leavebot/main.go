package main

import (
	"os"

	"github.com/myslide/leavebot/cmd/leavebot/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
