package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the murxla release string, overridable at link time via
// -ldflags "-X main.Version=...".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the murxla version",
	Run: func(*cobra.Command, []string) {
		fmt.Println("murxla", Version)
	},
}
