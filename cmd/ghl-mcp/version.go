package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/basicmachines/highlevel-mcp/mcp"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the server version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("ghl-mcp", mcp.Version)
	},
}
