package main

import (
	"fmt"

	"github.com/spf13/cobra"

	awsprov "github.com/mizutama/alarmsync/providers/aws"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List supported resource kinds",
	Run: func(cmd *cobra.Command, args []string) {
		for _, kind := range awsprov.Kinds() {
			fmt.Println(kind)
		}
	},
}

func init() {
	rootCmd.AddCommand(kindsCmd)
}
