package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit [number|id] [text...]",
	Short: "Replace the content of a note",
	Long:  `Edit replaces the content of the note given by its list number or id. The note keeps its position.`,
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService()
		defer svc.Close()

		if err := editNote(context.Background(), svc, os.Stdout, args[0], joinText(args[1:])); err != nil {
			fatal("Error editing note", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
