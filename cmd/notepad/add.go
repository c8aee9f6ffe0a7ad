package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [text...]",
	Short: "Add a note to the end of the list",
	Long:  `Add joins its arguments with spaces and appends the result as a new note. Blank text is ignored.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService()
		defer svc.Close()

		if err := addNote(context.Background(), svc, os.Stdout, joinText(args)); err != nil {
			fatal("Error adding note", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
