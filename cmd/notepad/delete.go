package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [number|id]",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService()
		defer svc.Close()

		if err := deleteNote(context.Background(), svc, os.Stdout, args[0]); err != nil {
			fatal("Error deleting note", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
