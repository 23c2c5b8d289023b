package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pagesCmd = &cobra.Command{
	Use:   "pages [series-id] [chapter-id]",
	Short: "List the page URLs of a chapter",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		env, err := newEnv()
		cobra.CheckErr(err)

		pages, err := env.source.GetPages(cmd.Context(), args[0], args[1])
		cobra.CheckErr(err)

		for _, page := range pages {
			fmt.Printf("%3d  %s\n", page.Index, page.URL)
		}
	},
}

func init() {
	rootCmd.AddCommand(pagesCmd)
}
