package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the available search filters",
	Long:  "Display the genre, tag, collection and library filters the server offers",
	Run: func(cmd *cobra.Command, args []string) {
		env, err := newEnv()
		cobra.CheckErr(err)

		sections, err := env.source.TagCatalog(cmd.Context())
		cobra.CheckErr(err)

		for _, section := range sections {
			fmt.Printf("%s\n", section.Label)
			for _, tag := range section.Tags {
				fmt.Printf("  %-30s %s\n", tag.Label, tag.ID)
			}
			fmt.Println()
		}
	},
}

func init() {
	rootCmd.AddCommand(tagsCmd)
}
