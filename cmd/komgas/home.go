package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kerbaras/komgas/pkg/source"
)

var homeCmd = &cobra.Command{
	Use:   "home",
	Short: "Show the home page sections",
	Long:  "Fetch the home sections (new, updated, on deck, keep reading) and print them as they arrive",
	Run: func(cmd *cobra.Command, args []string) {
		env, err := newEnv()
		cobra.CheckErr(err)

		err = env.source.HomeSections(cmd.Context(), func(sec source.Section) {
			if len(sec.Items) == 0 {
				fmt.Printf("%s ...\n", sec.Title)
				return
			}
			fmt.Printf("%s (%d)\n", sec.Title, len(sec.Items))
			for _, manga := range sec.Items {
				fmt.Printf("  %-50s %s\n", truncateString(manga.Title, 48), manga.ID)
			}
		})
		cobra.CheckErr(err)
	},
}

func init() {
	rootCmd.AddCommand(homeCmd)
}
