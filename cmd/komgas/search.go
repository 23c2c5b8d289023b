package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kerbaras/komgas/pkg/source"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for series",
	Long:  "Search the Komga server for series and display results in a table",
	Run: func(cmd *cobra.Command, args []string) {
		query := strings.Join(args, " ")
		tags, _ := cmd.Flags().GetStringArray("tag")
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("size")

		env, err := newEnv()
		cobra.CheckErr(err)

		result, err := env.source.Search(cmd.Context(), source.Query{Term: query, IncludeTags: tags}, page, size)
		cobra.CheckErr(err)

		if len(result.Items) == 0 {
			fmt.Println("No results found.")
			return
		}

		var (
			purple = lipgloss.Color("99")

			headerStyle = lipgloss.NewStyle().Foreground(purple).Bold(true).Align(lipgloss.Center)
			cellStyle   = lipgloss.NewStyle().Padding(0, 1)
		)

		t := table.New().
			Border(lipgloss.HiddenBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(purple)).
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return headerStyle
				default:
					return cellStyle
				}
			}).
			Headers("#", "Title", "Status", "ID")

		for i, manga := range result.Items {
			t.Row(fmt.Sprintf("%d", i+1), truncateString(manga.Title, 48), manga.Status, manga.ID)
		}

		fmt.Println(t)

		if result.NextPage != nil {
			fmt.Printf("More results: --page %d\n", *result.NextPage)
		}
	},
}

func init() {
	searchCmd.Flags().StringArrayP("tag", "t", nil, "Filter by composite tag id (e.g. genre-Action)")
	searchCmd.Flags().Int("page", 0, "Result page to fetch")
	searchCmd.Flags().Int("size", 20, "Results per page")

	rootCmd.AddCommand(searchCmd)
}
