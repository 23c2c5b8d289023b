package cmd

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters [series-id]",
	Short: "List the chapters of a series",
	Long:  "Display every ready chapter of a series with its read state",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		env, err := newEnv()
		cobra.CheckErr(err)

		chapters, err := env.source.GetChapters(cmd.Context(), args[0])
		cobra.CheckErr(err)

		if len(chapters) == 0 {
			fmt.Println("No chapters found.")
			return
		}

		columns := []table.Column{
			{Title: "Number", Width: 8},
			{Title: "Title", Width: 40},
			{Title: "Pages", Width: 6},
			{Title: "Read", Width: 5},
			{Title: "ID", Width: 26},
		}

		rows := []table.Row{}
		for _, ch := range chapters {
			read := ""
			if ch.Read {
				read = "✓"
			}
			rows = append(rows, table.Row{
				fmt.Sprintf("%g", ch.Number),
				truncateString(ch.Title, 38),
				fmt.Sprintf("%d", ch.PagesCount),
				read,
				ch.ID,
			})
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithFocused(false),
			table.WithHeight(len(rows)),
		)

		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
		t.SetStyles(s)

		fmt.Printf("\n%d chapters\n\n", len(chapters))
		fmt.Println(t.View())
	},
}

func init() {
	rootCmd.AddCommand(chaptersCmd)
}
