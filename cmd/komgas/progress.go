package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kerbaras/komgas/pkg/data"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Inspect or change read progress",
}

var progressShowCmd = &cobra.Command{
	Use:   "show [series-id]",
	Short: "Show the read progress of a series",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		env, err := newEnv()
		cobra.CheckErr(err)

		form, err := env.tracker.ProgressForm(cmd.Context(), args[0])
		cobra.CheckErr(err)

		for _, entry := range form.Entries {
			mark := " "
			if entry.Read {
				mark = "✓"
			}
			fmt.Printf("[%s] %6g  %s\n", mark, entry.SortKey, entry.Label)
		}

		progress, err := env.tracker.Progress(cmd.Context(), args[0])
		cobra.CheckErr(err)
		fmt.Printf("\n%d/%d read, last read chapter %g\n", progress.ReadCount, progress.Total, progress.LastRead)
	},
}

var progressSetCmd = &cobra.Command{
	Use:   "set [series-id] [chapter-number]",
	Short: "Mark everything up to a chapter as read",
	Long:  "Mark every chapter whose sort number is at or below the target as read. With --queue the mutations are stored locally and submitted by 'komgas sync'.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		target, err := strconv.ParseFloat(args[1], 64)
		cobra.CheckErr(err)
		queue, _ := cmd.Flags().GetBool("queue")
		resync, _ := cmd.Flags().GetBool("resync")

		env, err := newEnv()
		cobra.CheckErr(err)

		if queue {
			cobra.CheckErr(enqueueProgress(cmd, env, args[0], target))
			return
		}

		if resync {
			err = env.tracker.ResyncSeries(cmd.Context(), args[0], target)
		} else {
			err = env.tracker.SetProgress(cmd.Context(), args[0], target)
		}
		cobra.CheckErr(err)
		fmt.Println("Progress updated.")
	},
}

func enqueueProgress(cmd *cobra.Command, env *env, seriesID string, target float64) error {
	form, err := env.tracker.ProgressForm(cmd.Context(), seriesID)
	if err != nil {
		return err
	}

	store, done, err := openQueue()
	if err != nil {
		return err
	}
	defer done()

	queued := 0
	for _, entry := range form.Entries {
		if entry.SortKey > target || entry.Read {
			continue
		}
		action := data.ReadAction{SeriesID: seriesID, BookID: entry.BookID, Completed: true}
		if err := store.Enqueue(&action); err != nil {
			return err
		}
		queued++
	}
	fmt.Printf("Queued %d read actions. Run 'komgas sync' to submit them.\n", queued)
	return nil
}

var progressClearCmd = &cobra.Command{
	Use:   "clear [series-id]",
	Short: "Delete all read progress of a series",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		env, err := newEnv()
		cobra.CheckErr(err)
		cobra.CheckErr(env.tracker.ClearProgress(cmd.Context(), args[0]))
		fmt.Println("Progress cleared.")
	},
}

func init() {
	progressSetCmd.Flags().Bool("queue", false, "Queue the mutations locally instead of submitting now")
	progressSetCmd.Flags().Bool("resync", false, "Also mark chapters above the target as unread")

	progressCmd.AddCommand(progressShowCmd)
	progressCmd.AddCommand(progressSetCmd)
	progressCmd.AddCommand(progressClearCmd)
	rootCmd.AddCommand(progressCmd)
}
