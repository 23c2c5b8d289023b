package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kerbaras/komgas/pkg/data"
	"github.com/kerbaras/komgas/pkg/tracker"
)

// openQueue opens the local action queue database under ~/.komgas.
func openQueue() (*data.QueueStore, func(), error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil, err
	}
	db, err := data.InitDuckDB(filepath.Join(home, ".komgas", "queue.db"))
	if err != nil {
		return nil, nil, err
	}
	return data.NewQueueStore(db), func() { db.Close() }, nil
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Submit queued read actions",
	Long:  "Drain the local queue of pending read actions. Actions the server was unreachable for stay queued for the next run.",
	Run: func(cmd *cobra.Command, args []string) {
		env, err := newEnv()
		cobra.CheckErr(err)

		store, done, err := openQueue()
		cobra.CheckErr(err)
		defer done()

		actions, err := store.List()
		cobra.CheckErr(err)

		if len(actions) == 0 {
			fmt.Println("Nothing to sync.")
			return
		}

		results := env.tracker.ProcessQueue(cmd.Context(), actions)

		var submitted, deferred, failed int
		for _, result := range results {
			switch result.Disposition {
			case tracker.ActionDone:
				cobra.CheckErr(store.Delete(result.Action.ID))
				submitted++
			case tracker.ActionRetry:
				cobra.CheckErr(store.Bump(result.Action.ID))
				deferred++
			case tracker.ActionFail:
				cobra.CheckErr(store.Delete(result.Action.ID))
				fmt.Printf("dropped action for book %s: %v\n", result.Action.BookID, result.Err)
				failed++
			}
		}

		fmt.Printf("%d submitted, %d deferred, %d failed\n", submitted, deferred, failed)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
