package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/zoomport/internal/store"
	"github.com/zjrosen/zoomport/internal/ui/styles"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent import runs",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "maximum runs to show (0 = all)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	dbPath, err := statePath()
	if err != nil {
		return err
	}
	db, err := store.NewDB(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	runs, err := db.Runs().List(historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, rec := range runs {
		rows = append(rows, []string{
			rec.CreatedAt.Format("2006-01-02 15:04"),
			rec.Root,
			strconv.Itoa(rec.Folders),
			strconv.Itoa(rec.Items),
			styles.FormatSeconds(rec.TotalLength),
			rec.Elapsed.Round(time.Millisecond).String(),
		})
	}
	fmt.Fprint(out, styles.Table([]string{"WHEN", "ROOT", "FOLDERS", "ITEMS", "LENGTH", "TOOK"}, rows))
	return nil
}
