package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"eco-service/internal/app"
	"eco-service/internal/leaderboard"
	"eco-service/internal/service/repository"
)

func newLeaderboardCmd() *cobra.Command {
	var (
		limit     int
		timeFrame string
	)

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Rank users straight from the configured store",
		Long: "Reads STORAGE_DRIVER, DATABASE_DSN and the MONGO_* variables (or a .env file) " +
			"the same way the service does and prints the ranked leaderboard.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			_ = godotenv.Load()
			cfg, err := app.NewConfigFromEnv()
			if err != nil {
				return errors.Wrap(err, "can't create new config")
			}
			if !cmd.Flags().Changed("limit") {
				limit = cfg.LeaderboardLimit
			}
			if limit < 0 {
				return errors.New("--limit must not be negative")
			}
			frame, err := leaderboard.ParseTimeFrame(timeFrame)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.StorageTimeout)
			defer cancel()

			repo, err := repository.Open(ctx, cfg.Storage())
			if err != nil {
				return err
			}
			defer func() {
				err = multierr.Append(err, repo.Close())
			}()

			summaries, err := repo.Summaries(ctx, frame.Since(time.Now().UTC()))
			if err != nil {
				return err
			}
			return printBoard(cmd.OutOrStdout(), leaderboard.Rank(summaries, limit))
		},
	}

	cmd.Flags().IntVar(&limit, "limit", leaderboard.DefaultLimit, "number of entries, 0 for all")
	cmd.Flags().StringVar(&timeFrame, "time-frame", "all", "all, week or month")
	return cmd
}

func printBoard(w io.Writer, board leaderboard.Board) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tUSER\tBEST\tLATEST\tCATEGORY\tATTEMPTS\tAVERAGE\tUPDATED")
	for _, e := range board.Entries {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\t%d\t%.1f\t%s\n",
			e.Rank, e.UserID, e.BestScore, e.LatestScore, e.Category,
			e.TotalAttempts, e.AverageScore, e.LastUpdated.Format(time.RFC3339))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d users\n", board.TotalUsers)
	return err
}
