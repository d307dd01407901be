package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent uploads from the local history database",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := newHistoryFunc(viper.GetString("history_path"))
			if err != nil {
				return fmt.Errorf("failed to open history store: %w", err)
			}
			defer store.Close()

			uploads, err := store.Recent(limit)
			if err != nil {
				return err
			}
			if len(uploads) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No uploads recorded.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "UPLOADED\tRUN ID\tPOINTS\tSOURCE")
			for _, u := range uploads {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
					u.UploadedAt.UTC().Format(time.RFC3339), shortID(u.RunID), u.Points, u.Source)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of uploads to show")
	return cmd
}
