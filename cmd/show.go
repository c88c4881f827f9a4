package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-hoops-metrics/internal/report"
	"github.com/pable/go-hoops-metrics/internal/storage"
)

var showFocus string

var showCmd = &cobra.Command{
	Use:   "show <hash-or-name-prefix>",
	Short: "Show a stored game's tables",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().StringVar(&showFocus, "player", "", "highlight a player in the tables")
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()
	return showGame(db, args[0], showFocus)
}

func showGame(db *storage.DB, ref, focus string) error {
	game, err := db.GetGameByPrefix(ref)
	if err != nil {
		return fmt.Errorf("query game: %w", err)
	}
	if game == nil {
		fmt.Fprintf(os.Stderr, "No game found matching %q\n", ref)
		return nil
	}
	r, err := db.GetGameReport(game.Hash)
	if err != nil {
		return fmt.Errorf("load game: %w", err)
	}
	report.PrintGameReport(os.Stdout, r, focus)
	return nil
}
