package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-hoops-metrics/internal/report"
	"github.com/pable/go-hoops-metrics/internal/season"
	"github.com/pable/go-hoops-metrics/internal/storage"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("hoopsmetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("hoops")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "show":
			if rest == "" {
				cError.Fprintln(os.Stderr, "usage: show <hash-or-name-prefix>")
				continue
			}
			if err := showGame(db, rest, ""); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		case "season":
			shellSeason(db)
		case "lineup":
			if rest == "" {
				cError.Fprintln(os.Stderr, "usage: lineup <name>[,<name>...]")
				continue
			}
			shellLineup(db, rest)
		case "pair":
			a, b, ok := strings.Cut(rest, " ")
			if !ok {
				cError.Fprintln(os.Stderr, "usage: pair <player> <player>")
				continue
			}
			shellPair(db, a, strings.TrimSpace(b))
		case "sql":
			shellSQL(db, rest)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored games"},
		{"show <prefix>", "show a game's tables"},
		{"season", "season totals across every game"},
		{"lineup <name>[,<name>...]", "season lineups containing the players"},
		{"pair <player> <player>", "season plus-minus of a pair"},
		{"sql <query>", "run a raw SQL query"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-30s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) {
	games, err := db.ListGames()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(games) == 0 {
		cMuted.Println("No games stored yet.")
		return
	}
	report.PrintGameList(os.Stdout, games)
}

func shellSeason(db *storage.DB) {
	_, s, err := loadSeason(db)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintSeason(os.Stdout, s, "")
}

func shellLineup(db *storage.DB, names string) {
	_, s, err := loadSeason(db)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	found, err := season.SearchLineups(s.Lineups, season.LineupQuery{Players: season.SplitNames(names)}, cfg.Thresholds.Search)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(found) == 0 {
		cMuted.Println("(no lineups)")
		return
	}
	report.PrintSeasonLineups(os.Stdout, found)
}

func shellPair(db *storage.DB, a, b string) {
	_, s, err := loadSeason(db)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	found := season.SearchPairs(s.Pairs, a, b, cfg.Thresholds.Search)
	if len(found) == 0 {
		cMuted.Println("(no pairs)")
		return
	}
	cHeader.Fprintf(os.Stdout, "\n--- %s + %s ---\n", strings.ToUpper(a), strings.ToUpper(b))
	report.PrintPairTable(os.Stdout, found, "")
}

func shellSQL(db *storage.DB, query string) {
	if query == "" {
		cError.Fprintln(os.Stderr, "usage: sql <query>")
		return
	}
	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(rows) == 0 {
		cMuted.Println("(no rows)")
		return
	}
	report.PrintRaw(os.Stdout, cols, rows)
}
