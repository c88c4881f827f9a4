package storage

import (
	"database/sql"
	"fmt"

	"github.com/pable/go-hoops-metrics/internal/model"
)

// AllReports loads the full report of every stored game, ordered by name.
// Season aggregation and season export read from here.
func (db *DB) AllReports() ([]*model.GameReport, error) {
	games, err := db.ListGames()
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	out := make([]*model.GameReport, 0, len(games))
	for _, g := range games {
		r, err := db.GetGameReport(g.Hash)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// QueryRaw runs an arbitrary query and returns column names and stringified
// rows. NULL renders as an empty string.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.String
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
