package storage

import (
	"database/sql"
	"fmt"
	"math"
	"strings"

	"github.com/pable/go-hoops-metrics/internal/model"
)

const warningSep = "\n"

// GameExists returns true if a game with the given file hash is already stored.
func (db *DB) GameExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM games WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertGame stores a game and all of its derived tables in one transaction.
// Re-inserting the same hash replaces the previous rows.
func (db *DB) InsertGame(r *model.GameReport) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	hash := r.Summary.Hash
	for _, table := range childTables {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE game_hash = ?", hash); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	s := r.Summary
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO games(hash, name, match_date, home_name, visitor_name,
			tracked_is_home, final_lead, events, starters, warnings, run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Hash, s.Name, s.Date, s.HomeName, s.VisitorName,
		boolInt(s.TrackedIsHome), s.FinalLead, s.Events,
		strings.Join(r.Starters, model.LineupSep), strings.Join(r.Warnings, warningSep), s.RunID,
	)
	if err != nil {
		return fmt.Errorf("insert game %s: %w", s.Name, err)
	}

	if err := execEach(tx, `INSERT INTO player_plus_minus(game_hash, player, plus_minus) VALUES (?,?,?)`,
		len(r.PlusMinus), func(i int) []any {
			p := r.PlusMinus[i]
			return []any{hash, p.Player, p.PlusMinus}
		}); err != nil {
		return fmt.Errorf("insert player_plus_minus: %w", err)
	}

	if err := execEach(tx, `INSERT INTO lineup_totals(game_hash, lineup, plus_minus, seconds, stints) VALUES (?,?,?,?,?)`,
		len(r.Lineups), func(i int) []any {
			l := r.Lineups[i]
			return []any{hash, l.Lineup.String(), l.PlusMinus, l.Seconds, l.Stints}
		}); err != nil {
		return fmt.Errorf("insert lineup_totals: %w", err)
	}

	if err := execEach(tx, `
		INSERT INTO lineup_stints(game_hash, seq, lineup, half, period, start_clock, end_clock,
			start_lead, end_lead, lead_delta, seconds, per_minute, per25)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		len(r.Stints), func(i int) []any {
			st := r.Stints[i]
			perMin, per25 := math.NaN(), math.NaN()
			if i < len(r.Rates) {
				perMin, per25 = r.Rates[i].PerMinute, r.Rates[i].Per25
			}
			return []any{hash, i, st.Lineup.String(), int(st.Half), st.Period, st.StartClock, st.EndClock,
				st.StartLead, st.EndLead, st.LeadDelta, st.ElapsedSeconds, nullFloat(perMin), nullFloat(per25)}
		}); err != nil {
		return fmt.Errorf("insert lineup_stints: %w", err)
	}

	if err := execEach(tx, `INSERT INTO lineup_merged(game_hash, lineup, per_minute, per25, seconds, occurrences) VALUES (?,?,?,?,?,?)`,
		len(r.Merged), func(i int) []any {
			m := r.Merged[i]
			return []any{hash, m.Lineup.String(), nullFloat(m.PerMinute), nullFloat(m.Per25), m.Seconds, m.Occurrences}
		}); err != nil {
		return fmt.Errorf("insert lineup_merged: %w", err)
	}

	if err := execEach(tx, `INSERT INTO pair_totals(game_hash, player1, player2, plus_minus) VALUES (?,?,?,?)`,
		len(r.Pairs), func(i int) []any {
			p := r.Pairs[i]
			return []any{hash, p.Player1, p.Player2, p.PlusMinus}
		}); err != nil {
		return fmt.Errorf("insert pair_totals: %w", err)
	}

	if err := execEach(tx, `
		INSERT INTO box_scores(game_hash, seq, team, number, player, minutes,
			fgm, fga, fg3m, fg3a, ftm, fta, oreb, dreb, reb, ast, stl, blk, turnovers, pf, pts)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		len(r.BoxScore), func(i int) []any {
			b := r.BoxScore[i]
			return []any{hash, i, b.Team, b.Number, b.Player, b.Minutes,
				b.FGM, b.FGA, b.FG3M, b.FG3A, b.FTM, b.FTA, b.OREB, b.DREB, b.REB,
				b.AST, b.STL, b.BLK, b.TO, b.PF, b.PTS}
		}); err != nil {
		return fmt.Errorf("insert box_scores: %w", err)
	}

	if err := execEach(tx, `
		INSERT INTO four_factors(game_hash, seq, team, player, oreb_pct, tov_pct, efg_pct, ftr)
		VALUES (?,?,?,?,?,?,?,?)`,
		len(r.FourFactors), func(i int) []any {
			f := r.FourFactors[i]
			return []any{hash, i, f.Team, f.Player, f.OREBPct, f.TOVPct, f.EFGPct, f.FTR}
		}); err != nil {
		return fmt.Errorf("insert four_factors: %w", err)
	}

	return tx.Commit()
}

var childTables = []string{
	"player_plus_minus", "lineup_totals", "lineup_stints", "lineup_merged",
	"pair_totals", "box_scores", "four_factors",
}

// execEach prepares query once and executes it n times with args(i).
func execEach(tx *sql.Tx, query string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}
	stmt, err := tx.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i := 0; i < n; i++ {
		if _, err := stmt.Exec(args(i)...); err != nil {
			return err
		}
	}
	return nil
}

const summaryColumns = `hash, name, match_date, home_name, visitor_name, tracked_is_home, final_lead, events, run_id`

func scanSummary(row interface{ Scan(...any) error }) (model.GameSummary, error) {
	var s model.GameSummary
	var home int
	err := row.Scan(&s.Hash, &s.Name, &s.Date, &s.HomeName, &s.VisitorName, &home, &s.FinalLead, &s.Events, &s.RunID)
	s.TrackedIsHome = home != 0
	return s, err
}

// ListGames returns all stored games ordered by name.
func (db *DB) ListGames() ([]model.GameSummary, error) {
	rows, err := db.conn.Query(`SELECT ` + summaryColumns + ` FROM games ORDER BY name, hash`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.GameSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetGameByPrefix finds a game whose hash or name starts with ref. Hash
// matches win over name matches. Returns nil when nothing matches.
func (db *DB) GetGameByPrefix(ref string) (*model.GameSummary, error) {
	like := likePrefix(ref)
	s, err := scanSummary(db.conn.QueryRow(`
		SELECT `+summaryColumns+` FROM games
		WHERE hash LIKE ? ESCAPE '\' OR name LIKE ? ESCAPE '\'
		ORDER BY (hash LIKE ? ESCAPE '\') DESC, name
		LIMIT 1`, like, like, like))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePrefix turns ref into a LIKE prefix pattern that matches ref literally.
func likePrefix(ref string) string {
	return likeEscaper.Replace(ref) + "%"
}

// GetGameReport loads every stored table of one game.
func (db *DB) GetGameReport(hash string) (*model.GameReport, error) {
	var starters, warnings string
	row := db.conn.QueryRow(`SELECT `+summaryColumns+`, starters, warnings FROM games WHERE hash = ?`, hash)
	var s model.GameSummary
	var home int
	err := row.Scan(&s.Hash, &s.Name, &s.Date, &s.HomeName, &s.VisitorName, &home, &s.FinalLead, &s.Events, &s.RunID,
		&starters, &warnings)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, hash)
	}
	if err != nil {
		return nil, err
	}
	s.TrackedIsHome = home != 0

	r := &model.GameReport{Summary: s}
	if starters != "" {
		r.Starters = strings.Split(starters, model.LineupSep)
	}
	if warnings != "" {
		r.Warnings = strings.Split(warnings, warningSep)
	}
	game := s.Name

	if r.PlusMinus, err = db.playerPlusMinus(hash, game); err != nil {
		return nil, fmt.Errorf("get player_plus_minus: %w", err)
	}
	if r.Lineups, err = db.lineupTotals(hash, game); err != nil {
		return nil, fmt.Errorf("get lineup_totals: %w", err)
	}
	if r.Stints, r.Rates, err = db.lineupStints(hash, game); err != nil {
		return nil, fmt.Errorf("get lineup_stints: %w", err)
	}
	if r.Merged, err = db.lineupMerged(hash, game); err != nil {
		return nil, fmt.Errorf("get lineup_merged: %w", err)
	}
	if r.Pairs, err = db.pairTotals(hash, game); err != nil {
		return nil, fmt.Errorf("get pair_totals: %w", err)
	}
	if r.BoxScore, err = db.boxScores(hash); err != nil {
		return nil, fmt.Errorf("get box_scores: %w", err)
	}
	if r.FourFactors, err = db.fourFactors(hash, game); err != nil {
		return nil, fmt.Errorf("get four_factors: %w", err)
	}
	return r, nil
}

func (db *DB) playerPlusMinus(hash, game string) ([]model.PlayerPlusMinus, error) {
	rows, err := db.conn.Query(`
		SELECT player, plus_minus FROM player_plus_minus WHERE game_hash = ?
		ORDER BY plus_minus DESC, player`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerPlusMinus
	for rows.Next() {
		p := model.PlayerPlusMinus{Game: game}
		if err := rows.Scan(&p.Player, &p.PlusMinus); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (db *DB) lineupTotals(hash, game string) ([]model.LineupTotal, error) {
	rows, err := db.conn.Query(`
		SELECT lineup, plus_minus, seconds, stints FROM lineup_totals WHERE game_hash = ?
		ORDER BY plus_minus DESC, lineup`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LineupTotal
	for rows.Next() {
		l := model.LineupTotal{Game: game}
		var lineup string
		if err := rows.Scan(&lineup, &l.PlusMinus, &l.Seconds, &l.Stints); err != nil {
			return nil, err
		}
		if l.Lineup, err = model.ParseLineup(lineup); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (db *DB) lineupStints(hash, game string) ([]model.Stint, []model.LineupRate, error) {
	rows, err := db.conn.Query(`
		SELECT lineup, half, period, start_clock, end_clock, start_lead, end_lead,
		       lead_delta, seconds, per_minute, per25
		FROM lineup_stints WHERE game_hash = ? ORDER BY seq`, hash)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var stints []model.Stint
	var rates []model.LineupRate
	for rows.Next() {
		var st model.Stint
		var lineup string
		var half int
		var perMin, per25 sql.NullFloat64
		if err := rows.Scan(&lineup, &half, &st.Period, &st.StartClock, &st.EndClock,
			&st.StartLead, &st.EndLead, &st.LeadDelta, &st.ElapsedSeconds, &perMin, &per25); err != nil {
			return nil, nil, err
		}
		if st.Lineup, err = model.ParseLineup(lineup); err != nil {
			return nil, nil, err
		}
		st.Half = model.Half(half)
		stints = append(stints, st)
		rates = append(rates, model.LineupRate{
			Game:       game,
			Lineup:     st.Lineup,
			Half:       st.Half,
			StartClock: st.StartClock,
			EndClock:   st.EndClock,
			PlusMinus:  st.LeadDelta,
			Seconds:    st.ElapsedSeconds,
			PerMinute:  fromNull(perMin),
			Per25:      fromNull(per25),
		})
	}
	return stints, rates, rows.Err()
}

func (db *DB) lineupMerged(hash, game string) ([]model.MergedLineup, error) {
	rows, err := db.conn.Query(`
		SELECT lineup, per_minute, per25, seconds, occurrences FROM lineup_merged
		WHERE game_hash = ? ORDER BY lineup`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MergedLineup
	for rows.Next() {
		m := model.MergedLineup{Game: game}
		var lineup string
		var perMin, per25 sql.NullFloat64
		if err := rows.Scan(&lineup, &perMin, &per25, &m.Seconds, &m.Occurrences); err != nil {
			return nil, err
		}
		if m.Lineup, err = model.ParseLineup(lineup); err != nil {
			return nil, err
		}
		m.PerMinute, m.Per25 = fromNull(perMin), fromNull(per25)
		out = append(out, m)
	}
	return out, rows.Err()
}

func (db *DB) pairTotals(hash, game string) ([]model.PairTotal, error) {
	rows, err := db.conn.Query(`
		SELECT player1, player2, plus_minus FROM pair_totals WHERE game_hash = ?
		ORDER BY plus_minus DESC, player1, player2`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PairTotal
	for rows.Next() {
		p := model.PairTotal{Game: game}
		if err := rows.Scan(&p.Player1, &p.Player2, &p.PlusMinus); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (db *DB) boxScores(hash string) ([]model.BoxScoreRow, error) {
	rows, err := db.conn.Query(`
		SELECT team, number, player, minutes, fgm, fga, fg3m, fg3a, ftm, fta,
		       oreb, dreb, reb, ast, stl, blk, turnovers, pf, pts
		FROM box_scores WHERE game_hash = ? ORDER BY seq`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BoxScoreRow
	for rows.Next() {
		var b model.BoxScoreRow
		if err := rows.Scan(&b.Team, &b.Number, &b.Player, &b.Minutes,
			&b.FGM, &b.FGA, &b.FG3M, &b.FG3A, &b.FTM, &b.FTA,
			&b.OREB, &b.DREB, &b.REB, &b.AST, &b.STL, &b.BLK, &b.TO, &b.PF, &b.PTS); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (db *DB) fourFactors(hash, game string) ([]model.FourFactors, error) {
	rows, err := db.conn.Query(`
		SELECT team, player, oreb_pct, tov_pct, efg_pct, ftr
		FROM four_factors WHERE game_hash = ? ORDER BY seq`, hash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.FourFactors
	for rows.Next() {
		f := model.FourFactors{Game: game}
		if err := rows.Scan(&f.Team, &f.Player, &f.OREBPct, &f.TOVPct, &f.EFGPct, &f.FTR); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// DeleteGame removes a game and its derived rows.
func (db *DB) DeleteGame(hash string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range childTables {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE game_hash = ?", hash); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	res, err := tx.Exec("DELETE FROM games WHERE hash = ?", hash)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrGameNotFound, hash)
	}
	return tx.Commit()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullFloat stores missing rates as NULL.
func nullFloat(v float64) any {
	if model.IsMissing(v) {
		return nil
	}
	return v
}

func fromNull(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
