package club

import (
	"math"
	"sort"
)

const (
	pointsWin = 2
	pointsTie = 1
)

// SortPointsTable orders entries by points, then net run rate, both descending.
// Team name breaks remaining ties so the order is stable across calls.
func SortPointsTable(entries []PointsTableEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.NetRunRate != b.NetRunRate {
			return a.NetRunRate > b.NetRunRate
		}
		return a.Team.Name < b.Team.Name
	})
}

// BuildPointsTable derives the standings of the given teams from completed matches.
func BuildPointsTable(teams []TeamRef, matches []TournamentMatch) []PointsTableEntry {
	type tally struct {
		entry        PointsTableEntry
		scored, lost int
	}
	byTeam := make(map[int64]*tally, len(teams))
	order := make([]int64, 0, len(teams))
	for _, t := range teams {
		byTeam[t.ID] = &tally{entry: PointsTableEntry{Team: t}}
		order = append(order, t.ID)
	}

	for _, m := range matches {
		if !m.IsCompleted {
			continue
		}
		t1, ok1 := byTeam[m.Team1.ID]
		t2, ok2 := byTeam[m.Team2.ID]
		if !ok1 || !ok2 {
			continue
		}
		t1.entry.Played++
		t2.entry.Played++
		t1.scored += m.ScoreTeam1
		t1.lost += m.ScoreTeam2
		t2.scored += m.ScoreTeam2
		t2.lost += m.ScoreTeam1
		switch {
		case m.ScoreTeam1 > m.ScoreTeam2:
			t1.entry.Won++
			t1.entry.Points += pointsWin
			t2.entry.Lost++
		case m.ScoreTeam2 > m.ScoreTeam1:
			t2.entry.Won++
			t2.entry.Points += pointsWin
			t1.entry.Lost++
		default:
			t1.entry.Tied++
			t2.entry.Tied++
			t1.entry.Points += pointsTie
			t2.entry.Points += pointsTie
		}
	}

	table := make([]PointsTableEntry, 0, len(order))
	for _, id := range order {
		t := byTeam[id]
		if t.entry.Played > 0 {
			nrr := float64(t.scored-t.lost) / float64(t.entry.Played)
			t.entry.NetRunRate = math.Round(nrr*1000) / 1000
		}
		table = append(table, t.entry)
	}
	SortPointsTable(table)
	return table
}

// BuildLeaderboard counts man of the match awards among completed matches.
func BuildLeaderboard(matches []TournamentMatch) []LeaderboardEntry {
	counts := make(map[int64]*LeaderboardEntry)
	for _, m := range matches {
		if !m.IsCompleted || m.ManOfTheMatch == nil {
			continue
		}
		e, ok := counts[m.ManOfTheMatch.ID]
		if !ok {
			e = &LeaderboardEntry{Player: *m.ManOfTheMatch}
			counts[m.ManOfTheMatch.ID] = e
		}
		e.Awards++
	}
	board := make([]LeaderboardEntry, 0, len(counts))
	for _, e := range counts {
		board = append(board, *e)
	}
	sort.Slice(board, func(i, j int) bool {
		if board[i].Awards != board[j].Awards {
			return board[i].Awards > board[j].Awards
		}
		return board[i].Player.Username < board[j].Player.Username
	})
	return board
}
