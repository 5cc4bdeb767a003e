package dashboard

import "github.com/mauv0809/clubhouse/internal/club"

// RelevantTournaments keeps the tournaments that include at least one of
// teams. When teams is empty, or no tournament lists its teams, every
// tournament is returned.
func RelevantTournaments(tournaments []club.Tournament, teams []club.Team) []club.Tournament {
	if len(teams) == 0 || !anyTeams(tournaments) {
		return tournaments
	}
	mine := make(map[int64]struct{}, len(teams))
	for _, t := range teams {
		mine[t.ID] = struct{}{}
	}
	out := []club.Tournament{}
	for _, tr := range tournaments {
		for _, t := range tr.Teams {
			if _, ok := mine[t.ID]; ok {
				out = append(out, tr)
				break
			}
		}
	}
	return out
}

func anyTeams(tournaments []club.Tournament) bool {
	for _, tr := range tournaments {
		if len(tr.Teams) > 0 {
			return true
		}
	}
	return false
}
