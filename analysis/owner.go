package analysis

import orderedmap "github.com/wk8/go-ordered-map/v2"

// InferOwner guesses which participant is the account owner: the one present
// in the largest number of distinct entities. In a personal export the owner
// is the only participant common to every conversation, so the highest
// membership count is, heuristically, the owner. Ties break on first
// appearance. Best effort only; small or adversarial datasets can fool it.
func InferOwner(entities []*EntityStats) string {
	tally := orderedmap.New[string, int]()
	for _, es := range entities {
		seen := make(map[string]struct{}, len(es.Participants))
		for _, p := range es.Participants {
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			bump(tally, p, 1)
		}
	}

	owner := ""
	best := 0
	for p := tally.Oldest(); p != nil; p = p.Next() {
		if p.Value > best {
			owner = p.Key
			best = p.Value
		}
	}
	return owner
}
