package skilldb

import (
	"sort"

	"lostark_dps/telemetry"
)

// CollectSkillIDs returns the unique skill ids greater than zero used
// anywhere in the run, sorted ascending. Non-positive ids (the basic
// attack) are covered by the fixed mapping entry and never resolved.
func CollectSkillIDs(run *telemetry.Run) []int {
	set := make(map[int]struct{}, 32)
	for i := range run.Gates {
		for k := range run.Gates[i].Players {
			collect(set, &run.Gates[i].Players[k])
		}
	}

	return sorted(set)
}

// CollectPlayerSkillIDs is CollectSkillIDs scoped to one player.
func CollectPlayerSkillIDs(p *telemetry.Player) []int {
	set := make(map[int]struct{}, len(p.Skills))
	collect(set, p)

	return sorted(set)
}

func collect(set map[int]struct{}, p *telemetry.Player) {
	for _, s := range p.Skills {
		if s.ID > 0 {
			set[s.ID] = struct{}{}
		}
	}
}

func sorted(set map[int]struct{}) []int {
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	return ids
}
