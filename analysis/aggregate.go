package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"lostark_dps/skilldb"
	"lostark_dps/telemetry"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// SkillStatRow is one line of a player's damage breakdown.
type SkillStatRow struct {
	Name       string  `json:"name"`
	Damage     int64   `json:"damage"`
	DamageText string  `json:"damageText"`
	Percent    float64 `json:"percent"`
	CritHits   string  `json:"critHits"`
	CritRate   float64 `json:"critRate"`
}

// BuildRows aggregates one player's skill records for one gate into rows
// sorted by damage descending (ties keep upstream order). A zero damage
// total short-circuits to ErrZeroDamage before any division happens.
func BuildRows(p *telemetry.Player, names map[int]string) ([]SkillStatRow, error) {
	total, err := parseDamage(p.TotalDamage)
	if err != nil {
		return nil, errors.Wrapf(err, "player %d: bad damage total %q", p.ID, p.TotalDamage)
	}
	if total == 0 {
		return nil, ErrZeroDamage
	}

	rows := make([]SkillStatRow, 0, len(p.Skills))
	for _, s := range p.Skills {
		dmg, err := parseDamage(s.Damage)
		if err != nil {
			return nil, &MalformedSkillRecordError{SkillID: s.ID, cause: err}
		}

		totalHits := 0
		for _, n := range s.Hits {
			totalHits += n
		}
		crits := 0
		if len(s.Hits) > 1 {
			crits = s.Hits[1]
		}

		critRate := 0.0
		if totalHits > 0 {
			critRate = round1(float64(crits) / float64(totalHits) * 100)
		}

		name, ok := names[s.ID]
		if !ok {
			name = skilldb.UnknownName(s.ID)
		}

		rows = append(rows, SkillStatRow{
			Name:       name,
			Damage:     dmg,
			DamageText: humanize.Comma(dmg),
			Percent:    round1(float64(dmg) / float64(total) * 100),
			CritHits:   strconv.Itoa(crits) + " / " + strconv.Itoa(totalHits),
			CritRate:   critRate,
		})
	}

	sort.SliceStable(rows, func(i, k int) bool { return rows[i].Damage > rows[k].Damage })

	return rows, nil
}

// parseDamage parses a "1.234.567"-style locale-formatted total.
func parseDamage(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.ReplaceAll(s, ".", ""), 10, 64)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return n, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
