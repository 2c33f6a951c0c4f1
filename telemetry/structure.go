package telemetry

// Run is one recorded encounter, relayed to clients verbatim as runData.
type Run struct {
	ID    string `json:"id"`
	Gates []Gate `json:"gates"`
}

// Gate is a named phase within a run.
type Gate struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Players []Player `json:"players"`
}

type Player struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`

	// TotalDamage is locale-formatted with "." as thousands separator,
	// e.g. "1.234.567".
	TotalDamage string `json:"totalDamage"`

	Skills []SkillRecord `json:"skills"`
}

// SkillRecord is one skill's tally for one player in one gate. ID -1 is the
// synthetic basic attack. Hits is a fixed-position outcome tally; index 1
// counts critical hits.
type SkillRecord struct {
	ID     int    `json:"id"`
	Damage string `json:"damage"`
	Hits   []int  `json:"hits"`
}
