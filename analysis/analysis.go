// Package analysis ties the telemetry fetch, name resolution and
// aggregation steps into the two pipelines the handlers expose.
package analysis

import (
	"context"
	"strconv"

	"lostark_dps/skilldb"
	"lostark_dps/telemetry"

	"github.com/pkg/errors"
)

// Options is one analysis request. Context and Progress are wired by the
// boundary, not by clients.
type Options struct {
	Context context.Context `json:"-"`

	RunID    string `json:"id"`
	PlayerID string `json:"player_id"`
	GateID   string `json:"gate_id"`

	Progress func(p float32) `json:"-"`
}

// FullData is the full-data endpoint payload: the raw run plus the name
// mapping, aggregation deferred to the client.
type FullData struct {
	RunData         *telemetry.Run `json:"runData"`
	SkillDictionary map[int]string `json:"skillDictionary"`
}

type Analyzer struct {
	Telemetry *telemetry.Client
	Skills    *skilldb.Resolver
}

// Full fetches a run and resolves every skill name it references.
func (a *Analyzer) Full(ctx context.Context, runID string) (*FullData, error) {
	run, err := a.Telemetry.Run(ctx, runID)
	if err != nil {
		return nil, err
	}

	names := a.Skills.Resolve(ctx, skilldb.CollectSkillIDs(run), nil)

	return &FullData{RunData: run, SkillDictionary: names}, nil
}

// PlayerBreakdown runs the single-player pipeline: fetch, locate gate and
// player, resolve that player's skill names, aggregate. A zero damage
// total surfaces as ErrZeroDamage.
func (a *Analyzer) PlayerBreakdown(opt *Options) ([]SkillStatRow, error) {
	ctx := opt.Context
	if ctx == nil {
		ctx = context.Background()
	}

	run, err := a.Telemetry.Run(ctx, opt.RunID)
	if err != nil {
		return nil, err
	}

	var gate *telemetry.Gate
	for i := range run.Gates {
		if run.Gates[i].ID == opt.GateID {
			gate = &run.Gates[i]
			break
		}
	}
	if gate == nil {
		return nil, errors.WithStack(&NotFoundError{Kind: "Gate", ID: opt.GateID})
	}

	var player *telemetry.Player
	for i := range gate.Players {
		if strconv.FormatInt(gate.Players[i].ID, 10) == opt.PlayerID {
			player = &gate.Players[i]
			break
		}
	}
	if player == nil {
		return nil, errors.WithStack(&NotFoundError{Kind: "Player", ID: opt.PlayerID})
	}

	names := a.Skills.Resolve(ctx, skilldb.CollectPlayerSkillIDs(player), opt.Progress)

	return BuildRows(player, names)
}
