package analysis

import (
	"math"
	"testing"

	"lostark_dps/telemetry"

	"github.com/pkg/errors"
)

func TestBuildRowsSingleSkill(t *testing.T) {
	p := &telemetry.Player{
		ID:          1,
		TotalDamage: "1.000",
		Skills: []telemetry.SkillRecord{
			{ID: 5, Damage: "1.000", Hits: []int{8, 2}},
		},
	}

	rows, err := BuildRows(p, map[int]string{5: "Fireball"})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows", len(rows))
	}

	r := rows[0]
	if r.Name != "Fireball" {
		t.Errorf("name = %q", r.Name)
	}
	if r.Damage != 1000 {
		t.Errorf("damage = %d", r.Damage)
	}
	if r.DamageText != "1,000" {
		t.Errorf("damageText = %q", r.DamageText)
	}
	if r.Percent != 100.0 {
		t.Errorf("percent = %v", r.Percent)
	}
	if r.CritHits != "2 / 10" {
		t.Errorf("critHits = %q", r.CritHits)
	}
	if r.CritRate != 20.0 {
		t.Errorf("critRate = %v", r.CritRate)
	}
}

func TestBuildRowsBasicAttackNoCrits(t *testing.T) {
	p := &telemetry.Player{
		TotalDamage: "500",
		Skills: []telemetry.SkillRecord{
			{ID: -1, Damage: "500", Hits: []int{3, 0}},
		},
	}

	rows, err := BuildRows(p, map[int]string{-1: "Basic Attack"})
	if err != nil {
		t.Fatal(err)
	}

	r := rows[0]
	if r.Name != "Basic Attack" {
		t.Errorf("name = %q", r.Name)
	}
	if r.CritHits != "0 / 3" {
		t.Errorf("critHits = %q", r.CritHits)
	}
	if r.CritRate != 0.0 {
		t.Errorf("critRate = %v", r.CritRate)
	}
}

func TestBuildRowsSortedAndSums(t *testing.T) {
	p := &telemetry.Player{
		TotalDamage: "10.000",
		Skills: []telemetry.SkillRecord{
			{ID: 1, Damage: "2.500", Hits: []int{10}},
			{ID: 2, Damage: "5.000", Hits: []int{20, 5}},
			{ID: 3, Damage: "2.500", Hits: []int{4}},
		},
	}

	rows, err := BuildRows(p, map[int]string{1: "A", 2: "B", 3: "C"})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i+1 < len(rows); i++ {
		if rows[i].Damage < rows[i+1].Damage {
			t.Errorf("rows not sorted: %d before %d", rows[i].Damage, rows[i+1].Damage)
		}
	}

	// Equal damages keep their upstream order.
	if rows[1].Name != "A" || rows[2].Name != "C" {
		t.Errorf("tie order: %q, %q", rows[1].Name, rows[2].Name)
	}

	sum := 0.0
	for _, r := range rows {
		sum += r.Percent
	}
	if math.Abs(sum-100.0) > 0.3 {
		t.Errorf("percent sum = %v", sum)
	}
}

func TestBuildRowsZeroDamage(t *testing.T) {
	p := &telemetry.Player{
		TotalDamage: "0",
		Skills: []telemetry.SkillRecord{
			{ID: 5, Damage: "0", Hits: []int{1}},
		},
	}

	rows, err := BuildRows(p, nil)
	if !errors.Is(err, ErrZeroDamage) {
		t.Fatalf("err = %v, want ErrZeroDamage", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %v", rows)
	}
}

func TestBuildRowsUnknownName(t *testing.T) {
	p := &telemetry.Player{
		TotalDamage: "100",
		Skills: []telemetry.SkillRecord{
			{ID: 77, Damage: "100", Hits: []int{1}},
		},
	}

	rows, err := BuildRows(p, map[int]string{})
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].Name != "Unknown Skill (77)" {
		t.Errorf("name = %q", rows[0].Name)
	}
}

func TestBuildRowsMalformedDamage(t *testing.T) {
	p := &telemetry.Player{
		TotalDamage: "100",
		Skills: []telemetry.SkillRecord{
			{ID: 9, Damage: "abc", Hits: []int{1}},
		},
	}

	_, err := BuildRows(p, nil)

	var me *MalformedSkillRecordError
	if !errors.As(err, &me) {
		t.Fatalf("err = %v, want MalformedSkillRecordError", err)
	}
	if me.SkillID != 9 {
		t.Errorf("skill id = %d", me.SkillID)
	}
}

func TestBuildRowsEmptyHits(t *testing.T) {
	p := &telemetry.Player{
		TotalDamage: "100",
		Skills: []telemetry.SkillRecord{
			{ID: 5, Damage: "100", Hits: nil},
		},
	}

	rows, err := BuildRows(p, nil)
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].CritHits != "0 / 0" || rows[0].CritRate != 0.0 {
		t.Errorf("row = %+v", rows[0])
	}
}
