package cache

import (
	"testing"
)

type payload struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
}

func TestRunRoundtrip(t *testing.T) {
	SetDir(t.TempDir())

	in := payload{ID: "182039", Count: 7}
	if !Run("182039", &in, true) {
		t.Fatal("save failed")
	}

	var out payload
	if !Run("182039", &out, false) {
		t.Fatal("load failed")
	}
	if out != in {
		t.Errorf("got %+v, want %+v", out, in)
	}
}

func TestRunMiss(t *testing.T) {
	SetDir(t.TempDir())

	var out payload
	if Run("nope", &out, false) {
		t.Error("expected miss")
	}
}

func TestSkillNamesRoundtrip(t *testing.T) {
	SetDir(t.TempDir())

	in := map[int]string{5: "Fireball", -1: "Basic Attack"}
	if !SkillNames("5", &in, true) {
		t.Fatal("save failed")
	}

	out := make(map[int]string)
	if !SkillNames("5", &out, false) {
		t.Fatal("load failed")
	}
	if out[5] != "Fireball" || out[-1] != "Basic Attack" {
		t.Errorf("got %+v", out)
	}
}
