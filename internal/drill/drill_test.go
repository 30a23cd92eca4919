package drill

import (
	"encoding/json"
	"testing"

	"github.com/greenside-labs/go-putt/internal/putt"
)

func game(completed bool, result string) putt.Game {
	g := putt.Game{Completed: completed}
	if result != "" {
		g.Result = json.RawMessage(result)
	}
	return g
}

func def(id string) Definition {
	for _, d := range Defaults() {
		if d.ID == id {
			return d
		}
	}
	panic("unknown default drill " + id)
}

func TestExtractAttempts(t *testing.T) {
	d := def("touch_drill")

	if v, ok := d.Extract(game(true, `{"attemptsToComplete":22}`)); !ok || v != 22 {
		t.Errorf("Extract = %v,%v, want 22,true", v, ok)
	}
	if _, ok := d.Extract(game(true, `{}`)); ok {
		t.Error("missing attemptsToComplete should yield no value")
	}
	if _, ok := d.Extract(game(true, `{"attemptsToComplete":"lots"}`)); ok {
		t.Error("non-numeric attemptsToComplete should yield no value")
	}
	if _, ok := d.Extract(game(true, `{"attemptsToComplete":null}`)); ok {
		t.Error("null attemptsToComplete should yield no value")
	}
	if _, ok := d.Extract(game(false, `{"attemptsToComplete":22}`)); ok {
		t.Error("incomplete game should yield no value")
	}
	if _, ok := d.Extract(game(true, "")); ok {
		t.Error("absent result should yield no value")
	}
}

func TestExtractPutts(t *testing.T) {
	d := def("lag_distance")
	if v, ok := d.Extract(game(true, `{"puttsToReachTarget":7}`)); !ok || v != 7 {
		t.Errorf("Extract = %v,%v, want 7,true", v, ok)
	}
}

func TestExtractMakes(t *testing.T) {
	d := def("short_makes")
	if v, ok := d.Extract(game(true, `{"score":{"makes":14,"totalPutts":18}}`)); !ok || v != 14 {
		t.Errorf("Extract = %v,%v, want 14,true", v, ok)
	}
	if _, ok := d.Extract(game(true, `{"score":14}`)); ok {
		t.Error("numeric score on a makes drill should yield no value")
	}
	if _, ok := d.Extract(game(true, `{"score":{"makes":"lots","totalPutts":18}}`)); ok {
		t.Error("non-numeric makes should yield no value")
	}
	if _, ok := d.Extract(game(true, `{"score":{"makes":null}}`)); ok {
		t.Error("null makes should yield no value")
	}
}

// win_on_tour historically stored its score as result.score or
// result.points; the extractor is one fallback chain, not two code paths.
func TestExtractPointsFallback(t *testing.T) {
	d := def("win_on_tour")

	if v, ok := d.Extract(game(true, `{"score":95}`)); !ok || v != 95 {
		t.Errorf("score = %v,%v, want 95,true", v, ok)
	}
	if v, ok := d.Extract(game(true, `{"points":88}`)); !ok || v != 88 {
		t.Errorf("points fallback = %v,%v, want 88,true", v, ok)
	}
	if v, ok := d.Extract(game(true, `{"score":95,"points":88}`)); !ok || v != 95 {
		t.Errorf("score should win over points, got %v,%v", v, ok)
	}
	if v, ok := d.Extract(game(true, `{"score":"high","points":88}`)); !ok || v != 88 {
		t.Errorf("non-numeric score should fall through to points, got %v,%v", v, ok)
	}
	if _, ok := d.Extract(game(true, `{}`)); ok {
		t.Error("neither score nor points should yield no value")
	}
	if _, ok := d.Extract(game(true, `{"score":"high","points":"many"}`)); ok {
		t.Error("non-numeric score and points should yield no value")
	}
}

func TestExtractCheck(t *testing.T) {
	d := def("home_base")
	if v, ok := d.Extract(game(true, "")); !ok || v != 1.0 {
		t.Errorf("Extract = %v,%v, want 1,true", v, ok)
	}
	if _, ok := d.Extract(game(false, "")); ok {
		t.Error("incomplete check drill should yield no value")
	}
}

func TestDisplayFormats(t *testing.T) {
	tests := []struct {
		drill  string
		result string
		want   string
	}{
		{"touch_drill", `{"attemptsToComplete":22}`, "22 attempts"},
		{"lag_distance", `{"puttsToReachTarget":7}`, "7 putts"},
		{"short_makes", `{"score":{"makes":14,"totalPutts":18}}`, "14 / 18 (base 12)"},
		{"short_makes", `{"score":{"makes":14,"totalPutts":21}}`, "14 / 21 (base 12)"},
		{"mid_makes", `{"score":{"makes":8,"totalPutts":18}}`, "8 / 18 (base 9)"},
		{"win_on_tour", `{"score":95}`, "95 points"},
		{"win_on_tour", `{"score":95,"unit":"holes"}`, "95 holes"},
		{"home_base", `{}`, "Done"},
		{"home_base", `{"note":"felt great"}`, "felt great"},
	}
	for _, tt := range tests {
		if got := def(tt.drill).Display(game(true, tt.result)); got != tt.want {
			t.Errorf("%s.Display(%s) = %q, want %q", tt.drill, tt.result, got, tt.want)
		}
	}
}

func TestDirectionBetter(t *testing.T) {
	if !Lower.Better(22, 30) || Lower.Better(30, 22) || Lower.Better(22, 22) {
		t.Error("lower-is-better must replace only on strictly less")
	}
	if !Higher.Better(14, 10) || Higher.Better(10, 14) || Higher.Better(14, 14) {
		t.Error("higher-is-better must replace only on strictly greater")
	}
	if None.Better(2, 1) || None.Better(1, 2) {
		t.Error("direction na must never replace")
	}
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry(Defaults()...)

	if _, ok := reg.Lookup("touch_drill_uphill"); !ok {
		t.Error("uphill touch drill variant should be registered")
	}
	if _, ok := reg.Lookup("mystery_drill"); ok {
		t.Error("unknown drill should not resolve")
	}
	if got, want := len(reg.IDs()), len(Defaults()); got != want {
		t.Errorf("IDs = %d entries, want %d", got, want)
	}
}

func TestRegistryReplace(t *testing.T) {
	reg := NewRegistry(Defaults()...)
	reg.Replace([]Definition{{ID: "ladder", Kind: KindPutts, Direction: Lower}})

	if _, ok := reg.Lookup("touch_drill"); ok {
		t.Error("replaced table should drop old rows")
	}
	if _, ok := reg.Lookup("ladder"); !ok {
		t.Error("replaced table should contain new rows")
	}
}
