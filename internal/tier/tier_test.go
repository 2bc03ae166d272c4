package tier

import "testing"

func TestTierFor_Boundaries(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name       string
		points     int64
		wantTier   string
		wantFactor float64
	}{
		{"zero points", 0, Bronze, 1},
		{"just below silver", 499, Bronze, 1},
		{"silver threshold", 500, Silver, 1.25},
		{"just below gold", 1999, Silver, 1.25},
		{"gold threshold", 2000, Gold, 1.5},
		{"just below platinum", 4999, Gold, 1.5},
		{"platinum threshold", 5000, Platinum, 2},
		{"far above platinum", 100000, Platinum, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := table.TierFor(tt.points)
			if got.Name != tt.wantTier {
				t.Errorf("TierFor(%d).Name = %q, want %q", tt.points, got.Name, tt.wantTier)
			}
			if got.Multiplier != tt.wantFactor {
				t.Errorf("TierFor(%d).Multiplier = %g, want %g", tt.points, got.Multiplier, tt.wantFactor)
			}
		})
	}
}

func TestTierFor_Monotonic(t *testing.T) {
	table := DefaultTable()

	prevRank := -1
	for points := int64(0); points <= 6000; points += 50 {
		tr := table.TierFor(points)
		rank := table.rank(tr.Name)
		if rank < prevRank {
			t.Fatalf("tier rank decreased at %d points: %q", points, tr.Name)
		}
		prevRank = rank
	}
}

func TestMeets(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name string
		have string
		want string
		ok   bool
	}{
		{"no requirement", Bronze, "", true},
		{"equal tier", Silver, Silver, true},
		{"above requirement", Platinum, Gold, true},
		{"below requirement", Bronze, Silver, false},
		{"unknown requirement", Platinum, "DIAMOND", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.Meets(tt.have, tt.want); got != tt.ok {
				t.Errorf("Meets(%q, %q) = %v, want %v", tt.have, tt.want, tt.ok, got)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		table   Table
		wantErr bool
	}{
		{"default table", DefaultTable(), false},
		{"empty table", Table{}, true},
		{"nonzero base", Table{{Name: Bronze, MinPoints: 10, Multiplier: 1}}, true},
		{
			"unsorted thresholds",
			Table{
				{Name: Bronze, MinPoints: 0, Multiplier: 1},
				{Name: Silver, MinPoints: 500, Multiplier: 1.25},
				{Name: Gold, MinPoints: 400, Multiplier: 1.5},
			},
			true,
		},
		{
			"decreasing multiplier",
			Table{
				{Name: Bronze, MinPoints: 0, Multiplier: 1},
				{Name: Silver, MinPoints: 500, Multiplier: 0.5},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNext(t *testing.T) {
	table := DefaultTable()

	tests := []struct {
		name   string
		points int64
		want   string
		ok     bool
	}{
		{"fresh account", 0, Silver, true},
		{"just below silver", 499, Silver, true},
		{"at silver", 500, Gold, true},
		{"at gold", 2000, Platinum, true},
		{"at platinum", 5000, "", false},
		{"above platinum", 9999, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := table.Next(tt.points)
			if ok != tt.ok {
				t.Fatalf("Next(%d) ok = %v, want %v", tt.points, ok, tt.ok)
			}
			if ok && next.Name != tt.want {
				t.Errorf("Next(%d).Name = %q, want %q", tt.points, next.Name, tt.want)
			}
		})
	}
}

func TestMultiplierFor_UnknownName(t *testing.T) {
	table := DefaultTable()
	if got := table.MultiplierFor("DIAMOND"); got != 1 {
		t.Errorf("MultiplierFor(unknown) = %g, want base multiplier 1", got)
	}
}
