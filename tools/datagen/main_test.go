package main

import (
	"testing"
	"time"

	"github.com/111110100/ph-election-smartmatic/internal/config"
	"github.com/111110100/ph-election-smartmatic/internal/dataset"
)

func testConfig() *Config {
	return &Config{
		Precincts:   len(provinceRoster) * 2,
		Unmatched:   2,
		Transmitted: 100,
		Seed:        7,
	}
}

func TestAllocateStaysWithinPool(t *testing.T) {
	g := newGenerator(testConfig())

	cands := []candidate{
		{code: 1, weight: 0.5},
		{code: 2, weight: 1.8},
		{code: 3, weight: 0.9},
	}

	tests := []struct {
		name string
		pool int
	}{
		{name: "regular pool", pool: 100},
		{name: "tiny pool", pool: 2},
		{name: "empty pool", pool: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			votes := g.allocate(tt.pool, cands)
			if len(votes) != len(cands) {
				t.Fatalf("allocate() returned %d shares, want %d", len(votes), len(cands))
			}

			var sum int64
			for _, v := range votes {
				if v < 0 {
					t.Errorf("allocate() produced negative share %d", v)
				}
				sum += v
			}
			if sum > int64(tt.pool) {
				t.Errorf("allocate() distributed %d votes from a pool of %d", sum, tt.pool)
			}
		})
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	g1 := newGenerator(testConfig())
	g2 := newGenerator(testConfig())
	g1.build()
	g2.build()

	c1 := g1.allContests()
	c2 := g2.allContests()
	if len(c1) != len(c2) {
		t.Fatalf("contest counts differ: %d vs %d", len(c1), len(c2))
	}

	for i := range c1 {
		if c1[i].code != c2[i].code || c1[i].name != c2[i].name {
			t.Fatalf("contest %d differs: %v vs %v", i, c1[i], c2[i])
		}
		if len(c1[i].candidates) != len(c2[i].candidates) {
			t.Fatalf("candidate counts differ in contest %d", i)
		}
		for j := range c1[i].candidates {
			if c1[i].candidates[j] != c2[i].candidates[j] {
				t.Errorf("candidate %d/%d differs: %v vs %v",
					i, j, c1[i].candidates[j], c2[i].candidates[j])
			}
		}
	}
}

func TestReceptionTimeWindow(t *testing.T) {
	g := newGenerator(testConfig())
	limit := receptionBase.Add(26 * time.Hour)

	for i := 0; i < 200; i++ {
		at := g.receptionTime()
		if at.Before(receptionBase) || !at.Before(limit) {
			t.Fatalf("receptionTime() = %v, want within [%v, %v)", at, receptionBase, limit)
		}

		formatted := at.Format("2006-01-02 15:04:05")
		if parsed := dataset.ParseReception(formatted); !parsed.Equal(at) {
			t.Fatalf("reception timestamp %q does not parse back, got %v", formatted, parsed)
		}
	}
}

func TestWriteRoundTrip(t *testing.T) {
	cfg := testConfig()
	appCfg := &config.Config{WorkingDir: t.TempDir()}

	g := newGenerator(cfg)
	g.build()
	if err := g.write(appCfg); err != nil {
		t.Fatalf("write() failed: %v", err)
	}

	ds, err := dataset.Load(appCfg.WorkingDir)
	if err != nil {
		t.Fatalf("generated relations failed to load back: %v", err)
	}

	if len(ds.Precincts) != cfg.Precincts {
		t.Errorf("precinct rows = %d, want %d", len(ds.Precincts), cfg.Precincts)
	}

	// Full transmission: every roster precinct reports, plus the unmatched
	// ones.
	wantReporting := cfg.Precincts + cfg.Unmatched
	if got := ds.ReportingPrecincts(); got != wantReporting {
		t.Errorf("reporting precincts = %d, want %d", got, wantReporting)
	}

	var wantCandidates int
	for _, c := range g.allContests() {
		wantCandidates += len(c.candidates)
	}
	if len(ds.Candidates) != wantCandidates {
		t.Errorf("candidate rows = %d, want %d", len(ds.Candidates), wantCandidates)
	}

	if got := len(ds.Contests); got != len(g.allContests()) {
		t.Errorf("contest rows = %d, want %d", got, len(g.allContests()))
	}

	var unmatched int
	for _, jr := range ds.Joined {
		if !jr.Matched {
			unmatched++
		}
		if jr.Votes < 0 || jr.Votes > jr.NumberVoters*8 {
			t.Fatalf("precinct %s has implausible votes %d for %d voters",
				jr.PrecinctCode, jr.Votes, jr.NumberVoters)
		}
	}
	if unmatched == 0 {
		t.Error("expected unmatched result rows, found none")
	}
}
