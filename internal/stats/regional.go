package stats

import (
	"sort"

	"go.uber.org/zap"

	"github.com/111110100/ph-election-smartmatic/internal/logger"
	"github.com/111110100/ph-election-smartmatic/internal/report"
)

var regionalHeader = []string{"REG_NAME", "CANDIDATE_NAME", "VOTES_AMOUNT", "PERCENTAGE"}

type regionalRow struct {
	region    string
	candidate int64
	votes     int64
}

// RegionalPerformance writes every national race candidate's vote total per
// region and their share of the region's national contest votes. Rows with
// no roster match carry no region and are left out.
func (e *Engine) RegionalPerformance() error {
	type key struct {
		region    string
		candidate int64
	}

	votes := make(map[key]int64)
	regionTotals := make(map[string]int64)
	for _, r := range e.ds.Joined {
		if !r.ContestCode.IsNational() || r.Region == "" {
			continue
		}
		votes[key{region: r.Region, candidate: r.CandidateCode}] += r.Votes
		regionTotals[r.Region] += r.Votes
	}

	entries := make([]regionalRow, 0, len(votes))
	for k, v := range votes {
		entries = append(entries, regionalRow{region: k.region, candidate: k.candidate, votes: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].region != entries[j].region {
			return entries[i].region < entries[j].region
		}
		if entries[i].votes != entries[j].votes {
			return entries[i].votes > entries[j].votes
		}
		return entries[i].candidate < entries[j].candidate
	})

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		name, _ := e.ds.CandidateName(entry.candidate)
		rows = append(rows, []string{
			entry.region,
			name,
			report.Int(entry.votes),
			report.Float(percentage(entry.votes, regionTotals[entry.region])),
		})
	}

	if err := e.sink.WriteCSV(report.RegionalArtifact, regionalHeader, rows); err != nil {
		return err
	}

	logger.Info("Regional candidate performance written",
		zap.Int("regions", len(regionTotals)),
		zap.Int("rows", len(rows)))

	return nil
}
