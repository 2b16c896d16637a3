package tally

import (
	"sort"

	"go.uber.org/zap"

	"github.com/111110100/ph-election-smartmatic/internal/dataset"
	"github.com/111110100/ph-election-smartmatic/internal/domain"
	"github.com/111110100/ph-election-smartmatic/internal/logger"
	"github.com/111110100/ph-election-smartmatic/internal/report"
)

var tallyHeader = []string{"CANDIDATE_NAME", "VOTES_AMOUNT", "PERCENTAGE"}

// Engine aggregates contest results into ranked tally artifacts.
type Engine struct {
	ds   *dataset.ElectionDataset
	sink *report.Sink
}

// NewEngine returns an engine bound to a loaded dataset and a report sink.
func NewEngine(ds *dataset.ElectionDataset, sink *report.Sink) *Engine {
	return &Engine{ds: ds, sink: sink}
}

// National writes one ranked tally per national contest with at least one
// result row. Percentages are shares of all ballots cast electorate wide, so
// a contest left blank on many ballots sums to well under one hundred.
func (e *Engine) National() error {
	denominator := ballotsCast(e.ds.DistinctByPrecinct())

	for _, code := range domain.NationalContestCodes() {
		totals := sumVotes(e.ds.Joined, code)
		if len(totals) == 0 {
			continue
		}

		name := report.TallyArtifact(code)
		if err := e.sink.WriteCSV(name, tallyHeader, e.renderRanked(totals, denominator)); err != nil {
			return err
		}

		logger.Info("National tally written",
			zap.Int64("contest", int64(code)),
			zap.Int("candidates", len(totals)))
	}

	return nil
}

// NationalByProvince writes one ranked tally per province per national
// contest. Each file's percentages use that province's ballots cast as the
// denominator. Rows whose precinct is missing from the roster have no
// province and are left out here.
func (e *Engine) NationalByProvince() error {
	ballots := ballotsByProvince(e.ds.DistinctByPrecinct())

	for _, code := range domain.NationalContestCodes() {
		byProvince := sumVotesByProvince(e.ds.Joined, code)

		for _, province := range sortedProvinces(byProvince) {
			name := report.ProvinceTallyArtifact(province, code)
			rows := e.renderRanked(byProvince[province], ballots[province])
			if err := e.sink.WriteCSV(name, tallyHeader, rows); err != nil {
				return err
			}
		}

		logger.Info("Province tallies written",
			zap.Int64("contest", int64(code)),
			zap.Int("provinces", len(byProvince)))
	}

	return nil
}

// Local writes one ranked tally per local contest with at least one result
// row. Local races have no meaningful electorate wide denominator, so
// percentages are shares of the votes cast in that contest and sum to one
// hundred. All local contests aggregate in a single pass over the joined
// rows; there can be thousands of them.
func (e *Engine) Local() error {
	codes := e.ds.LocalContestCodes()

	perContest := make(map[domain.ContestCode]map[int64]int64, len(codes))
	for _, r := range e.ds.Joined {
		if r.ContestCode.IsNational() {
			continue
		}
		m := perContest[r.ContestCode]
		if m == nil {
			m = make(map[int64]int64)
			perContest[r.ContestCode] = m
		}
		m[r.CandidateCode] += r.Votes
	}

	written := 0
	for _, code := range codes {
		acc := perContest[code]
		if len(acc) == 0 {
			continue
		}
		totals := rankTotals(acc)

		var denominator int64
		for _, t := range totals {
			denominator += t.votes
		}

		name := report.TallyArtifact(code)
		if err := e.sink.WriteCSV(name, tallyHeader, e.renderRanked(totals, denominator)); err != nil {
			return err
		}
		written++
	}

	logger.Info("Local tallies written",
		zap.Int("contests", len(codes)),
		zap.Int("artifacts", written))

	return nil
}

// renderRanked turns aggregated totals into artifact rows, resolving
// candidate names. A code missing from the candidates relation keeps its row
// with an empty name so vote sums stay intact.
func (e *Engine) renderRanked(totals []candidateTotal, denominator int64) [][]string {
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		name, _ := e.ds.CandidateName(t.candidate)
		rows = append(rows, []string{
			name,
			report.Int(t.votes),
			report.Float(percentage(t.votes, denominator)),
		})
	}
	return rows
}

// candidateTotal is one aggregated tally line before rendering.
type candidateTotal struct {
	candidate int64
	votes     int64
}

// sumVotes sums votes per candidate over one contest's joined rows and
// returns them in published order.
func sumVotes(rows []domain.JoinedResult, code domain.ContestCode) []candidateTotal {
	acc := make(map[int64]int64)
	for _, r := range rows {
		if r.ContestCode != code {
			continue
		}
		acc[r.CandidateCode] += r.Votes
	}
	return rankTotals(acc)
}

// sumVotesByProvince is sumVotes grouped by province. Rows with an empty
// province (no roster match) are skipped.
func sumVotesByProvince(rows []domain.JoinedResult, code domain.ContestCode) map[string][]candidateTotal {
	acc := make(map[string]map[int64]int64)
	for _, r := range rows {
		if r.ContestCode != code || r.Province == "" {
			continue
		}
		m := acc[r.Province]
		if m == nil {
			m = make(map[int64]int64)
			acc[r.Province] = m
		}
		m[r.CandidateCode] += r.Votes
	}

	out := make(map[string][]candidateTotal, len(acc))
	for province, m := range acc {
		out[province] = rankTotals(m)
	}
	return out
}

// rankTotals flattens an accumulator into published order: votes descending,
// candidate code ascending on ties.
func rankTotals(acc map[int64]int64) []candidateTotal {
	totals := make([]candidateTotal, 0, len(acc))
	for candidate, votes := range acc {
		totals = append(totals, candidateTotal{candidate: candidate, votes: votes})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].votes != totals[j].votes {
			return totals[i].votes > totals[j].votes
		}
		return totals[i].candidate < totals[j].candidate
	})
	return totals
}

// ballotsCast sums NUMBER_VOTERS over the distinct reporting precincts.
func ballotsCast(distinct []domain.JoinedResult) int64 {
	var total int64
	for _, r := range distinct {
		total += r.NumberVoters
	}
	return total
}

// ballotsByProvince sums NUMBER_VOTERS over distinct reporting precincts per
// province, skipping rows without a roster match.
func ballotsByProvince(distinct []domain.JoinedResult) map[string]int64 {
	ballots := make(map[string]int64)
	for _, r := range distinct {
		if r.Province == "" {
			continue
		}
		ballots[r.Province] += r.NumberVoters
	}
	return ballots
}

func sortedProvinces(m map[string][]candidateTotal) []string {
	provinces := make([]string, 0, len(m))
	for province := range m {
		provinces = append(provinces, province)
	}
	sort.Strings(provinces)
	return provinces
}

// percentage returns 100*part/whole, or 0 when the denominator is zero.
func percentage(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return 100 * float64(part) / float64(whole)
}
