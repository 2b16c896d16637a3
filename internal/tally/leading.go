package tally

import (
	"go.uber.org/zap"

	"github.com/111110100/ph-election-smartmatic/internal/dataset"
	"github.com/111110100/ph-election-smartmatic/internal/domain"
	"github.com/111110100/ph-election-smartmatic/internal/logger"
	"github.com/111110100/ph-election-smartmatic/internal/report"
)

var leadingHeader = []string{"PRV_NAME", "CANDIDATE_NAME", "VOTES_AMOUNT"}

// LeadingEngine derives the per province leading candidate maps used to
// color choropleth maps of the national races.
type LeadingEngine struct {
	ds   *dataset.ElectionDataset
	sink *report.Sink
}

// NewLeadingEngine returns an engine bound to a loaded dataset and a report
// sink.
func NewLeadingEngine(ds *dataset.ElectionDataset, sink *report.Sink) *LeadingEngine {
	return &LeadingEngine{ds: ds, sink: sink}
}

// ByProvince writes one map artifact per national contest with results: the
// top candidate of every province, provinces sorted ascending. A tie goes to
// the lower candidate code, the same rule the ranked tallies use.
func (e *LeadingEngine) ByProvince() error {
	for _, code := range domain.NationalContestCodes() {
		byProvince := sumVotesByProvince(e.ds.Joined, code)
		if len(byProvince) == 0 {
			continue
		}

		provinces := sortedProvinces(byProvince)
		rows := make([][]string, 0, len(provinces))
		for _, province := range provinces {
			lead := byProvince[province][0]
			name, _ := e.ds.CandidateName(lead.candidate)
			rows = append(rows, []string{province, name, report.Int(lead.votes)})
		}

		if err := e.sink.WriteCSV(report.LeadingArtifact(code), leadingHeader, rows); err != nil {
			return err
		}

		logger.Info("Leading candidate map written",
			zap.Int64("contest", int64(code)),
			zap.Int("provinces", len(rows)))
	}

	return nil
}
