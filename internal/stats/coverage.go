package stats

import (
	"go.uber.org/zap"

	"github.com/111110100/ph-election-smartmatic/internal/logger"
	"github.com/111110100/ph-election-smartmatic/internal/report"
)

// ProvinceStats is one province's entry in map_stats.json.
type ProvinceStats struct {
	TotalClusteredPrecincts      int64   `json:"total_clustered_precincts"`
	VCMTransmitted               int64   `json:"vcm_transmitted"`
	VCMNotTransmitted            int64   `json:"vcm_not_transmitted"`
	VCMTransmittedPercentile     float64 `json:"vcm_transmitted_percentile"`
	NumberOfVotersNotTransmitted int64   `json:"number_of_voters_not_transmitted"`
	TotalUndervotes              int64   `json:"total_undervotes"`
	TotalOvervotes               int64   `json:"total_overvotes"`
	TotalVoters                  int64   `json:"total_voters"`
	TotalRegisteredVoters        int64   `json:"total_registered_voters"`
	VoterTurnout                 float64 `json:"voter_turnout"`
}

// VoterTotals is the electorate wide summary in voter_stats.json.
type VoterTotals struct {
	TotalNumberOfVoters             int64 `json:"total_number_of_voters"`
	TotalNumberOfUndervotes         int64 `json:"total_number_of_undervotes"`
	TotalNumberOfOvervotes          int64 `json:"total_number_of_overvotes"`
	TotalNumberOfRegisteredVoters   int64 `json:"total_number_of_registered_voters"`
	TotalNumberOfPrecincts          int64 `json:"total_number_of_precincts"`
	TotalNumberOfReportingPrecincts int64 `json:"total_number_of_reporting_precincts"`
}

// MapStats writes the per province transmission and turnout summary. Roster
// precincts define the provinces and the transmission universe. Ballot
// counters and registered voters sum over the distinct reporting rows, so a
// precinct counts once and turnout runs against transmitted precincts only.
func (e *Engine) MapStats() error {
	transmitted := make(map[string]struct{}, e.ds.ReportingPrecincts())
	for _, r := range e.ds.DistinctByPrecinct() {
		transmitted[r.PrecinctCode] = struct{}{}
	}

	perProvince := make(map[string]*ProvinceStats)
	for _, p := range e.ds.Precincts {
		if p.Province == "" {
			continue
		}
		s := perProvince[p.Province]
		if s == nil {
			s = &ProvinceStats{}
			perProvince[p.Province] = s
		}
		s.TotalClusteredPrecincts++
		if _, ok := transmitted[p.Code]; ok {
			s.VCMTransmitted++
		} else {
			s.VCMNotTransmitted++
			s.NumberOfVotersNotTransmitted += p.RegisteredVoters
		}
	}

	for _, r := range e.ds.DistinctByPrecinct() {
		s := perProvince[r.Province]
		if s == nil {
			continue
		}
		s.TotalUndervotes += r.Undervote
		s.TotalOvervotes += r.Overvote
		s.TotalVoters += r.NumberVoters
		s.TotalRegisteredVoters += r.RegisteredVoters
	}

	out := make(map[string]ProvinceStats, len(perProvince))
	for province, s := range perProvince {
		s.VCMTransmittedPercentile = percentage(s.VCMTransmitted, s.TotalClusteredPrecincts)
		s.VoterTurnout = percentage(s.TotalVoters, s.TotalRegisteredVoters)
		out[province] = *s
	}

	if err := e.sink.WriteJSON(report.MapStatsArtifact, out); err != nil {
		return err
	}

	logger.Info("Map statistics written", zap.Int("provinces", len(out)))

	return nil
}

// VoterStats writes the electorate wide ballot counters, summed over the
// distinct reporting precincts, next to the roster and reporting precinct
// counts.
func (e *Engine) VoterStats() error {
	totals := VoterTotals{
		TotalNumberOfPrecincts:          int64(len(e.ds.Precincts)),
		TotalNumberOfReportingPrecincts: int64(e.ds.ReportingPrecincts()),
	}
	for _, r := range e.ds.DistinctByPrecinct() {
		totals.TotalNumberOfVoters += r.NumberVoters
		totals.TotalNumberOfUndervotes += r.Undervote
		totals.TotalNumberOfOvervotes += r.Overvote
		totals.TotalNumberOfRegisteredVoters += r.RegisteredVoters
	}

	if err := e.sink.WriteJSON(report.VoterStatsArtifact, totals); err != nil {
		return err
	}

	logger.Info("Voter statistics written",
		zap.Int64("voters", totals.TotalNumberOfVoters),
		zap.Int64("reporting", totals.TotalNumberOfReportingPrecincts))

	return nil
}
