package report

import (
	"strconv"
	"strings"

	"github.com/111110100/ph-election-smartmatic/internal/domain"
)

// Fixed statistics artifact names.
const (
	MapStatsArtifact      = "map_stats.json"
	VoterStatsArtifact    = "voter_stats.json"
	ReceivedArtifact      = "vcm_received.csv"
	TurnoutArtifact       = "voter_turnout_by_precinct.csv"
	SpoiledArtifact       = "spoiled_ballots_analysis.csv"
	RegionalArtifact      = "candidate_performance_by_region.csv"
	CorrelationArtifact   = "turnout_spoiled_correlation.json"
	ReceptionRateArtifact = "vcm_reception_rate.csv"
)

// TallyArtifact names the electorate wide tally file for a contest.
func TallyArtifact(code domain.ContestCode) string {
	return strconv.FormatInt(int64(code), 10) + ".csv"
}

// ProvinceTallyArtifact names the per province tally file for a contest.
// Spaces in the province name become underscores.
func ProvinceTallyArtifact(province string, code domain.ContestCode) string {
	return strings.ReplaceAll(province, " ", "_") + "_" + strconv.FormatInt(int64(code), 10) + ".csv"
}

// LeadingArtifact names the leading candidate map file for a contest.
func LeadingArtifact(code domain.ContestCode) string {
	return "map-" + strconv.FormatInt(int64(code), 10) + ".csv"
}

// Float renders a float in plain decimal notation with the fewest
// digits that round trip.
func Float(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Int renders a signed count in base ten.
func Int(n int64) string {
	return strconv.FormatInt(n, 10)
}
