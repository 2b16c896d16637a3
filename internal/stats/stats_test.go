package stats

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/111110100/ph-election-smartmatic/internal/adapter"
	"github.com/111110100/ph-election-smartmatic/internal/dataset"
	"github.com/111110100/ph-election-smartmatic/internal/domain"
	"github.com/111110100/ph-election-smartmatic/internal/report"
)

func newTestSink(t *testing.T) (*report.Sink, string) {
	t.Helper()
	dir := t.TempDir()
	sink, err := report.NewSink(adapter.NewFileSystem(), dir)
	require.NoError(t, err)
	return sink, dir
}

func readArtifact(t *testing.T, dir, name string) [][]string {
	t.Helper()
	f, err := os.Open(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func readJSONArtifact(t *testing.T, dir, name string, into interface{}) {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(content, into))
}

func res(precinct string, contest domain.ContestCode, candidate, votes, under, over, voters int64, received string) domain.ResultRecord {
	rec := domain.ResultRecord{
		PrecinctCode:  precinct,
		ContestCode:   contest,
		CandidateCode: candidate,
		Votes:         votes,
		Undervote:     under,
		Overvote:      over,
		NumberVoters:  voters,
		ReceptionDate: received,
	}
	rec.ReceivedAt = dataset.ParseReception(received)
	return rec
}

// coverageFixture models two provinces and three rostered precincts, with P2
// silent. Ballot counters repeat on every contest row of a precinct, the way
// the transparency server exports them.
func coverageFixture() *dataset.ElectionDataset {
	candidates := []domain.Candidate{
		{Code: 10, Name: "JUAN DELA CRUZ"},
		{Code: 20, Name: "MARIA CLARA"},
		{Code: 30, Name: "JOSE RIZAL"},
	}
	contests := []domain.Contest{
		{Code: domain.ContestPresident},
		{Code: 5401},
	}
	precincts := []domain.Precinct{
		{VCMID: "VCM001", Region: "REGION I", Province: "ILOCOS NORTE", Code: "P1", RegisteredVoters: 100},
		{VCMID: "VCM002", Region: "REGION I", Province: "ILOCOS NORTE", Code: "P2", RegisteredVoters: 50},
		{VCMID: "VCM003", Region: "REGION II", Province: "ISABELA", Code: "P3", RegisteredVoters: 200},
	}
	results := []domain.ResultRecord{
		res("P1", domain.ContestPresident, 10, 60, 2, 1, 80, "2022-05-09 19:03:00"),
		res("P1", domain.ContestPresident, 20, 15, 2, 1, 80, "2022-05-09 19:03:00"),
		res("P3", domain.ContestPresident, 10, 90, 5, 0, 150, "2022-05-09 19:10:20"),
		res("P3", domain.ContestPresident, 20, 40, 5, 0, 150, "2022-05-09 19:10:20"),
		res("P3", 5401, 30, 120, 5, 0, 150, "2022-05-09 19:10:20"),
	}

	return dataset.New(candidates, contests, nil, precincts, results)
}

func TestMapStats(t *testing.T) {
	sink, dir := newTestSink(t)
	require.NoError(t, NewEngine(coverageFixture(), sink).MapStats())

	var stats map[string]ProvinceStats
	readJSONArtifact(t, dir, report.MapStatsArtifact, &stats)
	require.Len(t, stats, 2)

	ilocos := stats["ILOCOS NORTE"]
	assert.Equal(t, int64(2), ilocos.TotalClusteredPrecincts)
	assert.Equal(t, int64(1), ilocos.VCMTransmitted)
	assert.Equal(t, int64(1), ilocos.VCMNotTransmitted)
	assert.InDelta(t, 50.0, ilocos.VCMTransmittedPercentile, 1e-9)
	assert.Equal(t, int64(50), ilocos.NumberOfVotersNotTransmitted)
	assert.Equal(t, int64(2), ilocos.TotalUndervotes)
	assert.Equal(t, int64(1), ilocos.TotalOvervotes)
	assert.Equal(t, int64(80), ilocos.TotalVoters)

	// Silent P2 counts toward non-transmission only; the turnout denominator
	// holds the transmitted precincts' registered voters.
	assert.Equal(t, int64(100), ilocos.TotalRegisteredVoters)
	assert.InDelta(t, 80.0, ilocos.VoterTurnout, 1e-9)

	isabela := stats["ISABELA"]
	assert.Equal(t, int64(1), isabela.TotalClusteredPrecincts)
	assert.Equal(t, int64(1), isabela.VCMTransmitted)
	assert.Equal(t, int64(0), isabela.VCMNotTransmitted)
	assert.InDelta(t, 100.0, isabela.VCMTransmittedPercentile, 1e-9)
	assert.Equal(t, int64(0), isabela.NumberOfVotersNotTransmitted)
	assert.Equal(t, int64(5), isabela.TotalUndervotes)
	assert.Equal(t, int64(150), isabela.TotalVoters)
	assert.Equal(t, int64(200), isabela.TotalRegisteredVoters)
	assert.InDelta(t, 75.0, isabela.VoterTurnout, 1e-9)

	// Transmitted and silent machines always add up to the roster.
	for province, s := range stats {
		assert.Equal(t, s.TotalClusteredPrecincts, s.VCMTransmitted+s.VCMNotTransmitted, province)
	}
}

func TestMapStatsKeyNames(t *testing.T) {
	sink, dir := newTestSink(t)
	require.NoError(t, NewEngine(coverageFixture(), sink).MapStats())

	var raw map[string]map[string]interface{}
	readJSONArtifact(t, dir, report.MapStatsArtifact, &raw)

	for _, key := range []string{
		"total_clustered_precincts",
		"vcm_transmitted",
		"vcm_not_transmitted",
		"vcm_transmitted_percentile",
		"number_of_voters_not_transmitted",
		"total_undervotes",
		"total_overvotes",
		"total_voters",
		"total_registered_voters",
		"voter_turnout",
	} {
		assert.Contains(t, raw["ISABELA"], key)
	}
}

func TestVoterStats(t *testing.T) {
	sink, dir := newTestSink(t)
	require.NoError(t, NewEngine(coverageFixture(), sink).VoterStats())

	var totals VoterTotals
	readJSONArtifact(t, dir, report.VoterStatsArtifact, &totals)

	assert.Equal(t, VoterTotals{
		TotalNumberOfVoters:             230,
		TotalNumberOfUndervotes:         7,
		TotalNumberOfOvervotes:          1,
		TotalNumberOfRegisteredVoters:   300,
		TotalNumberOfPrecincts:          3,
		TotalNumberOfReportingPrecincts: 2,
	}, totals)
}

func TestTurnoutByPrecinct(t *testing.T) {
	sink, dir := newTestSink(t)
	require.NoError(t, NewEngine(coverageFixture(), sink).TurnoutByPrecinct())

	records := readArtifact(t, dir, report.TurnoutArtifact)
	require.Len(t, records, 3)
	assert.Equal(t, turnoutHeader, records[0])
	assert.Equal(t, []string{"P1", "ILOCOS NORTE", "80", "100", "80"}, records[1])
	assert.Equal(t, []string{"P3", "ISABELA", "150", "200", "75"}, records[2])
}

func TestSpoiledBallots(t *testing.T) {
	sink, dir := newTestSink(t)
	require.NoError(t, NewEngine(coverageFixture(), sink).SpoiledBallots())

	records := readArtifact(t, dir, report.SpoiledArtifact)
	require.Len(t, records, 3)
	assert.Equal(t, spoiledHeader, records[0])
	assert.Equal(t, []string{"P1", "ILOCOS NORTE", "2", "1", "3", "80", "3.75"}, records[1])
	assert.Equal(t, "P3", records[2][0])
	assert.Equal(t, "5", records[2][4])
}

func TestRegionalPerformance(t *testing.T) {
	sink, dir := newTestSink(t)
	require.NoError(t, NewEngine(coverageFixture(), sink).RegionalPerformance())

	records := readArtifact(t, dir, report.RegionalArtifact)
	require.Len(t, records, 5)
	assert.Equal(t, regionalHeader, records[0])

	// Shares are of the region's national contest votes only, so the
	// mayoral race in P3 never dilutes REGION II.
	assert.Equal(t, []string{"REGION I", "JUAN DELA CRUZ", "60", "80"}, records[1])
	assert.Equal(t, []string{"REGION I", "MARIA CLARA", "15", "20"}, records[2])
	assert.Equal(t, "REGION II", records[3][0])
	assert.Equal(t, "JUAN DELA CRUZ", records[3][1])
	assert.Equal(t, "90", records[3][2])
	assert.Equal(t, "MARIA CLARA", records[4][1])
}

func TestCorrelationTwoPrecincts(t *testing.T) {
	sink, dir := newTestSink(t)
	require.NoError(t, NewEngine(coverageFixture(), sink).Correlation())

	var result CorrelationResult
	readJSONArtifact(t, dir, report.CorrelationArtifact, &result)

	// P1 has both the higher turnout and the higher spoilage rate, and two
	// points always correlate perfectly.
	assert.InDelta(t, 1.0, result.Correlation, 1e-9)
}

func TestCorrelationDegenerate(t *testing.T) {
	tests := []struct {
		name    string
		results []domain.ResultRecord
	}{
		{
			name: "single precinct",
			results: []domain.ResultRecord{
				res("P1", domain.ContestPresident, 10, 60, 2, 1, 80, "2022-05-09 19:03:00"),
			},
		},
		{
			name: "zero variance",
			results: []domain.ResultRecord{
				res("P1", domain.ContestPresident, 10, 60, 2, 1, 80, "2022-05-09 19:03:00"),
				res("P2", domain.ContestPresident, 10, 30, 1, 0, 40, "2022-05-09 19:04:00"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := dataset.New(
				[]domain.Candidate{{Code: 10, Name: "JUAN DELA CRUZ"}},
				[]domain.Contest{{Code: domain.ContestPresident}},
				nil,
				[]domain.Precinct{
					{VCMID: "VCM001", Region: "REGION I", Province: "ILOCOS NORTE", Code: "P1", RegisteredVoters: 100},
					{VCMID: "VCM002", Region: "REGION I", Province: "ILOCOS NORTE", Code: "P2", RegisteredVoters: 50},
				},
				tt.results,
			)

			sink, dir := newTestSink(t)
			require.NoError(t, NewEngine(ds, sink).Correlation())

			var result CorrelationResult
			readJSONArtifact(t, dir, report.CorrelationArtifact, &result)
			assert.Zero(t, result.Correlation)
		})
	}
}

func receptionFixture() *dataset.ElectionDataset {
	precincts := []domain.Precinct{
		{VCMID: "VCM001", Region: "REGION I", Province: "ILOCOS NORTE", Code: "A1", RegisteredVoters: 100},
		{VCMID: "VCM002", Region: "REGION I", Province: "ILOCOS NORTE", Code: "B1", RegisteredVoters: 100},
		{VCMID: "VCM003", Region: "REGION I", Province: "ILOCOS NORTE", Code: "C1", RegisteredVoters: 100},
	}
	results := []domain.ResultRecord{
		res("C1", domain.ContestPresident, 10, 10, 0, 0, 20, "2022-05-09 19:10:20"),
		res("A1", domain.ContestPresident, 10, 10, 0, 0, 20, "2022-05-09 19:03:00"),
		res("B1", domain.ContestPresident, 10, 10, 0, 0, 20, "2022-05-09 19:03:59"),
	}

	return dataset.New(
		[]domain.Candidate{{Code: 10, Name: "JUAN DELA CRUZ"}},
		[]domain.Contest{{Code: domain.ContestPresident}},
		nil, precincts, results)
}

func TestReceptionSeries(t *testing.T) {
	sink, dir := newTestSink(t)
	require.NoError(t, NewEngine(receptionFixture(), sink).ReceptionSeries())

	records := readArtifact(t, dir, report.ReceivedArtifact)
	require.Len(t, records, 4)
	assert.Equal(t, receivedHeader, records[0])

	// Chronological regardless of feed order, with a running total.
	assert.Equal(t, []string{"2022-05-09 19:03:00", "1"}, records[1])
	assert.Equal(t, []string{"2022-05-09 19:03:59", "2"}, records[2])
	assert.Equal(t, []string{"2022-05-09 19:10:20", "3"}, records[3])
}

func TestReceptionSeriesGroupsDuplicateTimestamps(t *testing.T) {
	ds := receptionFixture()
	extra := res("D1", domain.ContestPresident, 10, 5, 0, 0, 10, "2022-05-09 19:03:00")
	ds = dataset.New(ds.Candidates, ds.Contests, ds.Parties,
		append(ds.Precincts, domain.Precinct{VCMID: "VCM004", Region: "REGION I", Province: "ILOCOS NORTE", Code: "D1", RegisteredVoters: 50}),
		append(ds.Results, extra))

	sink, dir := newTestSink(t)
	require.NoError(t, NewEngine(ds, sink).ReceptionSeries())

	records := readArtifact(t, dir, report.ReceivedArtifact)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"2022-05-09 19:03:00", "2"}, records[1])
	assert.Equal(t, []string{"2022-05-09 19:10:20", "4"}, records[3])
}

func TestReceptionSeriesCountsEveryResultRow(t *testing.T) {
	sink, dir := newTestSink(t)
	require.NoError(t, NewEngine(coverageFixture(), sink).ReceptionSeries())

	records := readArtifact(t, dir, report.ReceivedArtifact)
	require.Len(t, records, 3)

	// P1's batch carries two contest rows and P3's three, all stamped with
	// their machine's timestamp; the series counts rows, not machines.
	assert.Equal(t, []string{"2022-05-09 19:03:00", "2"}, records[1])
	assert.Equal(t, []string{"2022-05-09 19:10:20", "5"}, records[2])
}

func TestReceptionRate(t *testing.T) {
	sink, dir := newTestSink(t)
	require.NoError(t, NewEngine(receptionFixture(), sink).ReceptionRate())

	records := readArtifact(t, dir, report.ReceptionRateArtifact)
	require.Len(t, records, 3)
	assert.Equal(t, receptionRateHeader, records[0])
	assert.Equal(t, []string{"2022-05-09", "19", "3", "2"}, records[1])
	assert.Equal(t, []string{"2022-05-09", "19", "10", "1"}, records[2])
}

func TestReceptionRateCountsEveryResultRow(t *testing.T) {
	sink, dir := newTestSink(t)
	require.NoError(t, NewEngine(coverageFixture(), sink).ReceptionRate())

	records := readArtifact(t, dir, report.ReceptionRateArtifact)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"2022-05-09", "19", "3", "2"}, records[1])
	assert.Equal(t, []string{"2022-05-09", "19", "10", "3"}, records[2])
}

func TestReceptionRateRejectsUnparsedTimestamp(t *testing.T) {
	ds := receptionFixture()
	ds = dataset.New(ds.Candidates, ds.Contests, ds.Parties,
		append(ds.Precincts, domain.Precinct{VCMID: "VCM004", Region: "REGION I", Province: "ILOCOS NORTE", Code: "D1", RegisteredVoters: 50}),
		append(ds.Results, res("D1", domain.ContestPresident, 10, 5, 0, 0, 10, "soon")))

	sink, _ := newTestSink(t)
	err := NewEngine(ds, sink).ReceptionRate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "D1")

	// The raw series report does not need components and still works.
	require.NoError(t, NewEngine(ds, sink).ReceptionSeries())
}

func TestReportsAreNamedAndComplete(t *testing.T) {
	engine := NewEngine(coverageFixture(), nil)

	reports := engine.Reports()
	require.Len(t, reports, 8)

	seen := make(map[string]struct{})
	for _, r := range reports {
		assert.NotEmpty(t, r.Name)
		assert.NotNil(t, r.Run)
		_, dup := seen[r.Name]
		assert.False(t, dup, r.Name)
		seen[r.Name] = struct{}{}
	}
}
