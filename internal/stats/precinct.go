package stats

import (
	"math"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/111110100/ph-election-smartmatic/internal/domain"
	"github.com/111110100/ph-election-smartmatic/internal/logger"
	"github.com/111110100/ph-election-smartmatic/internal/report"
)

var turnoutHeader = []string{
	"PRECINCT_CODE", "PRV_NAME", "NUMBER_VOTERS", "REGISTERED_VOTERS", "TURNOUT_PERCENTAGE",
}

var spoiledHeader = []string{
	"PRECINCT_CODE", "PRV_NAME", "UNDERVOTE", "OVERVOTE", "TOTAL_SPOILED", "NUMBER_VOTERS", "SPOILED_PERCENTAGE",
}

// CorrelationResult is the body of turnout_spoiled_correlation.json.
type CorrelationResult struct {
	Correlation float64 `json:"correlation"`
}

// sortedDistinct returns a copy of the distinct reporting rows ordered by
// precinct code.
func (e *Engine) sortedDistinct() []domain.JoinedResult {
	distinct := e.ds.DistinctByPrecinct()
	rows := make([]domain.JoinedResult, len(distinct))
	copy(rows, distinct)
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].PrecinctCode < rows[j].PrecinctCode
	})
	return rows
}

// TurnoutByPrecinct writes one row per distinct reporting precinct with its
// turnout against the registered voters on the roster. Precincts missing
// from the roster keep their row with an empty province and zero registered
// voters.
func (e *Engine) TurnoutByPrecinct() error {
	distinct := e.sortedDistinct()

	rows := make([][]string, 0, len(distinct))
	for _, r := range distinct {
		rows = append(rows, []string{
			r.PrecinctCode,
			r.Province,
			report.Int(r.NumberVoters),
			report.Int(r.RegisteredVoters),
			report.Float(turnoutRate(r)),
		})
	}

	if err := e.sink.WriteCSV(report.TurnoutArtifact, turnoutHeader, rows); err != nil {
		return err
	}

	logger.Info("Turnout by precinct written", zap.Int("precincts", len(rows)))

	return nil
}

// SpoiledBallots writes one row per distinct reporting precinct with its
// undervotes, overvotes and their share of the ballots cast there.
func (e *Engine) SpoiledBallots() error {
	distinct := e.sortedDistinct()

	rows := make([][]string, 0, len(distinct))
	for _, r := range distinct {
		rows = append(rows, []string{
			r.PrecinctCode,
			r.Province,
			report.Int(r.Undervote),
			report.Int(r.Overvote),
			report.Int(r.Undervote + r.Overvote),
			report.Int(r.NumberVoters),
			report.Float(spoiledRate(r)),
		})
	}

	if err := e.sink.WriteCSV(report.SpoiledArtifact, spoiledHeader, rows); err != nil {
		return err
	}

	logger.Info("Spoiled ballot analysis written", zap.Int("precincts", len(rows)))

	return nil
}

// Correlation writes the Pearson correlation between per precinct turnout
// and spoilage rates. Fewer than two precincts, or a series with no
// variance, yields 0 rather than NaN.
func (e *Engine) Correlation() error {
	distinct := e.sortedDistinct()

	turnout := make([]float64, 0, len(distinct))
	spoiled := make([]float64, 0, len(distinct))
	for _, r := range distinct {
		turnout = append(turnout, turnoutRate(r))
		spoiled = append(spoiled, spoiledRate(r))
	}

	var r float64
	if len(distinct) >= 2 {
		r = stat.Correlation(turnout, spoiled, nil)
		if math.IsNaN(r) {
			r = 0
		}
	}

	if err := e.sink.WriteJSON(report.CorrelationArtifact, CorrelationResult{Correlation: r}); err != nil {
		return err
	}

	logger.Info("Turnout/spoilage correlation written",
		zap.Float64("correlation", r),
		zap.Int("precincts", len(distinct)))

	return nil
}

func turnoutRate(r domain.JoinedResult) float64 {
	return percentage(r.NumberVoters, r.RegisteredVoters)
}

func spoiledRate(r domain.JoinedResult) float64 {
	return percentage(r.Undervote+r.Overvote, r.NumberVoters)
}
