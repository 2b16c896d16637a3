package stats

import (
	"github.com/111110100/ph-election-smartmatic/internal/dataset"
	"github.com/111110100/ph-election-smartmatic/internal/report"
)

// Engine derives the transmission, turnout and spoilage statistics from a
// loaded dataset. Every sub-report is independent: each reads the shared
// dataset, writes exactly one artifact and can fail without taking the
// others down.
type Engine struct {
	ds   *dataset.ElectionDataset
	sink *report.Sink
}

// NewEngine returns an engine bound to a loaded dataset and a report sink.
func NewEngine(ds *dataset.ElectionDataset, sink *report.Sink) *Engine {
	return &Engine{ds: ds, sink: sink}
}

// Report is one independently runnable statistics sub-report.
type Report struct {
	Name string
	Run  func() error
}

// Reports lists the sub-reports in a stable order.
func (e *Engine) Reports() []Report {
	return []Report{
		{Name: "map-stats", Run: e.MapStats},
		{Name: "voter-stats", Run: e.VoterStats},
		{Name: "vcm-received", Run: e.ReceptionSeries},
		{Name: "voter-turnout", Run: e.TurnoutByPrecinct},
		{Name: "spoiled-ballots", Run: e.SpoiledBallots},
		{Name: "regional-performance", Run: e.RegionalPerformance},
		{Name: "turnout-spoiled-correlation", Run: e.Correlation},
		{Name: "vcm-reception-rate", Run: e.ReceptionRate},
	}
}

// percentage returns 100*part/whole, or 0 when the denominator is zero.
func percentage(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return 100 * float64(part) / float64(whole)
}
