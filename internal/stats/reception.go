package stats

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/111110100/ph-election-smartmatic/internal/logger"
	"github.com/111110100/ph-election-smartmatic/internal/report"
)

var receivedHeader = []string{"RECEPTION_DATE", "VCM_RECEIVED"}

var receptionRateHeader = []string{"RECEPTION_DATE", "HOUR", "MINUTE", "VCM_COUNT"}

type receptionBucket struct {
	raw   string
	when  time.Time
	count int64
}

// ReceptionSeries writes the running count of received result rows per
// reported timestamp, chronologically. A transmitting machine contributes one
// row per contest and candidate, all carrying the same timestamp. Timestamps
// no layout matched sort ahead of the parsed ones, ordered by their raw value.
func (e *Engine) ReceptionSeries() error {
	byRaw := make(map[string]*receptionBucket)
	for _, r := range e.ds.Results {
		b := byRaw[r.ReceptionDate]
		if b == nil {
			b = &receptionBucket{raw: r.ReceptionDate, when: r.ReceivedAt}
			byRaw[r.ReceptionDate] = b
		}
		b.count++
	}

	buckets := make([]*receptionBucket, 0, len(byRaw))
	for _, b := range byRaw {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if !buckets[i].when.Equal(buckets[j].when) {
			return buckets[i].when.Before(buckets[j].when)
		}
		return buckets[i].raw < buckets[j].raw
	})

	rows := make([][]string, 0, len(buckets))
	var received int64
	for _, b := range buckets {
		received += b.count
		rows = append(rows, []string{b.raw, report.Int(received)})
	}

	if err := e.sink.WriteCSV(report.ReceivedArtifact, receivedHeader, rows); err != nil {
		return err
	}

	logger.Info("Reception series written", zap.Int("timestamps", len(rows)))

	return nil
}

// ReceptionRate writes how many result rows arrived in each minute. Unlike
// the series report this one needs the timestamp's components, so a row whose
// RECEPTION_DATE failed to parse is an input error.
func (e *Engine) ReceptionRate() error {
	counts := make(map[time.Time]int64)
	for _, r := range e.ds.Results {
		if r.ReceivedAt.IsZero() {
			return fmt.Errorf("failed to bucket reception time for precinct %s: unparseable RECEPTION_DATE %q",
				r.PrecinctCode, r.ReceptionDate)
		}
		counts[r.ReceivedAt.Truncate(time.Minute)]++
	}

	minutes := make([]time.Time, 0, len(counts))
	for m := range counts {
		minutes = append(minutes, m)
	}
	sort.Slice(minutes, func(i, j int) bool { return minutes[i].Before(minutes[j]) })

	rows := make([][]string, 0, len(minutes))
	for _, m := range minutes {
		rows = append(rows, []string{
			m.Format("2006-01-02"),
			strconv.Itoa(m.Hour()),
			strconv.Itoa(m.Minute()),
			report.Int(counts[m]),
		})
	}

	if err := e.sink.WriteCSV(report.ReceptionRateArtifact, receptionRateHeader, rows); err != nil {
		return err
	}

	logger.Info("Reception rate written", zap.Int("minutes", len(rows)))

	return nil
}
