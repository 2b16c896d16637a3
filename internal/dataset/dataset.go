package dataset

import (
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/111110100/ph-election-smartmatic/internal/domain"
	"github.com/111110100/ph-election-smartmatic/internal/logger"
)

// Relation file names under the working directory.
const (
	CandidatesFile = "candidates.csv"
	ContestsFile   = "contests.csv"
	PartiesFile    = "parties.csv"
	PrecinctsFile  = "precincts.csv"
	ResultsFile    = "results.csv"
)

// receptionLayouts covers the timestamp shapes seen across transparency
// server exports; the first matching layout wins.
var receptionLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006 03:04:05 PM",
	"January 02, 2006, 03:04:05 PM",
}

// ElectionDataset is the once-loaded, immutable snapshot of the five input
// relations plus the pre-joined results view. Engines share it read-only;
// nothing mutates it after Load returns, so concurrent report generation
// needs no locking.
type ElectionDataset struct {
	Candidates []domain.Candidate
	Contests   []domain.Contest
	Parties    []domain.Party
	Precincts  []domain.Precinct
	Results    []domain.ResultRecord

	// Joined is every result record left-joined with its precinct's roster
	// attributes. Records whose precinct is missing from the roster are kept
	// with Matched=false.
	Joined []domain.JoinedResult

	candidateNames  map[int64]string
	precinctsByCode map[string]domain.Precinct

	// distinctJoined holds one representative joined row per precinct code,
	// in feed order. Result rows repeat the precinct-level ballot counters on
	// every contest×candidate row, so precinct-level sums must read each
	// precinct exactly once.
	distinctJoined []domain.JoinedResult
}

// New assembles a dataset from already-decoded relations and builds the
// joined view and lookup indexes. Load is the production entry point; New is
// shared with tests and tooling that construct relations in memory.
func New(candidates []domain.Candidate, contests []domain.Contest, parties []domain.Party,
	precincts []domain.Precinct, results []domain.ResultRecord) *ElectionDataset {
	ds := &ElectionDataset{
		Candidates: candidates,
		Contests:   contests,
		Parties:    parties,
		Precincts:  precincts,
		Results:    results,
	}
	ds.buildIndexes()
	ds.join()
	return ds
}

// Load reads the five relations from dir and assembles the dataset.
// Any missing file, missing column or malformed row aborts the load; no
// partial dataset is ever returned.
func Load(dir string) (*ElectionDataset, error) {
	ds := &ElectionDataset{}

	var err error

	ds.Candidates, err = readRelation(relPath(dir, CandidatesFile),
		[]string{"CANDIDATE_CODE", "CANDIDATE_NAME"},
		func(r row) (domain.Candidate, error) {
			code, err := r.int64("CANDIDATE_CODE")
			if err != nil {
				return domain.Candidate{}, err
			}
			return domain.Candidate{Code: code, Name: r.text("CANDIDATE_NAME")}, nil
		})
	if err != nil {
		return nil, err
	}

	ds.Contests, err = readRelation(relPath(dir, ContestsFile),
		[]string{"CONTEST_CODE"},
		func(r row) (domain.Contest, error) {
			code, err := r.int64("CONTEST_CODE")
			if err != nil {
				return domain.Contest{}, err
			}
			return domain.Contest{Code: domain.ContestCode(code)}, nil
		})
	if err != nil {
		return nil, err
	}

	ds.Parties, err = readRelation(relPath(dir, PartiesFile),
		[]string{"PARTY_CODE", "PARTY_NAME"},
		func(r row) (domain.Party, error) {
			code, err := r.int64("PARTY_CODE")
			if err != nil {
				return domain.Party{}, err
			}
			return domain.Party{Code: code, Name: r.text("PARTY_NAME")}, nil
		})
	if err != nil {
		return nil, err
	}

	ds.Precincts, err = readRelation(relPath(dir, PrecinctsFile),
		[]string{"VCM_ID", "REG_NAME", "PRV_NAME", "CLUSTERED_PREC", "REGISTERED_VOTERS"},
		func(r row) (domain.Precinct, error) {
			registered, err := r.int64("REGISTERED_VOTERS")
			if err != nil {
				return domain.Precinct{}, err
			}
			return domain.Precinct{
				VCMID:            r.text("VCM_ID"),
				Region:           r.text("REG_NAME"),
				Province:         r.text("PRV_NAME"),
				Code:             r.text("CLUSTERED_PREC"),
				RegisteredVoters: registered,
			}, nil
		})
	if err != nil {
		return nil, err
	}

	ds.Results, err = readRelation(relPath(dir, ResultsFile),
		[]string{"PRECINCT_CODE", "CONTEST_CODE", "CANDIDATE_CODE", "VOTES_AMOUNT",
			"UNDERVOTE", "OVERVOTE", "NUMBER_VOTERS", "RECEPTION_DATE"},
		decodeResult)
	if err != nil {
		return nil, err
	}

	ds = New(ds.Candidates, ds.Contests, ds.Parties, ds.Precincts, ds.Results)

	logger.Debug("Dataset loaded",
		zap.Int("candidates", len(ds.Candidates)),
		zap.Int("contests", len(ds.Contests)),
		zap.Int("parties", len(ds.Parties)),
		zap.Int("precincts", len(ds.Precincts)),
		zap.Int("results", len(ds.Results)),
	)

	return ds, nil
}

func relPath(dir, name string) string {
	return filepath.Join(dir, name)
}

func decodeResult(r row) (domain.ResultRecord, error) {
	rec := domain.ResultRecord{
		PrecinctCode:  r.text("PRECINCT_CODE"),
		ReceptionDate: r.text("RECEPTION_DATE"),
	}

	contest, err := r.int64("CONTEST_CODE")
	if err != nil {
		return rec, err
	}
	rec.ContestCode = domain.ContestCode(contest)

	if rec.CandidateCode, err = r.int64("CANDIDATE_CODE"); err != nil {
		return rec, err
	}
	if rec.Votes, err = r.int64("VOTES_AMOUNT"); err != nil {
		return rec, err
	}
	if rec.Undervote, err = r.int64("UNDERVOTE"); err != nil {
		return rec, err
	}
	if rec.Overvote, err = r.int64("OVERVOTE"); err != nil {
		return rec, err
	}
	if rec.NumberVoters, err = r.int64("NUMBER_VOTERS"); err != nil {
		return rec, err
	}

	rec.ReceivedAt = ParseReception(rec.ReceptionDate)

	return rec, nil
}

// ParseReception parses a reception timestamp, returning the zero time when
// no known layout matches. Chronological sorts fall back to raw-string order
// for unparsed values.
func ParseReception(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range receptionLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// buildIndexes precomputes the lookup maps used by the engines.
func (ds *ElectionDataset) buildIndexes() {
	ds.candidateNames = make(map[int64]string, len(ds.Candidates))
	for _, c := range ds.Candidates {
		ds.candidateNames[c.Code] = c.Name
	}

	ds.precinctsByCode = make(map[string]domain.Precinct, len(ds.Precincts))
	for _, p := range ds.Precincts {
		ds.precinctsByCode[p.Code] = p
	}
}

// join builds the left-joined results view and the per-precinct distinct
// subset.
func (ds *ElectionDataset) join() {
	ds.Joined = make([]domain.JoinedResult, 0, len(ds.Results))
	seen := make(map[string]struct{}, len(ds.Precincts))

	for _, rec := range ds.Results {
		jr := domain.JoinedResult{ResultRecord: rec}
		if p, ok := ds.precinctsByCode[rec.PrecinctCode]; ok {
			jr.Region = p.Region
			jr.Province = p.Province
			jr.RegisteredVoters = p.RegisteredVoters
			jr.Matched = true
		}
		ds.Joined = append(ds.Joined, jr)

		if _, dup := seen[rec.PrecinctCode]; !dup {
			seen[rec.PrecinctCode] = struct{}{}
			ds.distinctJoined = append(ds.distinctJoined, jr)
		}
	}
}

// CandidateName resolves a candidate code to its display name.
func (ds *ElectionDataset) CandidateName(code int64) (string, bool) {
	name, ok := ds.candidateNames[code]
	return name, ok
}

// PrecinctByCode resolves a clustered precinct code from the roster.
func (ds *ElectionDataset) PrecinctByCode(code string) (domain.Precinct, bool) {
	p, ok := ds.precinctsByCode[code]
	return p, ok
}

// DistinctByPrecinct returns one joined row per transmitted precinct, in feed
// order. Callers must not mutate the returned slice.
func (ds *ElectionDataset) DistinctByPrecinct() []domain.JoinedResult {
	return ds.distinctJoined
}

// ReportingPrecincts returns the number of distinct precincts with at least
// one result row.
func (ds *ElectionDataset) ReportingPrecincts() int {
	return len(ds.distinctJoined)
}

// LocalContestCodes returns every non-national contest code from the contests
// relation, deduplicated and sorted ascending.
func (ds *ElectionDataset) LocalContestCodes() []domain.ContestCode {
	seen := make(map[domain.ContestCode]struct{}, len(ds.Contests))
	codes := make([]domain.ContestCode, 0, len(ds.Contests))
	for _, c := range ds.Contests {
		if c.Code.IsNational() {
			continue
		}
		if _, dup := seen[c.Code]; dup {
			continue
		}
		seen[c.Code] = struct{}{}
		codes = append(codes, c.Code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	return codes
}
