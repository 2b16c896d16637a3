package domain

import (
	"sort"
	"time"
)

// ContestCode identifies a contest in the transmission feed
type ContestCode int64

// The four national contests carry fixed codes in the Smartmatic exports.
// Every other code appearing in the contests relation is a local contest.
const (
	ContestPresident     ContestCode = 199000
	ContestVicePresident ContestCode = 299000
	ContestSenator       ContestCode = 399000
	ContestPartyList     ContestCode = 1199000
)

// NationalContests maps the national contest names to their codes
var NationalContests = map[string]ContestCode{
	"PRESIDENT":      ContestPresident,
	"VICE_PRESIDENT": ContestVicePresident,
	"SENATOR":        ContestSenator,
	"PARTY_LIST":     ContestPartyList,
}

// NationalContestCodes returns the registry's codes sorted ascending, the
// order the tally engines emit their artifacts in.
func NationalContestCodes() []ContestCode {
	codes := make([]ContestCode, 0, len(NationalContests))
	for _, code := range NationalContests {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// IsNational reports whether the code belongs to one of the four national contests
func (c ContestCode) IsNational() bool {
	switch c {
	case ContestPresident, ContestVicePresident, ContestSenator, ContestPartyList:
		return true
	}
	return false
}

// Precinct is one clustered precinct from the precinct roster
type Precinct struct {
	VCMID            string
	Region           string
	Province         string
	Code             string
	RegisteredVoters int64
}

// Candidate is one entry from the candidates relation
type Candidate struct {
	Code int64
	Name string
}

// Contest is one entry from the contests relation; only the code is consumed
type Contest struct {
	Code ContestCode
}

// Party is one entry from the parties relation. The roster is loaded and kept
// for completeness but no report consumes it.
type Party struct {
	Code int64
	Name string
}

// ResultRecord is one transmitted row: the votes one candidate received in one
// contest at one precinct, together with the precinct-level ballot counters
// repeated on every row of that precinct's batch.
type ResultRecord struct {
	PrecinctCode  string
	ContestCode   ContestCode
	CandidateCode int64
	Votes         int64
	Undervote     int64
	Overvote      int64
	NumberVoters  int64

	// ReceptionDate is the raw timestamp string from the feed; ReceivedAt is
	// its parsed form and is the zero time when no known layout matched.
	ReceptionDate string
	ReceivedAt    time.Time
}

// JoinedResult is a result record enriched with its precinct's roster
// attributes. Matched is false when the precinct code is absent from the
// roster; the record is kept regardless, with empty region and province.
type JoinedResult struct {
	ResultRecord

	Region           string
	Province         string
	RegisteredVoters int64
	Matched          bool
}
