package pipeline

import (
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/111110100/ph-election-smartmatic/internal/dataset"
)

// previewRows caps the joined-view sample printed by read-results.
const previewRows = 10

// readResults prints a console preview of the loaded dataset: per relation
// row counts and the first rows of the joined view.
func (p *Pipeline) readResults() error {
	counts := tablewriter.NewWriter(p.preview)
	counts.SetHeader([]string{"Relation", "Rows"})
	counts.Append([]string{dataset.CandidatesFile, strconv.Itoa(len(p.ds.Candidates))})
	counts.Append([]string{dataset.ContestsFile, strconv.Itoa(len(p.ds.Contests))})
	counts.Append([]string{dataset.PartiesFile, strconv.Itoa(len(p.ds.Parties))})
	counts.Append([]string{dataset.PrecinctsFile, strconv.Itoa(len(p.ds.Precincts))})
	counts.Append([]string{dataset.ResultsFile, strconv.Itoa(len(p.ds.Results))})
	counts.Append([]string{"reporting precincts", strconv.Itoa(p.ds.ReportingPrecincts())})
	counts.Render()

	sample := tablewriter.NewWriter(p.preview)
	sample.SetHeader([]string{"Precinct", "Contest", "Candidate", "Votes", "Province", "Reception"})
	for i, r := range p.ds.Joined {
		if i == previewRows {
			break
		}
		sample.Append([]string{
			r.PrecinctCode,
			strconv.FormatInt(int64(r.ContestCode), 10),
			strconv.FormatInt(r.CandidateCode, 10),
			strconv.FormatInt(r.Votes, 10),
			r.Province,
			r.ReceptionDate,
		})
	}
	sample.Render()

	return nil
}
