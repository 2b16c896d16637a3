package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/111110100/ph-election-smartmatic/internal/config"
	"github.com/111110100/ph-election-smartmatic/internal/dataset"
	"github.com/111110100/ph-election-smartmatic/internal/domain"
	"github.com/111110100/ph-election-smartmatic/internal/progress"
)

// Config holds the generation knobs.
type Config struct {
	OutDir      string
	EnvPath     string
	Precincts   int
	Unmatched   int
	Transmitted float64
	Seed        int64
}

// receptionBase is the evening the polls close; transmissions trail off over
// the following day.
var receptionBase = time.Date(2022, time.May, 9, 19, 0, 0, 0, time.UTC)

func main() {
	cfg := parseFlags()

	appCfg, err := config.Load(cfg.EnvPath)
	if err != nil {
		color.Red("Error: failed to load config: %v", err)
		os.Exit(1)
	}
	if cfg.OutDir != "" {
		appCfg.WorkingDir = cfg.OutDir
	}

	g := newGenerator(cfg)
	g.build()

	fmt.Printf("Generating %d precincts across %d provinces (seed %d)\n",
		cfg.Precincts, len(provinceRoster), cfg.Seed)

	if err := g.write(appCfg); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}

	verify(appCfg.WorkingDir)
}

func parseFlags() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.OutDir, "out", "", "Output directory (default: WORKING_DIR from the environment)")
	flag.StringVar(&cfg.EnvPath, "env", "", "Path to an optional .env overrides file")
	flag.IntVar(&cfg.Precincts, "precincts", 2000, "Number of roster precincts to generate")
	flag.IntVar(&cfg.Unmatched, "unmatched", 0, "Reporting precincts to leave out of the roster")
	flag.Float64Var(&cfg.Transmitted, "transmitted", 96, "Share of precincts that transmit, in percent")
	flag.Int64Var(&cfg.Seed, "seed", 2022, "PRNG seed; the same seed reproduces the same relations")

	flag.Parse()

	if cfg.Precincts <= 0 {
		cfg.Precincts = 2000
	}
	if cfg.Unmatched < 0 {
		cfg.Unmatched = 0
	}
	if cfg.Transmitted < 0 {
		cfg.Transmitted = 0
	}
	if cfg.Transmitted > 100 {
		cfg.Transmitted = 100
	}

	return cfg
}

type party struct {
	code int64
	name string
}

type candidate struct {
	code   int64
	name   string
	party  int64
	weight float64
}

type contest struct {
	code domain.ContestCode
	name string

	// participation scales ballots cast into the contest's vote pool. Values
	// above 1 model multi-seat contests where each ballot carries several
	// votes.
	participation float64

	candidates []candidate
}

type precinct struct {
	vcmID      string
	code       string
	region     string
	province   string
	registered int
}

type generator struct {
	cfg *Config
	rng *rand.Rand

	parties   []party
	national  []*contest
	locals    map[string][]*contest
	precincts []precinct

	usedNames map[string]bool
	nextCode  int64
}

func newGenerator(cfg *Config) *generator {
	return &generator{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(cfg.Seed)),
		locals:    make(map[string][]*contest),
		usedNames: make(map[string]bool),
		nextCode:  1,
	}
}

func (g *generator) build() {
	g.buildParties()
	g.buildContests()
	g.buildPrecincts()
}

func (g *generator) buildParties() {
	g.parties = make([]party, 0, len(partyNames))
	for i, name := range partyNames {
		g.parties = append(g.parties, party{code: int64(3301 + i), name: name})
	}
}

func (g *generator) buildContests() {
	national := []struct {
		code          domain.ContestCode
		name          string
		participation float64
		seats         int
	}{
		{domain.ContestPresident, "PRESIDENT PHILIPPINES", 0.97, 10},
		{domain.ContestVicePresident, "VICE PRESIDENT PHILIPPINES", 0.94, 9},
		{domain.ContestSenator, "SENATOR PHILIPPINES", 7.5, 64},
		{domain.ContestPartyList, "PARTY LIST PHILIPPINES", 0.82, 40},
	}

	for _, n := range national {
		c := &contest{code: n.code, name: n.name, participation: n.participation}
		for i := 0; i < n.seats; i++ {
			name := g.candidateName()
			if n.code == domain.ContestPartyList {
				name = g.partyListName()
			}
			c.candidates = append(c.candidates, g.newCandidate(name))
		}
		g.national = append(g.national, c)
	}

	for i, seat := range provinceRoster {
		base := domain.ContestCode(5001 + i*100)
		gov := g.localContest(base, "PROVINCIAL GOVERNOR "+seat.province, 0.90, 2+g.rng.Intn(4))
		vice := g.localContest(base+1, "PROVINCIAL VICE-GOVERNOR "+seat.province, 0.85, 2+g.rng.Intn(3))
		g.locals[seat.province] = []*contest{gov, vice}
	}
}

func (g *generator) localContest(code domain.ContestCode, name string, participation float64, seats int) *contest {
	c := &contest{code: code, name: name, participation: participation}
	for i := 0; i < seats; i++ {
		c.candidates = append(c.candidates, g.newCandidate(g.candidateName()))
	}
	return c
}

func (g *generator) newCandidate(name string) candidate {
	c := candidate{
		code:   g.nextCode,
		name:   name,
		party:  g.parties[g.rng.Intn(len(g.parties))].code,
		weight: 0.2 + g.rng.ExpFloat64(),
	}
	g.nextCode++
	return c
}

// candidateName draws an unused "SURNAME, GIVENNAME" combination.
func (g *generator) candidateName() string {
	for {
		name := surnames[g.rng.Intn(len(surnames))] + ", " + givenNames[g.rng.Intn(len(givenNames))]
		if !g.usedNames[name] {
			g.usedNames[name] = true
			return name
		}
	}
}

func (g *generator) partyListName() string {
	for {
		name := partyListPrefixes[g.rng.Intn(len(partyListPrefixes))] + " " +
			partyListSectors[g.rng.Intn(len(partyListSectors))]
		if !g.usedNames[name] {
			g.usedNames[name] = true
			return name
		}
	}
}

func (g *generator) buildPrecincts() {
	g.precincts = make([]precinct, 0, g.cfg.Precincts)
	for i := 0; i < g.cfg.Precincts; i++ {
		seat := provinceRoster[i%len(provinceRoster)]
		g.precincts = append(g.precincts, precinct{
			vcmID:      strconv.Itoa(70000000 + i),
			code:       strconv.Itoa(10000000 + i),
			region:     seat.region,
			province:   seat.province,
			registered: 400 + g.rng.Intn(700),
		})
	}
}

func (g *generator) write(appCfg *config.Config) error {
	if err := os.MkdirAll(appCfg.WorkingDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", appCfg.WorkingDir, err)
	}

	if err := g.writeCandidates(appCfg.RelationPath(dataset.CandidatesFile)); err != nil {
		return err
	}
	if err := g.writeContests(appCfg.RelationPath(dataset.ContestsFile)); err != nil {
		return err
	}
	if err := g.writeParties(appCfg.RelationPath(dataset.PartiesFile)); err != nil {
		return err
	}
	if err := g.writePrecincts(appCfg.RelationPath(dataset.PrecinctsFile)); err != nil {
		return err
	}
	return g.writeResults(appCfg.RelationPath(dataset.ResultsFile))
}

// writeRelation streams one pipe-delimited relation with its header row.
func writeRelation(path string, header []string, rows func(w *csv.Writer) error) error {
	f, err := os.Create(path) //nolint:gosec,G304
	if err != nil {
		return fmt.Errorf("failed to create relation %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	w.Comma = '|'

	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("failed to write header of %s: %w", path, err)
	}
	if err := rows(w); err != nil {
		f.Close()
		return err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush relation %s: %w", path, err)
	}
	return f.Close()
}

func (g *generator) allContests() []*contest {
	out := make([]*contest, 0, len(g.national)+2*len(provinceRoster))
	out = append(out, g.national...)
	for _, seat := range provinceRoster {
		out = append(out, g.locals[seat.province]...)
	}
	return out
}

func (g *generator) writeCandidates(path string) error {
	return writeRelation(path,
		[]string{"CANDIDATE_CODE", "CONTEST_CODE", "CANDIDATE_NAME", "PARTY_CODE"},
		func(w *csv.Writer) error {
			for _, c := range g.allContests() {
				for _, cand := range c.candidates {
					row := []string{
						strconv.FormatInt(cand.code, 10),
						strconv.FormatInt(int64(c.code), 10),
						cand.name,
						strconv.FormatInt(cand.party, 10),
					}
					if err := w.Write(row); err != nil {
						return fmt.Errorf("failed to write candidate row: %w", err)
					}
				}
			}
			return nil
		})
}

func (g *generator) writeContests(path string) error {
	return writeRelation(path,
		[]string{"CONTEST_CODE", "CONTEST_NAME"},
		func(w *csv.Writer) error {
			for _, c := range g.allContests() {
				row := []string{strconv.FormatInt(int64(c.code), 10), c.name}
				if err := w.Write(row); err != nil {
					return fmt.Errorf("failed to write contest row: %w", err)
				}
			}
			return nil
		})
}

func (g *generator) writeParties(path string) error {
	return writeRelation(path,
		[]string{"PARTY_CODE", "PARTY_NAME"},
		func(w *csv.Writer) error {
			for _, p := range g.parties {
				row := []string{strconv.FormatInt(p.code, 10), p.name}
				if err := w.Write(row); err != nil {
					return fmt.Errorf("failed to write party row: %w", err)
				}
			}
			return nil
		})
}

func (g *generator) writePrecincts(path string) error {
	return writeRelation(path,
		[]string{"VCM_ID", "REG_NAME", "PRV_NAME", "CLUSTERED_PREC", "REGISTERED_VOTERS"},
		func(w *csv.Writer) error {
			for _, p := range g.precincts {
				row := []string{p.vcmID, p.region, p.province, p.code, strconv.Itoa(p.registered)}
				if err := w.Write(row); err != nil {
					return fmt.Errorf("failed to write precinct row: %w", err)
				}
			}
			return nil
		})
}

func (g *generator) writeResults(path string) error {
	prog := progress.New(len(g.precincts), "precincts", false)

	err := writeRelation(path,
		[]string{"PRECINCT_CODE", "CONTEST_CODE", "CANDIDATE_CODE", "VOTES_AMOUNT",
			"UNDERVOTE", "OVERVOTE", "NUMBER_VOTERS", "RECEPTION_DATE"},
		func(w *csv.Writer) error {
			for _, p := range g.precincts {
				if g.rng.Float64()*100 >= g.cfg.Transmitted {
					prog.Add(1)
					continue
				}
				if err := g.emitPrecinct(w, p, g.locals[p.province]); err != nil {
					return err
				}
				prog.Add(1)
			}

			// Unmatched precincts transmit results without a roster entry;
			// they get no local contests because no province is known.
			for i := 0; i < g.cfg.Unmatched; i++ {
				orphan := precinct{
					code:       strconv.Itoa(99000000 + i),
					registered: 500 + g.rng.Intn(300),
				}
				if err := g.emitPrecinct(w, orphan, nil); err != nil {
					return err
				}
			}
			return nil
		})

	prog.Finish()
	return err
}

// emitPrecinct writes every contest×candidate row of one transmitting
// precinct. The ballot counters and reception timestamp repeat on each row,
// matching the shape of the transparency exports.
func (g *generator) emitPrecinct(w *csv.Writer, p precinct, locals []*contest) error {
	voters := int(float64(p.registered) * (0.55 + g.rng.Float64()*0.35))
	under := g.rng.Intn(voters/12 + 1)
	over := g.rng.Intn(voters/60 + 1)
	received := g.receptionTime().Format("2006-01-02 15:04:05")

	contests := make([]*contest, 0, len(g.national)+len(locals))
	contests = append(contests, g.national...)
	contests = append(contests, locals...)

	for _, c := range contests {
		votes := g.allocate(int(float64(voters)*c.participation), c.candidates)
		for i, cand := range c.candidates {
			row := []string{
				p.code,
				strconv.FormatInt(int64(c.code), 10),
				strconv.FormatInt(cand.code, 10),
				strconv.FormatInt(votes[i], 10),
				strconv.Itoa(under),
				strconv.Itoa(over),
				strconv.Itoa(voters),
				received,
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("failed to write results row: %w", err)
			}
		}
	}
	return nil
}

// allocate splits a vote pool across candidates by jittered weight. The
// floor keeps the column sum at or below the pool, so a contest never
// collects more votes than its ballots carry.
func (g *generator) allocate(pool int, cands []candidate) []int64 {
	out := make([]int64, len(cands))
	if pool <= 0 {
		return out
	}

	jittered := make([]float64, len(cands))
	var sum float64
	for i, c := range cands {
		jittered[i] = c.weight * (0.7 + g.rng.Float64()*0.6)
		sum += jittered[i]
	}
	if sum == 0 {
		return out
	}

	for i := range cands {
		out[i] = int64(float64(pool) * jittered[i] / sum)
	}
	return out
}

// receptionTime skews transmissions toward the first hours after polls close,
// with a long tail into the next day.
func (g *generator) receptionTime() time.Time {
	minutes := int(g.rng.ExpFloat64() * 120)
	if minutes > 1559 {
		minutes = 1559
	}
	return receptionBase.
		Add(time.Duration(minutes) * time.Minute).
		Add(time.Duration(g.rng.Intn(60)) * time.Second)
}

// verify loads the generated relations back through the production reader and
// prints the row counts.
func verify(dir string) {
	ds, err := dataset.Load(dir)
	if err != nil {
		color.Red("Error: generated relations failed to load back: %v", err)
		os.Exit(1)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Relation", "Rows"})
	table.Append([]string{dataset.CandidatesFile, strconv.Itoa(len(ds.Candidates))})
	table.Append([]string{dataset.ContestsFile, strconv.Itoa(len(ds.Contests))})
	table.Append([]string{dataset.PartiesFile, strconv.Itoa(len(ds.Parties))})
	table.Append([]string{dataset.PrecinctsFile, strconv.Itoa(len(ds.Precincts))})
	table.Append([]string{dataset.ResultsFile, strconv.Itoa(len(ds.Results))})
	table.Append([]string{"reporting precincts", strconv.Itoa(ds.ReportingPrecincts())})
	table.Render()

	color.Green("Relations written to %s", dir)
}
