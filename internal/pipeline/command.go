package pipeline

import (
	"fmt"

	"github.com/111110100/ph-election-smartmatic/internal/domain"
)

// Command selects one unit of report generation work.
type Command string

const (
	CommandTallyNational         Command = "tally-national"
	CommandTallyLocal            Command = "tally-local"
	CommandLeadingByProvince     Command = "leading-candidate-province"
	CommandTallyNationalProvince Command = "tally-national-province"
	CommandStats                 Command = "stats"
	CommandReadResults           Command = "read-results"
	CommandAll                   Command = "all"
)

// Commands lists every accepted command in display order.
func Commands() []Command {
	return []Command{
		CommandTallyNational,
		CommandTallyLocal,
		CommandLeadingByProvince,
		CommandTallyNationalProvince,
		CommandStats,
		CommandReadResults,
		CommandAll,
	}
}

// reportCommands is what "all" expands to. read-results is a debugging
// preview and runs only when named explicitly.
var reportCommands = []Command{
	CommandTallyNational,
	CommandTallyLocal,
	CommandLeadingByProvince,
	CommandTallyNationalProvince,
	CommandStats,
}

// ParseCommands validates the raw arguments, expands "all" and deduplicates
// while keeping first-mention order. It runs before any data is read, so an
// unknown name fails the invocation with nothing written.
func ParseCommands(args []string) ([]Command, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: no command given", domain.ErrUnknownCommand)
	}

	valid := make(map[Command]struct{})
	for _, c := range Commands() {
		valid[c] = struct{}{}
	}

	seen := make(map[Command]struct{})
	commands := make([]Command, 0, len(args))
	add := func(c Command) {
		if _, dup := seen[c]; dup {
			return
		}
		seen[c] = struct{}{}
		commands = append(commands, c)
	}

	for _, arg := range args {
		c := Command(arg)
		if _, ok := valid[c]; !ok {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCommand, arg)
		}
		if c == CommandAll {
			for _, rc := range reportCommands {
				add(rc)
			}
			continue
		}
		add(c)
	}

	return commands, nil
}
