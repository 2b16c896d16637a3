package pipeline

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/111110100/ph-election-smartmatic/internal/dataset"
	"github.com/111110100/ph-election-smartmatic/internal/logger"
	"github.com/111110100/ph-election-smartmatic/internal/report"
	"github.com/111110100/ph-election-smartmatic/internal/stats"
	"github.com/111110100/ph-election-smartmatic/internal/tally"
)

// Pipeline expands parsed commands into isolated tasks over one loaded
// dataset and hands them to an executor.
type Pipeline struct {
	ds      *dataset.ElectionDataset
	tally   *tally.Engine
	leading *tally.LeadingEngine
	stats   *stats.Engine
	preview io.Writer
}

// New wires the report engines over a loaded dataset and sink.
func New(ds *dataset.ElectionDataset, sink *report.Sink) *Pipeline {
	return &Pipeline{
		ds:      ds,
		tally:   tally.NewEngine(ds, sink),
		leading: tally.NewLeadingEngine(ds, sink),
		stats:   stats.NewEngine(ds, sink),
		preview: os.Stdout,
	}
}

// taskBuilders maps each runnable command to the tasks it contributes. The
// registry is fixed at compile time; ParseCommands guarantees nothing else
// reaches it.
var taskBuilders = map[Command]func(p *Pipeline) []Task{
	CommandTallyNational: func(p *Pipeline) []Task {
		return []Task{{Name: string(CommandTallyNational), Run: p.tally.National}}
	},
	CommandTallyLocal: func(p *Pipeline) []Task {
		return []Task{{Name: string(CommandTallyLocal), Run: p.tally.Local}}
	},
	CommandLeadingByProvince: func(p *Pipeline) []Task {
		return []Task{{Name: string(CommandLeadingByProvince), Run: p.leading.ByProvince}}
	},
	CommandTallyNationalProvince: func(p *Pipeline) []Task {
		return []Task{{Name: string(CommandTallyNationalProvince), Run: p.tally.NationalByProvince}}
	},
	CommandStats: func(p *Pipeline) []Task {
		reports := p.stats.Reports()
		tasks := make([]Task, 0, len(reports))
		for _, r := range reports {
			tasks = append(tasks, Task{Name: "stats/" + r.Name, Run: r.Run})
		}
		return tasks
	},
	CommandReadResults: func(p *Pipeline) []Task {
		return []Task{{Name: string(CommandReadResults), Run: p.readResults}}
	},
}

// Tasks expands commands into their tasks, in command order. The stats
// command fans out to its sub-reports so one bad statistic cannot block the
// rest.
func (p *Pipeline) Tasks(commands []Command) []Task {
	var tasks []Task
	for _, c := range commands {
		if build, ok := taskBuilders[c]; ok {
			tasks = append(tasks, build(p)...)
		}
	}

	logger.Debug("Commands expanded",
		zap.Int("commands", len(commands)),
		zap.Int("tasks", len(tasks)))

	return tasks
}
