package output

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/ampere-ops/payplan/internal/domain"
	"github.com/ampere-ops/payplan/internal/recommend"
)

// Report modes
const (
	ModeSimulate  = "simulate"
	ModeReverse   = "reverse"
	ModeRecommend = "recommend"
)

// Report is what every formatter renders: a batch of conditions and,
// for the recommend mode, the chosen plan
type Report struct {
	Title          string                    `json:"title"`
	Mode           string                    `json:"mode"`
	GeneratedAt    time.Time                 `json:"generatedAt"`
	Conditions     []domain.Condition        `json:"conditions"`
	Recommendation *recommend.Recommendation `json:"recommendation,omitempty"`
}

// NewReport stamps a batch of conditions with a title and the current time
func NewReport(mode string, conditions []domain.Condition) *Report {
	return &Report{
		Title:       titleFor(mode),
		Mode:        mode,
		GeneratedAt: time.Now(),
		Conditions:  conditions,
	}
}

func titleFor(mode string) string {
	switch mode {
	case ModeReverse:
		return "Condições pela Capacidade de Pagamento"
	case ModeRecommend:
		return "Condição Recomendada"
	default:
		return "Simulação de Condições Comerciais"
	}
}

// Formatter renders a report into bytes
type Formatter interface {
	Name() string
	Format(report *Report) ([]byte, error)
}

// FormatterFunc adapts a plain function into a Formatter
type FormatterFunc struct {
	ID string
	F  func(report *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(report *Report) ([]byte, error) { return f.F(report) }

var formatters = map[string]Formatter{}

// aliases map alternative names onto registered formatters
var aliases = map[string]string{
	"table":   "console",
	"verbose": "console-verbose",
	"excel":   "xlsx",
}

func register(f Formatter) {
	formatters[f.Name()] = f
}

func init() {
	register(ConsoleFormatter{})
	register(ConsoleVerboseFormatter{})
	register(CSVSummarizer{})
	register(DetailedCSVFormatter{})
	register(JSONFormatter{})
	register(XLSXFormatter{})
}

// GetFormatterByName returns the formatter registered under name or one of
// its aliases, or nil
func GetFormatterByName(name string) Formatter {
	if target, ok := aliases[name]; ok {
		name = target
	}
	return formatters[name]
}

// AvailableFormatterNames lists registered formatter names, sorted
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists the accepted aliases, sorted
func AvailableFormatAliases() []string {
	names := make([]string, 0, len(aliases))
	for alias := range aliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names
}

// Extension is the file extension used when a formatter's output is saved
func Extension(f Formatter) string {
	switch f.Name() {
	case "json":
		return "json"
	case "csv", "detailed-csv":
		return "csv"
	case "xlsx":
		return "xlsx"
	default:
		return "txt"
	}
}

// WriteFormatted renders the report and saves it as payplan_report_<timestamp>.<ext>
// in the working directory, returning the file name
func WriteFormatted(f Formatter, report *Report, ext string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("payplan_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}
