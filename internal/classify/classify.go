// Package classify assigns domain categories to parsed table records. The
// rule sets are data, not control flow: a YAML table of (match-rule, category)
// pairs evaluated in fixed order, with embedded defaults.
package classify

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hopsdata/beerstats/constants"
	"github.com/hopsdata/beerstats/internal/table"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// TaxStatusRule maps exact labels to a production tax status.
type TaxStatusRule struct {
	Status string   `yaml:"status"`
	Labels []string `yaml:"labels"`
}

// MaterialRule maps label substrings to a material-type bucket.
type MaterialRule struct {
	Type     string   `yaml:"type"`
	Contains []string `yaml:"contains"`
}

// Rules is the full declarative rule set.
type Rules struct {
	TaxStatus []TaxStatusRule `yaml:"tax_status"`
	Materials []MaterialRule  `yaml:"materials"`
}

// ProductionRow is a classified record of the production dataset.
type ProductionRow struct {
	Record    table.Record
	TaxStatus constants.TaxStatus
	TaxRate   string
}

// MaterialsRow is a classified record of the materials dataset.
type MaterialsRow struct {
	Record       table.Record
	MaterialType string
}

// Classifier evaluates the rule tables against record labels. Records
// matching no rule are dropped; that is the intended filter for section
// leftovers and layout noise, not an error.
type Classifier struct {
	rules  Rules
	logger *slog.Logger
}

// New returns a Classifier backed by the embedded default rules.
func New(logger *slog.Logger) *Classifier {
	var rules Rules
	if err := yaml.Unmarshal(defaultRulesYAML, &rules); err != nil {
		// embedded rules are compiled in; a decode failure is a build defect
		panic(fmt.Sprintf("classify: embedded rules: %v", err))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{rules: rules, logger: logger}
}

// Load reads a rules file, overriding the embedded defaults.
func Load(path string, logger *slog.Logger) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	if len(rules.TaxStatus) == 0 || len(rules.Materials) == 0 {
		return nil, fmt.Errorf("rules file %s: both tax_status and materials rule sets are required", path)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{rules: rules, logger: logger}, nil
}

// Production classifies the production segment. Each kept row also gets the
// excise tax rate in force for its report year.
func (c *Classifier) Production(seg table.Segment) []ProductionRow {
	rows := make([]ProductionRow, 0, len(seg.Records))
	dropped := 0
	for _, rec := range seg.Records {
		status, ok := c.taxStatusFor(rec.Label)
		if !ok {
			dropped++
			continue
		}
		rows = append(rows, ProductionRow{
			Record:    rec,
			TaxStatus: status,
			TaxRate:   constants.TaxRateForYear(rec.Year),
		})
	}
	if dropped > 0 {
		c.logger.Debug("classify.production.dropped", "count", dropped)
	}
	return rows
}

// Materials classifies the materials segment. Total rows self-describe: their
// material_type is the label itself rather than a bucket.
func (c *Classifier) Materials(seg table.Segment) []MaterialsRow {
	rows := make([]MaterialsRow, 0, len(seg.Records))
	dropped := 0
	for _, rec := range seg.Records {
		mt, ok := c.materialTypeFor(rec.Label)
		if !ok {
			dropped++
			continue
		}
		rows = append(rows, MaterialsRow{Record: rec, MaterialType: mt})
	}
	if dropped > 0 {
		c.logger.Debug("classify.materials.dropped", "count", dropped)
	}
	return rows
}

func (c *Classifier) taxStatusFor(label string) (constants.TaxStatus, bool) {
	key := foldLabel(label)
	for _, rule := range c.rules.TaxStatus {
		for _, l := range rule.Labels {
			if key == foldLabel(l) {
				return constants.TaxStatus(rule.Status), true
			}
		}
	}
	return "", false
}

func (c *Classifier) materialTypeFor(label string) (string, bool) {
	for _, rule := range c.rules.Materials {
		for _, sub := range rule.Contains {
			if strings.Contains(label, sub) {
				return rule.Type, true
			}
		}
	}
	// totals are self-describing, not bucketed
	if strings.Contains(label, "Total") {
		return label, true
	}
	return "", false
}

// foldLabel makes exact matching insensitive to the thousands-separator strip
// the column splitter applies; "Tax Determined, Premises Use" loses its comma
// before records ever reach the classifier.
func foldLabel(label string) string {
	return strings.TrimSpace(strings.ReplaceAll(label, ",", ""))
}
