package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// CheckStatus is the outcome of a single check. Unrecognized values are kept
// verbatim so they can be reported, and always score like a failure.
type CheckStatus string

// All check statuses recognized by the scoring engine.
const (
	PassStatus CheckStatus = "pass"
	WarnStatus CheckStatus = "warn"
	FailStatus CheckStatus = "fail"
)

// Status multipliers used by the scoring engine.
const (
	PassMultiplier = 1.0
	WarnMultiplier = 0.5
	FailMultiplier = 0.0
)

// ErrChecksNotMapping is returned when a checks document is not a mapping of id to result.
var ErrChecksNotMapping = errors.New("checks document must be a mapping of check id to result")

// Normalize returns the canonical form of a recognized status, or the raw value otherwise.
func (s CheckStatus) Normalize() CheckStatus {
	n := CheckStatus(strings.ToLower(strings.TrimSpace(string(s))))
	switch n {
	case PassStatus, WarnStatus, FailStatus:
		return n
	}
	return s
}

// Known reports whether the status is one of pass, warn or fail.
func (s CheckStatus) Known() bool {
	switch s.Normalize() {
	case PassStatus, WarnStatus, FailStatus:
		return true
	}
	return false
}

// Multiplier maps the status to its share of the check weight.
// Anything that is not a recognized pass or warn counts as a failure.
func (s CheckStatus) Multiplier() float64 {
	switch s.Normalize() {
	case PassStatus:
		return PassMultiplier
	case WarnStatus:
		return WarnMultiplier
	default:
		return FailMultiplier
	}
}

// Weight is the importance a check carries on its own. It decodes leniently:
// values that are not numbers leave it unset rather than failing the decode.
type Weight struct {
	Value float64
	Set   bool
}

// NewWeight returns a Weight holding v.
func NewWeight(v float64) Weight {
	return Weight{Value: v, Set: true}
}

// Valid reports whether the weight is present, finite and non-negative.
func (w Weight) Valid() bool {
	return w.Set && !math.IsNaN(w.Value) && !math.IsInf(w.Value, 0) && w.Value >= 0
}

// MarshalJSON encodes an unset or non-finite weight as null.
func (w Weight) MarshalJSON() ([]byte, error) {
	if !w.Set || math.IsNaN(w.Value) || math.IsInf(w.Value, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(w.Value)
}

// UnmarshalJSON accepts numbers and numeric strings; anything else leaves the weight unset.
func (w *Weight) UnmarshalJSON(data []byte) error {
	*w = Weight{}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	switch v := raw.(type) {
	case float64:
		*w = NewWeight(v)
	case string:
		w.parse(v)
	}
	return nil
}

// UnmarshalYAML accepts numeric scalars; anything else leaves the weight unset.
func (w *Weight) UnmarshalYAML(node *yaml.Node) error {
	*w = Weight{}
	if node.Kind == yaml.ScalarNode && node.Tag != "!!null" {
		w.parse(node.Value)
	}
	return nil
}

func (w *Weight) parse(s string) {
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		*w = NewWeight(f)
	}
}

// CheckResult is the outcome of one check, as produced by the analyzer or supplied by a caller.
type CheckResult struct {
	Status  CheckStatus `json:"status" yaml:"status"`
	Weight  Weight      `json:"weight" yaml:"weight"`
	Label   string      `json:"label,omitempty" yaml:"label,omitempty"`
	FixHint string      `json:"fix_hint,omitempty" yaml:"fix_hint,omitempty"`
}

// UnmarshalYAML decodes a check leniently. Fields of the wrong shape are
// dropped so that one corrupt entry cannot abort a whole checks document.
func (c *CheckResult) UnmarshalYAML(node *yaml.Node) error {
	*c = CheckResult{}
	if node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		val := node.Content[i+1]
		scalar := val.Kind == yaml.ScalarNode && val.Tag != "!!null"
		switch strings.ToLower(node.Content[i].Value) {
		case "status":
			if scalar {
				c.Status = CheckStatus(val.Value)
			}
		case "weight":
			_ = c.Weight.UnmarshalYAML(val)
		case "label":
			if scalar {
				c.Label = val.Value
			}
		case "fix_hint", "fixhint", "fix":
			if scalar {
				c.FixHint = val.Value
			}
		}
	}
	return nil
}

// ParseChecks decodes a JSON or YAML document mapping check ids to results.
// Only a document that is not a mapping is an error; malformed entries degrade to defaults.
func ParseChecks(data []byte) (map[string]CheckResult, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse checks: %w", err)
	}

	checks := make(map[string]CheckResult)
	doc := &root
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return checks, nil
		}
		doc = doc.Content[0]
	}
	if doc.Kind == 0 {
		return checks, nil
	}
	if doc.Kind != yaml.MappingNode {
		return nil, ErrChecksNotMapping
	}

	for i := 0; i+1 < len(doc.Content); i += 2 {
		id := strings.TrimSpace(doc.Content[i].Value)
		if id == "" {
			continue
		}
		var result CheckResult
		_ = result.UnmarshalYAML(doc.Content[i+1])
		checks[id] = result
	}
	return checks, nil
}

// Breakdown records how a single check contributed to the aggregate score.
type Breakdown struct {
	Status       CheckStatus `json:"status"`
	Label        string      `json:"label"`
	Weight       float64     `json:"weight"`       // Effective weight after resolution
	Multiplier   float64     `json:"multiplier"`   // 1.0 pass, 0.5 warn, 0.0 otherwise
	Contribution float64     `json:"contribution"` // Weight * Multiplier
}

// AggregateResult is the weighted score over a set of checks.
type AggregateResult struct {
	Score           int                  `json:"score"`        // 0-100
	Status          ScoreStatus          `json:"status"`       // green, yellow or red
	WeightTotal     float64              `json:"weight_total"` // Sum of effective weights
	Breakdown       map[string]Breakdown `json:"breakdown"`
	Recommendations []string             `json:"recommendations"`
}
