package domain

import "fmt"

// Mode selects the question source and scoring constants of a session.
type Mode string

const (
	ModeQuick        Mode = "quick"
	ModeCategory     Mode = "category"
	ModePersonalized Mode = "personalized"
)

// QuestionSource tells the service where a mode's questions come from.
type QuestionSource string

const (
	// SourceCatalog pre-generates every question from the catalog at start.
	SourceCatalog QuestionSource = "catalog"
	// SourceRemote fetches questions one at a time from a remote session,
	// falling back to the catalog when no remote source is configured.
	SourceRemote QuestionSource = "remote"
)

// ModeConfig holds the per-mode constants. The values are shared with the
// backend and must not drift.
type ModeConfig struct {
	Mode                Mode           `json:"mode"`
	QuestionCount       int            `json:"questionCount"`
	TimeLimitSeconds    int            `json:"timeLimitSeconds"`
	BaseScore           float64        `json:"baseScore"`
	SpeedBonusPerSecond float64        `json:"speedBonusPerSecond"`
	OptionCount         int            `json:"optionCount"`
	RequiresCategory    bool           `json:"requiresCategory"`
	Source              QuestionSource `json:"source"`
}

var modes = []ModeConfig{
	{
		Mode:                ModeQuick,
		QuestionCount:       5,
		TimeLimitSeconds:    30,
		BaseScore:           20,
		SpeedBonusPerSecond: 2,
		OptionCount:         3,
		Source:              SourceCatalog,
	},
	{
		Mode:                ModeCategory,
		QuestionCount:       12,
		TimeLimitSeconds:    40,
		BaseScore:           22,
		SpeedBonusPerSecond: 1.5,
		OptionCount:         4,
		RequiresCategory:    true,
		Source:              SourceCatalog,
	},
	{
		Mode:                ModePersonalized,
		QuestionCount:       10,
		TimeLimitSeconds:    45,
		BaseScore:           25,
		SpeedBonusPerSecond: 1.5,
		OptionCount:         4,
		Source:              SourceRemote,
	},
}

// Modes lists every mode in display order.
func Modes() []ModeConfig {
	return append([]ModeConfig(nil), modes...)
}

// LookupMode returns the configuration for m.
func LookupMode(m Mode) (ModeConfig, error) {
	for _, cfg := range modes {
		if cfg.Mode == m {
			return cfg, nil
		}
	}
	return ModeConfig{}, fmt.Errorf("%w: %q", ErrUnknownMode, m)
}

// Score returns a question's contribution given how many seconds were left
// on the countdown when it was recorded.
func (c ModeConfig) Score(correct bool, remainingSeconds int) float64 {
	if !correct {
		return 0
	}
	return c.BaseScore + c.SpeedBonusPerSecond*float64(c.Elapsed(remainingSeconds))
}

// Elapsed converts remaining seconds into seconds spent on a question.
func (c ModeConfig) Elapsed(remainingSeconds int) int {
	elapsed := c.TimeLimitSeconds - remainingSeconds
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
