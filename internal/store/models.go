package store

// Setting keys seeded by the first migration.
const (
	SettingProgram       = "program"
	SettingTimingVariant = "timing_variant"
	SettingCountdownCues = "countdown_cues"
)

type Setting struct {
	Key   string
	Value string
}
