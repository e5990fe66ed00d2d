package engine

// DifficultyProfile holds the hand-tuned search parameters for one CPU
// strength level. Profiles are immutable; look one up with ProfileForLevel.
type DifficultyProfile struct {
	Level            int  `json:"level"`
	MinDepth         int  `json:"min_depth"`
	TargetDepth      int  `json:"target_depth"`
	MaxDepth         int  `json:"max_depth"`
	BeamWidth        int  `json:"beam_width"`
	QuiescenceDepth  int  `json:"quiescence_depth"`
	AspirationWindow int  `json:"aspiration_window"` // centipawns, 0 disables
	FullEval         bool `json:"full_eval"`
	UseBook          bool `json:"use_book"`
	Deterministic    bool `json:"deterministic"`
}

const (
	MinLevel = 1
	MaxLevel = 8
)

// Tuning constants, not invariants. Widths/depths scale roughly with level;
// the top two levels disable all randomized variety.
var profiles = [MaxLevel]DifficultyProfile{
	{Level: 1, MinDepth: 1, TargetDepth: 1, MaxDepth: 2, BeamWidth: 4, QuiescenceDepth: 0, AspirationWindow: 0, FullEval: false, UseBook: true},
	{Level: 2, MinDepth: 1, TargetDepth: 2, MaxDepth: 2, BeamWidth: 5, QuiescenceDepth: 0, AspirationWindow: 0, FullEval: false, UseBook: true},
	{Level: 3, MinDepth: 1, TargetDepth: 2, MaxDepth: 3, BeamWidth: 6, QuiescenceDepth: 2, AspirationWindow: 0, FullEval: true, UseBook: true},
	{Level: 4, MinDepth: 2, TargetDepth: 3, MaxDepth: 4, BeamWidth: 8, QuiescenceDepth: 3, AspirationWindow: 0, FullEval: true, UseBook: true},
	{Level: 5, MinDepth: 2, TargetDepth: 3, MaxDepth: 5, BeamWidth: 10, QuiescenceDepth: 4, AspirationWindow: 50, FullEval: true, UseBook: true},
	{Level: 6, MinDepth: 2, TargetDepth: 4, MaxDepth: 6, BeamWidth: 12, QuiescenceDepth: 4, AspirationWindow: 40, FullEval: true, UseBook: true},
	{Level: 7, MinDepth: 3, TargetDepth: 5, MaxDepth: 7, BeamWidth: 16, QuiescenceDepth: 6, AspirationWindow: 30, FullEval: true, UseBook: true, Deterministic: true},
	{Level: 8, MinDepth: 3, TargetDepth: 6, MaxDepth: 9, BeamWidth: 20, QuiescenceDepth: 8, AspirationWindow: 25, FullEval: true, UseBook: true, Deterministic: true},
}

// ProfileForLevel returns the profile for the given level, clamping
// out-of-range levels to the nearest valid one.
func ProfileForLevel(level int) DifficultyProfile {
	if level < MinLevel {
		level = MinLevel
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return profiles[level-1]
}

// Profiles returns all difficulty profiles, weakest first.
func Profiles() []DifficultyProfile {
	res := make([]DifficultyProfile, MaxLevel)
	copy(res, profiles[:])
	return res
}
