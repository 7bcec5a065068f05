package trace

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // plan boundaries, kept in the ring for failure dumps
	LevelPhase        // driver and plan boundaries
	LevelDetail       // function bodies
	LevelDebug        // every emitted or suppressed instruction
)

var levelNames = []string{"off", "error", "phase", "detail", "debug"}

// deepest is the innermost scope each level lets through.
var deepest = [...]Scope{
	LevelError:  ScopePlan,
	LevelPhase:  ScopePlan,
	LevelDetail: ScopeFunc,
	LevelDebug:  ScopeInstr,
}

func (l Level) String() string { return enumName(levelNames, l) }

// ParseLevel accepts the level names in any case.
func ParseLevel(s string) (Level, error) {
	return parseEnum[Level]("level", levelNames, s)
}

// ShouldEmit reports whether events of scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	if l == LevelOff || int(l) >= len(deepest) {
		return false
	}
	return scope <= deepest[l]
}
