package run

// Stage is one phase of the CSF lifecycle. Each stage comprises an
// automation step followed by a change-management step.
type Stage string

const (
	StageIdentify Stage = "identify"
	StageProtect  Stage = "protect"
	StageDetect   Stage = "detect"
	StageRespond  Stage = "respond"
	StageRecover  Stage = "recover"
)

// Stages returns the lifecycle stages in execution order.
func Stages() []Stage {
	return []Stage{StageIdentify, StageProtect, StageDetect, StageRespond, StageRecover}
}

// Valid reports whether the stage is one of the five lifecycle stages.
func (s Stage) Valid() bool {
	switch s {
	case StageIdentify, StageProtect, StageDetect, StageRespond, StageRecover:
		return true
	}
	return false
}

func (s Stage) String() string {
	return string(s)
}
