package value

// PlanStatus is the lifecycle state of a goal plan computation.
//
//	created -> analyzing -> ready
//	                     -> failed
type PlanStatus string

const (
	PlanStatusCreated   PlanStatus = "created"
	PlanStatusAnalyzing PlanStatus = "analyzing"
	PlanStatusReady     PlanStatus = "ready"
	PlanStatusFailed    PlanStatus = "failed"
)

func (s PlanStatus) Terminal() bool {
	return s == PlanStatusReady || s == PlanStatusFailed
}

func (s PlanStatus) String() string {
	return string(s)
}
