package gpu

// Stage groups release actions. Stages are released in declaration order, most dependent first;
// releasing out of this order is a use-after-free at the driver level.
type Stage int

const (
	StageImageViews Stage = iota
	StageSwapchain
	StageDevice
	StageDebugMessenger
	StageSurface
	StageInstance
	StageWindow

	stageCount
)

var stageNames = [...]string{
	StageImageViews:     "image views",
	StageSwapchain:      "swapchain",
	StageDevice:         "device",
	StageDebugMessenger: "debug messenger",
	StageSurface:        "surface",
	StageInstance:       "instance",
	StageWindow:         "window",
}

func (s Stage) String() string {
	if s < 0 || s >= stageCount {
		return "unknown"
	}
	return stageNames[s]
}

// Teardown collects release actions as resources are created and runs them in stage order.
type Teardown struct {
	stages [stageCount][]func()
}

// Add registers release for stage. Actions within one stage run in reverse registration order.
func (t *Teardown) Add(stage Stage, release func()) {
	t.stages[stage] = append(t.stages[stage], release)
}

// ReleaseStage runs and forgets the actions of a single stage.
func (t *Teardown) ReleaseStage(stage Stage) {
	actions := t.stages[stage]
	t.stages[stage] = nil
	for i := len(actions) - 1; i >= 0; i-- {
		actions[i]()
	}
}

// Release runs every registered action once, in stage order.
func (t *Teardown) Release() {
	for stage := Stage(0); stage < stageCount; stage++ {
		t.ReleaseStage(stage)
	}
}
