package model

// CoreNumbers lists the coring runs a core section can belong to.
var CoreNumbers = []string{"C1", "C2", "C3", "C4", "C5", "C6", "C7", "C8", "C9"}

const (
	CoreTypeCore    = "Core"
	CoreTypeCatcher = "Core catcher"

	FromTop    = "Top"
	FromBottom = "Bottom"
)

var (
	CoreTypes         = []string{CoreTypeCore, CoreTypeCatcher}
	FromTopBottoms    = []string{FromTop, FromBottom}
	SampleStates      = []string{"Wet washed", "Wet unwashed", "Dry washed"}
	DrillingMuds      = []string{"Water-based mud", "Oil-based mud"}
	CoringMethods     = []string{"Motor", "Rotary", "Both"}
	DrillingMethods   = []string{"Rotary", "Motor", "Both"}
	CoreStatuses      = []string{"Preserved", "Opened"}
	Preservations     = []string{"Refrigerated at 4 degrees Celsius", "Core rack at room temperature"}
	CollectionMethods = []string{"Drilling", "Coring", "Rathole", "Flushing"}
)
