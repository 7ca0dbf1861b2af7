package models

// CarCommand identifies what a diagnostic log entry measures.
// The set is closed; unit and display title come from a static table
// and are never stored per entry.
type CarCommand string

const (
	CommandEngineLoad       CarCommand = "ENGINE_LOAD"
	CommandThrottlePosition CarCommand = "THROTTLE_POSITION"
	CommandDistanceWithMil  CarCommand = "DISTANCE_WITH_MIL"
)

type commandInfo struct {
	Unit  string
	Title string
}

var commandTable = map[CarCommand]commandInfo{
	CommandEngineLoad:       {Unit: "percent", Title: "Engine Load"},
	CommandThrottlePosition: {Unit: "percent", Title: "Throttle Position"},
	CommandDistanceWithMil:  {Unit: "km", Title: "Distance with MIL"},
}

// Valid reports whether c is one of the known diagnostic commands.
func (c CarCommand) Valid() bool {
	_, ok := commandTable[c]
	return ok
}

// Unit returns the measurement unit for the command ("" for unknown).
func (c CarCommand) Unit() string { return commandTable[c].Unit }

// Title returns the human-readable name for the command ("" for unknown).
func (c CarCommand) Title() string { return commandTable[c].Title }

// LogEntry is a single diagnostic observation reported by an ECU.
// Value is a string-encoded reading; it is not validated as numeric at
// write time (unparsable values count as zero during aggregation).
type LogEntry struct {
	Command     CarCommand `json:"command"`
	Value       string     `json:"value"`
	Desc        string     `json:"desc,omitempty"`
	CommandCode string     `json:"command_code,omitempty"`
	ECU         uint8      `json:"ecu"`
	Timestamp   uint64     `json:"timestamp"`
}

// VehicleRecord is the ledger entry for one physical vehicle, keyed by VIN.
// The log is append-only and non-empty from creation on.
type VehicleRecord struct {
	Model string     `json:"model"`
	VIN   string     `json:"vin"`
	Log   []LogEntry `json:"log"`
	// Identity currently always equals VIN; kept for forward compatibility.
	Identity string `json:"identity"`
	Owner    string `json:"owner"`
}

// HealthCategory is the coarse rating derived from a vehicle's log.
type HealthCategory string

const (
	HealthExcellent HealthCategory = "EXCELLENT"
	HealthGood      HealthCategory = "GOOD"
	HealthFair      HealthCategory = "FAIR"
	HealthBad       HealthCategory = "BAD"
)
