package runner

// Job requests one simulation
type Job struct {
	ID          string `json:"id"`
	ScenarioURL string `json:"scenarioURL"`
	// LogURL receives the simulation log; empty discards it
	LogURL string `json:"logURL,omitempty"`
}
