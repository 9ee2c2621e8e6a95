package queue

// Weights are the additive scoring constants. They are hand-tuned defaults,
// exposed through configuration as tunable values rather than a correctness
// contract.
type Weights struct {
	RiskHigh         int `yaml:"risk_high"`
	RiskMedium       int `yaml:"risk_medium"`
	Unassigned       int `yaml:"unassigned"`
	ClosureRequested int `yaml:"closure_requested"`

	NextActionOverdue       int `yaml:"next_action_overdue"`
	NextActionOverduePerDay int `yaml:"next_action_overdue_per_day"`
	NextActionOverdueCap    int `yaml:"next_action_overdue_cap"`

	Inactivity       int `yaml:"inactivity"`
	InactivityPerDay int `yaml:"inactivity_per_day"`
	InactivityCap    int `yaml:"inactivity_cap"`

	NetworkOverdue       int `yaml:"network_overdue"`
	NetworkOverduePerDay int `yaml:"network_overdue_per_day"`
	NetworkOverdueCap    int `yaml:"network_overdue_cap"`

	StageOverSLA       int `yaml:"stage_over_sla"`
	StageOverSLAPerDay int `yaml:"stage_over_sla_per_day"`
	StageOverSLACap    int `yaml:"stage_over_sla_cap"`

	// Inactivity thresholds in days before the no-activity signal fires.
	IdleThresholdHighRisk int `yaml:"idle_threshold_high_risk"`
	IdleThresholdDefault  int `yaml:"idle_threshold_default"`
}

// DefaultWeights returns the stock scoring constants.
func DefaultWeights() Weights {
	return Weights{
		RiskHigh:         30,
		RiskMedium:       12,
		Unassigned:       28,
		ClosureRequested: 40,

		NextActionOverdue:       25,
		NextActionOverduePerDay: 4,
		NextActionOverdueCap:    30,

		Inactivity:       15,
		InactivityPerDay: 2,
		InactivityCap:    25,

		NetworkOverdue:       18,
		NetworkOverduePerDay: 3,
		NetworkOverdueCap:    24,

		StageOverSLA:       22,
		StageOverSLAPerDay: 5,
		StageOverSLACap:    40,

		IdleThresholdHighRisk: 7,
		IdleThresholdDefault:  14,
	}
}
