package workflow

// Stage is one step of a unit's configurable case workflow.
type Stage struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	SLADays     int      `json:"sla_days,omitempty"` // 0 = no SLA configured
	Description string   `json:"description,omitempty"`
	Checklist   []string `json:"checklist,omitempty"`
}

// Configuration is the ordered stage list for one organizational scope.
type Configuration struct {
	Stages []Stage `json:"stages"`
}

// Default returns the built-in configuration used before a unit saves its
// own. Stage names follow the PAEFI service flow.
func Default() *Configuration {
	return &Configuration{
		Stages: []Stage{
			{Code: "acolhida", Name: "Acolhida", SLADays: 5,
				Description: "Primeiro atendimento e escuta qualificada",
				Checklist:   []string{"Registro do relato", "Avaliação inicial de risco"}},
			{Code: "estudo_caso", Name: "Estudo de caso", SLADays: 10,
				Description: "Levantamento da situação familiar e de rede",
				Checklist:   []string{"Visita domiciliar", "Contato com a rede"}},
			{Code: "plano", Name: "Plano de acompanhamento", SLADays: 15,
				Description: "Pactuação do plano com a família"},
			{Code: "acompanhamento", Name: "Acompanhamento", SLADays: 60,
				Description: "Atendimentos continuados e monitoramento"},
			{Code: "avaliacao", Name: "Avaliação de desligamento", SLADays: 10,
				Description: "Verificação das condições de encerramento"},
		},
	}
}

// Find returns the stage with the given code, or nil.
func (c *Configuration) Find(code string) *Stage {
	for i := range c.Stages {
		if c.Stages[i].Code == code {
			return &c.Stages[i]
		}
	}
	return nil
}

// FirstStage returns the code of the first configured stage.
func (c *Configuration) FirstStage() string {
	if len(c.Stages) == 0 {
		return ""
	}
	return c.Stages[0].Code
}

// EffectiveStages returns the configured stages plus a synthetic trailing
// stage for every code in extra that the configuration no longer contains.
// A case whose stage was removed from an edited configuration keeps working
// instead of disappearing from stage-grouped views.
func (c *Configuration) EffectiveStages(extra []string) []Stage {
	stages := make([]Stage, len(c.Stages))
	copy(stages, c.Stages)
	seen := make(map[string]bool, len(stages))
	for _, s := range stages {
		seen[s.Code] = true
	}
	for _, code := range extra {
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		stages = append(stages, Stage{Code: code, Name: code})
	}
	return stages
}
