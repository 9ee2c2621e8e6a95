package identity

// Actor identifies who is performing an operation. Authentication happens
// outside the engine; the engine only enforces capability checks.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Capability is the coarse permission class inferred from an actor's role.
type Capability string

const (
	CapabilitySupervisor Capability = "supervisor"
	CapabilityFrontline  Capability = "frontline"
	CapabilityFrontDesk  Capability = "frontdesk"
	CapabilityReadOnly   Capability = "readonly"
)

// roleCapabilities maps known role names to capability classes. Unknown roles
// default to read-only so a misconfigured caller can never mutate state.
var roleCapabilities = map[string]Capability{
	"coordenador":  CapabilitySupervisor,
	"supervisor":   CapabilitySupervisor,
	"gestor":       CapabilitySupervisor,
	"tecnico":      CapabilityFrontline,
	"assistente":   CapabilityFrontline,
	"psicologo":    CapabilityFrontline,
	"recepcao":     CapabilityFrontDesk,
	"atendimento":  CapabilityFrontDesk,
	"visualizacao": CapabilityReadOnly,
}

// CapabilityOf infers the capability class for an actor.
func CapabilityOf(a Actor) Capability {
	if capability, ok := roleCapabilities[a.Role]; ok {
		return capability
	}
	return CapabilityReadOnly
}

// IsStaff reports whether the actor holds a supervisor or frontline
// capability, the classes allowed to own cases.
func IsStaff(a Actor) bool {
	capability := CapabilityOf(a)
	return capability == CapabilitySupervisor || capability == CapabilityFrontline
}
