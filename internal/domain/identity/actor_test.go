package identity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/suasdigital/caseflow/internal/domain/identity"
)

func TestCapabilityOf(t *testing.T) {
	tests := []struct {
		role string
		want identity.Capability
	}{
		{"coordenador", identity.CapabilitySupervisor},
		{"gestor", identity.CapabilitySupervisor},
		{"tecnico", identity.CapabilityFrontline},
		{"psicologo", identity.CapabilityFrontline},
		{"recepcao", identity.CapabilityFrontDesk},
		{"visualizacao", identity.CapabilityReadOnly},
		{"", identity.CapabilityReadOnly},
		{"estagiario", identity.CapabilityReadOnly},
	}
	for _, tt := range tests {
		t.Run("role_"+tt.role, func(t *testing.T) {
			got := identity.CapabilityOf(identity.Actor{Role: tt.role})
			require.Equal(t, tt.want, got)
		})
	}
}

func TestIsStaff(t *testing.T) {
	require.True(t, identity.IsStaff(identity.Actor{Role: "coordenador"}))
	require.True(t, identity.IsStaff(identity.Actor{Role: "tecnico"}))
	require.False(t, identity.IsStaff(identity.Actor{Role: "recepcao"}))
	require.False(t, identity.IsStaff(identity.Actor{Role: "desconhecido"}))
}

func TestPolicy(t *testing.T) {
	coordenador := identity.Actor{Role: "coordenador"}
	tecnico := identity.Actor{Role: "tecnico"}
	recepcao := identity.Actor{Role: "recepcao"}
	leitura := identity.Actor{Role: "visualizacao"}

	require.True(t, identity.CanMutate(recepcao))
	require.False(t, identity.CanMutate(leitura))

	require.True(t, identity.CanApproveClosure(coordenador))
	require.True(t, identity.CanRequestClosure(tecnico))
	require.False(t, identity.CanCreateReferral(recepcao))

	require.True(t, identity.CanEditWorkflow(coordenador))
	require.False(t, identity.CanEditWorkflow(tecnico))

	require.NoError(t, identity.Require(true))
	require.ErrorIs(t, identity.Require(false), identity.ErrUnauthorized)
}
