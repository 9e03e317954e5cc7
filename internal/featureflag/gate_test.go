package featureflag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigGateReadsPerCall(t *testing.T) {
	enabled := false
	gate := NewConfigGate(func() bool { return enabled })

	require.False(t, gate.RoleSelfAssignmentEnabled())
	enabled = true
	require.True(t, gate.RoleSelfAssignmentEnabled())
}

func TestNilGateIsDisabled(t *testing.T) {
	var gate *ConfigGate
	require.False(t, gate.RoleSelfAssignmentEnabled())
	require.False(t, NewConfigGate(nil).RoleSelfAssignmentEnabled())
}

func TestStaticGate(t *testing.T) {
	require.True(t, StaticGate(true).RoleSelfAssignmentEnabled())
	require.False(t, StaticGate(false).RoleSelfAssignmentEnabled())
}
