package fleet_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/fleetci/internal/fleet"
)

func TestConfigurationSanitizeTrimsOwner(testInstance *testing.T) {
	configuration := fleet.Configuration{Owner: "  example  "}
	require.Equal(testInstance, "example", configuration.Sanitize().Owner)
}

func TestDefaultConfigurationValuesUseRootKey(testInstance *testing.T) {
	defaultValues := fleet.DefaultConfigurationValues("fleet")
	require.Equal(testInstance, map[string]any{"fleet.owner": ""}, defaultValues)
}
