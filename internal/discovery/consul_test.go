package discovery

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistrationChecksHealthEndpoint(t *testing.T) {
	reg := Registration(ServiceConfig{Name: "marketplace-core", ID: "marketplace-core-1", Port: 8082, Tags: []string{"api"}}, "10.0.0.5")

	require.Equal(t, "marketplace-core-1", reg.ID)
	require.Equal(t, "10.0.0.5", reg.Address)
	require.Equal(t, 8082, reg.Port)
	require.Equal(t, "http://10.0.0.5:8082/health", reg.Check.HTTP)
	require.Equal(t, "30s", reg.Check.DeregisterCriticalServiceAfter)
	require.Nil(t, reg.Meta)
}

func TestRegistrationCustomHealthPathAndMeta(t *testing.T) {
	reg := Registration(ServiceConfig{
		Name: "marketplace-core", ID: "mc-2", Port: 9000,
		HealthPath: "/ready",
		Meta:       map[string]string{"store": "memory"},
	}, "127.0.0.1")

	require.Equal(t, "http://127.0.0.1:9000/ready", reg.Check.HTTP)
	require.Equal(t, "memory", reg.Meta["store"])
}
