// Package discovery registers the service with Consul.
package discovery

import (
	"fmt"
	"net"

	"github.com/hashicorp/consul/api"

	"github.com/AngelReyesZN/FoodStack-sub000/internal/obs"
)

type ConsulClient struct {
	client *api.Client
}

type ServiceConfig struct {
	Name string
	ID   string
	Port int
	Tags []string
	Meta map[string]string
	// HealthPath defaults to /health.
	HealthPath string
}

func NewConsulClient(host string, port int) (*ConsulClient, error) {
	config := api.DefaultConfig()
	config.Address = fmt.Sprintf("%s:%d", host, port)

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Consul client: %w", err)
	}

	// Test connection
	_, err = client.Agent().Self()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Consul: %w", err)
	}

	obs.Logger.Info("connected to consul", "address", config.Address)

	return &ConsulClient{client: client}, nil
}

// getOutboundIP gets the preferred outbound IP of this machine
func getOutboundIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String()
}

// Registration builds the agent registration with an HTTP check on the health path.
func Registration(cfg ServiceConfig, hostIP string) *api.AgentServiceRegistration {
	path := cfg.HealthPath
	if path == "" {
		path = "/health"
	}
	return &api.AgentServiceRegistration{
		ID:      cfg.ID,
		Name:    cfg.Name,
		Port:    cfg.Port,
		Address: hostIP,
		Tags:    cfg.Tags,
		Meta:    cfg.Meta,
		Check: &api.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d%s", hostIP, cfg.Port, path),
			Interval:                       "10s",
			Timeout:                        "5s",
			DeregisterCriticalServiceAfter: "30s",
		},
	}
}

// Register registers a service with Consul
func (c *ConsulClient) Register(cfg ServiceConfig) error {
	hostIP := getOutboundIP()

	err := c.client.Agent().ServiceRegister(Registration(cfg, hostIP))
	if err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}

	obs.Logger.Info("registered service", "name", cfg.Name, "id", cfg.ID, "address", hostIP, "port", cfg.Port)
	return nil
}

// Deregister removes a service from Consul
func (c *ConsulClient) Deregister(serviceID string) error {
	err := c.client.Agent().ServiceDeregister(serviceID)
	if err != nil {
		return fmt.Errorf("failed to deregister service: %w", err)
	}

	obs.Logger.Info("deregistered service", "id", serviceID)
	return nil
}
