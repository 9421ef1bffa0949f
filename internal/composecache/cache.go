package composecache

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/docker/go-connections/nat"
	"gopkg.in/yaml.v3"

	"pstefanovic/compose-generator/internal/resources"
)

const (
	GatewayName          = "gateway"
	GatewayContainerName = "go_gateway"
	GatewayPortMapping   = "8080:80"
	DockerfileName       = "Dockerfile"
)

// ErrReservedName is returned when a backend tries to register under the
// gateway's service name.
var ErrReservedName = errors.New("service name is reserved for the gateway")

// ComposeCache holds the compose services in the order they were added.
// The gateway entry is always first.
type ComposeCache struct {
	servicesDir string
	order       []string
	specs       map[string]resources.ServiceSpec
}

// PortConflict is a host port claimed by more than one service.
type PortConflict struct {
	HostPort string
	Services []string
}

func (pc PortConflict) String() string {
	return fmt.Sprintf("host port %s claimed by %s", pc.HostPort, strings.Join(pc.Services, ", "))
}

// NewComposeCache seeds the cache with the gateway entry. Both directories
// are relative to the project root, as they appear in the compose file.
func NewComposeCache(gatewayDir, servicesDir string) *ComposeCache {
	c := &ComposeCache{
		servicesDir: servicesDir,
		specs:       make(map[string]resources.ServiceSpec),
	}
	c.order = append(c.order, GatewayName)
	c.specs[GatewayName] = resources.ServiceSpec{
		Build: resources.Build{
			Context:    contextPath(gatewayDir),
			Dockerfile: DockerfileName,
		},
		ContainerName: GatewayContainerName,
		Ports:         []string{GatewayPortMapping},
		DependsOn:     []string{},
	}
	return c
}

// AddService registers a backend and makes the gateway depend on it.
// Re-adding a name replaces its spec in place; the dependency is appended
// again so the gateway mirrors the registry.
func (c *ComposeCache) AddService(name string, port int) error {
	if name == GatewayName {
		return ErrReservedName
	}
	if _, ok := c.specs[name]; !ok {
		c.order = append(c.order, name)
	}
	mapping := fmt.Sprintf("%d:%d", port, port)
	c.specs[name] = resources.ServiceSpec{
		Build: resources.Build{
			Context:    contextPath(c.servicesDir, name),
			Dockerfile: DockerfileName,
		},
		ContainerName: name,
		Ports:         []string{mapping},
	}

	gateway := c.specs[GatewayName]
	gateway.DependsOn = append(gateway.DependsOn, name)
	c.specs[GatewayName] = gateway
	return nil
}

// Services returns the service names in manifest order.
func (c *ComposeCache) Services() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

func (c *ComposeCache) Spec(name string) (resources.ServiceSpec, bool) {
	spec, ok := c.specs[name]
	return spec, ok
}

// HostPortConflicts lists host ports bound by more than one service, in the
// order the ports were first claimed.
func (c *ComposeCache) HostPortConflicts() []PortConflict {
	claims := make(map[string][]string)
	var hostPorts []string

	for _, name := range c.order {
		for _, mapping := range c.specs[name].Ports {
			for _, host := range hostPortsOf(mapping) {
				owners, seen := claims[host]
				if !seen {
					hostPorts = append(hostPorts, host)
				}
				if !contains(owners, name) {
					claims[host] = append(owners, name)
				}
			}
		}
	}

	var conflicts []PortConflict
	for _, host := range hostPorts {
		if len(claims[host]) > 1 {
			conflicts = append(conflicts, PortConflict{HostPort: host, Services: claims[host]})
		}
	}
	return conflicts
}

// ManifestContents renders the compose document. Mapping order follows
// insertion order, which a plain Go map would lose.
func (c *ComposeCache) ManifestContents(version string) (*yaml.Node, error) {
	services := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, name := range c.order {
		value, err := specNode(c.specs[name], name == GatewayName)
		if err != nil {
			return nil, fmt.Errorf("encoding service %q: %w", name, err)
		}
		services.Content = append(services.Content, scalar(name), value)
	}

	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if version != "" {
		v := scalar(version)
		v.Style = yaml.DoubleQuotedStyle
		root.Content = append(root.Content, scalar("version"), v)
	}
	root.Content = append(root.Content, scalar("services"), services)

	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}, nil
}

func specNode(spec resources.ServiceSpec, alwaysDependsOn bool) (*yaml.Node, error) {
	var n yaml.Node
	if err := n.Encode(spec); err != nil {
		return nil, err
	}

	// YAML 1.1 readers take an unquoted "a:b" for a base 60 integer
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == "ports" {
			for _, p := range n.Content[i+1].Content {
				p.Style = yaml.DoubleQuotedStyle
			}
		}
	}

	if alwaysDependsOn && len(spec.DependsOn) == 0 {
		n.Content = append(n.Content,
			scalar("depends_on"),
			&yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle})
	}
	return &n, nil
}

func hostPortsOf(mapping string) []string {
	specs, err := nat.ParsePortSpec(mapping)
	if err != nil {
		// lax registries can carry ports nat rejects; key on the raw host part
		if i := strings.LastIndex(mapping, ":"); i >= 0 {
			return []string{mapping[:i]}
		}
		return nil
	}

	var hosts []string
	for _, s := range specs {
		if s.Binding.HostPort != "" {
			hosts = append(hosts, s.Binding.HostPort)
		}
	}
	return hosts
}

func contextPath(parts ...string) string {
	p := path.Join(parts...)
	if path.IsAbs(p) || strings.HasPrefix(p, "../") {
		return p
	}
	return "./" + p
}

func scalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
