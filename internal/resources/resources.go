package resources

// ServiceRoute is one entry of the gateway's service registry.
// Only Route and Target drive generation; the remaining fields belong to
// the gateway itself and are carried so the registry round-trips.
type ServiceRoute struct {
	Route          string            `yaml:"route"`
	Target         string            `yaml:"target,omitempty"`
	TemplateDir    string            `yaml:"templateDir,omitempty"`
	TemplateRoutes map[string]string `yaml:"templateRoutes,omitempty"`
	Log            string            `yaml:"log,omitempty"`
	Auth           string            `yaml:"auth,omitempty"`
}

// Registry is the top level of gateway/config.yml.
type Registry struct {
	Services []ServiceRoute `yaml:"services"`
}

type ParsedTarget struct {
	ServiceName string
	Port        int
}

type Build struct {
	Context    string `yaml:"context"`
	Dockerfile string `yaml:"dockerfile"`
}

type ServiceSpec struct {
	Build         Build    `yaml:"build"`
	ContainerName string   `yaml:"container_name"`
	Ports         []string `yaml:"ports"`
	DependsOn     []string `yaml:"depends_on,omitempty"`
}
