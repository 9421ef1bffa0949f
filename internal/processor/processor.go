package processor

import (
	"github.com/sirupsen/logrus"

	"pstefanovic/compose-generator/internal/composecache"
	"pstefanovic/compose-generator/internal/config"
	"pstefanovic/compose-generator/internal/dockerfile"
	"pstefanovic/compose-generator/internal/resources"
)

type Processor struct {
	cfg config.Config

	logrus.FieldLogger

	dockerfiles *dockerfile.Synthesizer
}

// Summary reports what a run did.
type Summary struct {
	// Services lists the manifest entries in order, gateway first.
	Services []string
	// Created lists the services that got a new Dockerfile.
	Created []string
	Skipped []*SkipError
}

func NewProcessor(cfg config.Config, log logrus.FieldLogger) *Processor {
	return &Processor{
		cfg:         cfg,
		FieldLogger: log,
		dockerfiles: dockerfile.NewSynthesizer(cfg.ServicesPath(), log.WithField("context", "dockerfile")),
	}
}

// Run loads the registry, makes sure every parsed backend has a Dockerfile
// and writes the compose manifest. Bad entries are skipped with a warning;
// only ConfigError, WriteError and ValidationError end the run.
func (p *Processor) Run() (*Summary, error) {
	configFile := p.cfg.ConfigFile()
	routes, err := LoadRegistry(configFile)
	if err != nil {
		return nil, err
	}
	p.Debugf("loaded %d routes from %s", len(routes), configFile)

	cache := composecache.NewComposeCache(p.cfg.GatewayDir, p.cfg.ServicesDir)
	summary := &Summary{}

	for _, route := range routes {
		parsed, skip := p.parseRoute(route)
		if skip != nil {
			p.WithField("route", route.Route).Warnf("%v. Skipping.", skip)
			summary.Skipped = append(summary.Skipped, skip)
			continue
		}

		result, err := p.dockerfiles.Ensure(parsed.ServiceName, parsed.Port)
		if err != nil {
			return summary, &WriteError{Path: p.dockerfiles.Path(parsed.ServiceName), Err: err}
		}
		if result == dockerfile.ResultCreated {
			summary.Created = append(summary.Created, parsed.ServiceName)
		}

		if err := cache.AddService(parsed.ServiceName, parsed.Port); err != nil {
			// parseRoute already rejects the gateway name
			p.Errorf("adding service %q: %v", parsed.ServiceName, err)
			continue
		}
	}

	conflicts := cache.HostPortConflicts()
	if p.cfg.Strict && len(conflicts) > 0 {
		return summary, &ValidationError{Conflicts: conflicts}
	}
	for _, conflict := range conflicts {
		p.Warnf("%s; the manifest will not deploy as is", conflict)
	}

	outputFile := p.cfg.OutputFile()
	if err := WriteManifest(outputFile, p.cfg.ComposeVersion, cache); err != nil {
		return summary, err
	}

	summary.Services = cache.Services()
	p.Infof("Generated '%s' with services: %v", outputFile, summary.Services)
	return summary, nil
}

func (p *Processor) parseRoute(route resources.ServiceRoute) (resources.ParsedTarget, *SkipError) {
	if route.Target == "" {
		return resources.ParsedTarget{}, &SkipError{Target: route.Target, Reason: "no target (template route)"}
	}

	parse := ParseTarget
	if p.cfg.Strict {
		parse = ParseTargetStrict
	}
	parsed, err := parse(route.Target)
	if err != nil {
		skip, ok := err.(*SkipError)
		if !ok {
			skip = &SkipError{Target: route.Target, Reason: "unparsable target", Err: err}
		}
		return resources.ParsedTarget{}, skip
	}

	if parsed.ServiceName == composecache.GatewayName {
		return resources.ParsedTarget{}, &SkipError{Target: route.Target, Reason: "service name reserved for the gateway"}
	}
	return parsed, nil
}
