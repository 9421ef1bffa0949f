package processor

import (
	"strconv"
	"strings"

	"github.com/docker/go-connections/nat"

	"pstefanovic/compose-generator/internal/resources"
)

const targetPrefix = "http://"

// ParseTarget splits a "http://<service>:<port>" target. The service name and
// port range are not checked; see ParseTargetStrict.
func ParseTarget(target string) (resources.ParsedTarget, error) {
	if !strings.HasPrefix(target, targetPrefix) {
		return resources.ParsedTarget{}, &SkipError{Target: target, Reason: "unexpected target format"}
	}

	noProto := strings.TrimPrefix(target, targetPrefix)
	name, portStr, found := strings.Cut(noProto, ":")
	if !found {
		return resources.ParsedTarget{}, &SkipError{Target: target, Reason: "no port found"}
	}

	port, err := strconv.Atoi(strings.TrimSpace(portStr))
	if err != nil {
		return resources.ParsedTarget{}, &SkipError{Target: target, Reason: "invalid port '" + portStr + "'", Err: err}
	}

	return resources.ParsedTarget{ServiceName: name, Port: port}, nil
}

// ParseTargetStrict is ParseTarget plus a non-empty service name and a port
// docker can bind.
func ParseTargetStrict(target string) (resources.ParsedTarget, error) {
	parsed, err := ParseTarget(target)
	if err != nil {
		return parsed, err
	}

	if parsed.ServiceName == "" {
		return resources.ParsedTarget{}, &SkipError{Target: target, Reason: "empty service name"}
	}
	if _, err := nat.ParsePort(strconv.Itoa(parsed.Port)); err != nil {
		return resources.ParsedTarget{}, &SkipError{Target: target, Reason: "port out of range", Err: err}
	}

	return parsed, nil
}
