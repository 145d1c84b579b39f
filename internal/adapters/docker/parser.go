package docker

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ozgur/shipmate/internal/core/domain"
)

// The inspect output is a sequence of KEY=value lines produced by the
// format template in adapter.go. Engines vary in which sections they
// emit, so everything past the identity block is optional: a section
// that is absent or malformed degrades to empty instead of failing the
// record.

type inspectFields map[string][]string

func splitFields(raw string) inspectFields {
	fields := make(inspectFields)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[key] = append(fields[key], value)
	}
	return fields
}

func (f inspectFields) first(key string) string {
	if v, ok := f[key]; ok && len(v) > 0 {
		return v[0]
	}
	return ""
}

// parseDetails composes the four sub-parsers into one record. Identity
// failure is fatal; anything else is logged and dropped.
func parseDetails(raw string, logger *zap.Logger) (domain.ContainerDetails, error) {
	fields := splitFields(raw)

	details, err := parseIdentity(fields)
	if err != nil {
		return domain.ContainerDetails{}, err
	}

	ports, err := parsePorts(fields["PORT"])
	if err != nil {
		logger.Warn("ignoring unparseable port section",
			zap.String("container", details.ID), zap.Error(err))
		ports = nil
	}
	details.Ports = ports

	volumes, err := parseMounts(fields["MOUNT"])
	if err != nil {
		logger.Warn("ignoring unparseable mount section",
			zap.String("container", details.ID), zap.Error(err))
		volumes = nil
	}
	details.Volumes = volumes

	details.Networks = append([]string(nil), fields["NETWORK"]...)
	details.Environment, details.RestartPolicy, details.Health = parseConfig(fields)

	// Absent sections serialize as empty lists, not null.
	if details.Ports == nil {
		details.Ports = []domain.PortMapping{}
	}
	if details.Volumes == nil {
		details.Volumes = []domain.VolumeMount{}
	}
	if details.Networks == nil {
		details.Networks = []string{}
	}
	if details.Environment == nil {
		details.Environment = []string{}
	}

	return details, nil
}

// parseIdentity extracts the required fields. A record without id, name,
// image and state is meaningless, so any absence is a hard failure.
func parseIdentity(fields inspectFields) (domain.ContainerDetails, error) {
	required := [...]string{"ID", "NAME", "IMAGE", "STATE"}
	for _, key := range required {
		if fields.first(key) == "" {
			return domain.ContainerDetails{}, &domain.ParseError{
				Reason: fmt.Sprintf("missing required field %s", key),
			}
		}
	}

	return domain.ContainerDetails{
		ID:      fields.first("ID"),
		Name:    strings.TrimPrefix(fields.first("NAME"), "/"),
		Image:   fields.first("IMAGE"),
		State:   fields.first("STATE"),
		Status:  fields.first("STATUS"),
		Created: fields.first("CREATED"),
		Started: fields.first("STARTED"),
	}, nil
}

// parsePorts parses port mappings of the shape
// "hostIP:hostPort->containerPort/proto". Unpublished ports show up as a
// bare "containerPort/proto" with no host side.
func parsePorts(lines []string) ([]domain.PortMapping, error) {
	var ports []domain.PortMapping
	for _, line := range lines {
		if line == "" {
			continue
		}

		hostPart, containerPart, published := strings.Cut(line, "->")
		if !published {
			containerPart = line
			hostPart = ""
		}

		containerPort, protocol, ok := strings.Cut(containerPart, "/")
		if !ok || containerPort == "" {
			return nil, fmt.Errorf("malformed port mapping %q", line)
		}

		hostPort := ""
		if hostPart != "" {
			// Keep only the port: the host side may be "ip:port",
			// "[v6ip]:port" or a bare port.
			if i := strings.LastIndex(hostPart, ":"); i >= 0 {
				hostPort = hostPart[i+1:]
			} else {
				hostPort = hostPart
			}
		}

		ports = append(ports, domain.PortMapping{
			ContainerPort: containerPort,
			HostPort:      hostPort,
			Protocol:      protocol,
		})
	}
	return ports, nil
}

// parseMounts parses "source:destination" or "source:destination:mode"
// descriptors. A missing mode stays empty rather than guessing.
func parseMounts(lines []string) ([]domain.VolumeMount, error) {
	var mounts []domain.VolumeMount
	for _, line := range lines {
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, ":", 3)
		if len(parts) < 2 || parts[1] == "" {
			return nil, fmt.Errorf("malformed mount %q", line)
		}

		mount := domain.VolumeMount{
			Source:      parts[0],
			Destination: parts[1],
		}
		if len(parts) == 3 {
			mount.Mode = parts[2]
		}
		mounts = append(mounts, mount)
	}
	return mounts, nil
}

// parseConfig extracts the environment list, restart policy and health
// status. Each is independently optional.
func parseConfig(fields inspectFields) (env []string, restartPolicy, health string) {
	for _, v := range fields["ENV"] {
		if v == "" {
			continue
		}
		env = append(env, v)
	}
	restartPolicy = fields.first("RESTART")
	if restartPolicy == "no" {
		restartPolicy = ""
	}
	health = fields.first("HEALTH")
	return env, restartPolicy, health
}
