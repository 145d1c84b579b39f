package domain

// Container represents one engine-managed container as reported by the
// engine's list command (Docker, Podman, etc.)
type Container struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	State  string `json:"state"` // running, exited, paused, restarting, ...
	Status string `json:"status"`
}

// PortMapping is one published (or exposed-only) container port.
type PortMapping struct {
	ContainerPort string `json:"container_port"`
	HostPort      string `json:"host_port,omitempty"` // empty when unpublished
	Protocol      string `json:"protocol"`
}

// VolumeMount is one volume or bind mount attached to a container.
type VolumeMount struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Mode        string `json:"mode,omitempty"`
}

// ContainerDetails is the full inspection record for one container.
// Only ID, Name, Image and State are guaranteed; every other field may be
// absent depending on the engine version and how the container was created.
type ContainerDetails struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Image         string        `json:"image"`
	State         string        `json:"state"`
	Status        string        `json:"status,omitempty"`
	Created       string        `json:"created,omitempty"`
	Started       string        `json:"started,omitempty"`
	Ports         []PortMapping `json:"ports"`
	Volumes       []VolumeMount `json:"volumes"`
	Networks      []string      `json:"networks"`
	Environment   []string      `json:"environment"`
	RestartPolicy string        `json:"restart_policy,omitempty"`
	Health        string        `json:"health,omitempty"`
}

// Action is a container lifecycle action. The set is closed: anything the
// API should support gets its own constant and an entry in the executor's
// verb table.
type Action int

const (
	ActionStart Action = iota
	ActionStop
	ActionRestart
)

// String returns the engine CLI verb for the action.
func (a Action) String() string {
	switch a {
	case ActionStart:
		return "start"
	case ActionStop:
		return "stop"
	case ActionRestart:
		return "restart"
	}
	return "unknown"
}
