package temporalx

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Config struct {
	Address   string
	Namespace string
	TaskQueue string

	ClientCertPath string
	ClientKeyPath  string
	ClientCAPath   string

	DialTimeout    time.Duration
	DialMaxWait    time.Duration
	DialBackoff    time.Duration
	DialBackoffMax time.Duration

	AutoRegisterNamespace  bool
	NamespaceRetentionDays int

	WorkerConcurrency int

	// SweepCron schedules the provenance sweep for every org in SweepOrgs. Empty disables scheduling.
	SweepCron       string
	SweepOrgs       []uuid.UUID
	SweepStaleLimit int
	SweepCalibrate  bool
}

func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Address) != ""
}

func (c Config) WithDefaults() Config {
	c.Namespace = stringsOr(c.Namespace, "mealprep")
	c.TaskQueue = stringsOr(c.TaskQueue, "mealprep-provenance")
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.DialMaxWait < 0 {
		c.DialMaxWait = 0
	}
	if c.DialBackoff <= 0 {
		c.DialBackoff = 250 * time.Millisecond
	}
	if c.DialBackoffMax <= 0 {
		c.DialBackoffMax = 5 * time.Second
	}
	if c.NamespaceRetentionDays < 1 || c.NamespaceRetentionDays > 365 {
		c.NamespaceRetentionDays = 7
	}
	if c.WorkerConcurrency < 1 {
		c.WorkerConcurrency = 4
	}
	return c
}

// ParseOrgs reads a comma-separated list of organization ids, skipping blanks and invalid entries.
func ParseOrgs(raw string) []uuid.UUID {
	var out []uuid.UUID
	seen := map[uuid.UUID]bool{}
	for _, part := range strings.Split(raw, ",") {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil || id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func stringsOr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}
