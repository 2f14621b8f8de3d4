package config

import "time"

// GitConfig contains repository clone configuration.
type GitConfig struct {
	// CloneDir is where repositories are cloned and reused across tasks.
	CloneDir string `env:"CLONE_DIR" envDefault:"/tmp/tmt-web/repos"`

	// CloneTimeout bounds a single clone or checkout operation.
	CloneTimeout time.Duration `env:"GIT_CLONE_TIMEOUT" envDefault:"2m"`
}

// Sanitize applies guardrails to git configuration values.
func (g *GitConfig) Sanitize() {
	if g.CloneDir == "" {
		g.CloneDir = "/tmp/tmt-web/repos"
	}
	if g.CloneTimeout <= 0 {
		g.CloneTimeout = 2 * time.Minute
	}
}
