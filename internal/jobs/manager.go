// Package jobs runs the worker's scheduled background tasks on robfig/cron.
package jobs

import "fmt"

// Job is a scheduled background task.
type Job interface {
	Name() string
	Start() error
	Stop()
}

// Manager starts and stops a set of jobs together.
type Manager struct {
	jobs    []Job
	started []Job
}

// NewManager creates a new job manager.
func NewManager(jobs ...Job) *Manager {
	return &Manager{jobs: jobs}
}

// StartAll starts every job. If one fails the already started ones are stopped.
func (m *Manager) StartAll() error {
	for _, j := range m.jobs {
		if err := j.Start(); err != nil {
			m.StopAll()
			return fmt.Errorf("start %s job: %w", j.Name(), err)
		}
		m.started = append(m.started, j)
	}
	return nil
}

// StopAll stops started jobs in reverse order.
func (m *Manager) StopAll() {
	for i := len(m.started) - 1; i >= 0; i-- {
		m.started[i].Stop()
	}
	m.started = nil
}
