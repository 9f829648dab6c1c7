package app

import (
	"net/http"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/notify/internal/model"
	appsync "github.com/nhle/notify/internal/sync"
)

// sourcesRegisteredMsg is sent when the configured sources have been
// registered with the poller.
type sourcesRegisteredMsg struct {
	count int
	errs  []error
}

// registerSource builds and registers the producer for one source that
// was added or changed in the source view.
func (m *Model) registerSource(src model.SourceConfig) tea.Cmd {
	p := m.poller
	return func() tea.Msg {
		regs, errs := appsync.BuildProducers([]model.SourceConfig{src}, nil, http.DefaultClient)
		for _, reg := range regs {
			p.Register(reg.Producer, reg.Config)
		}
		return sourcesRegisteredMsg{count: len(regs), errs: errs}
	}
}

// registerSources builds a producer for each enabled source in the
// configuration and registers it with the poller. Passwords come from
// the environment or the system keyring.
func (m *Model) registerSources() tea.Cmd {
	sources := m.cfg.Sources
	p := m.poller

	return func() tea.Msg {
		regs, errs := appsync.BuildProducers(sources, nil, http.DefaultClient)
		for _, reg := range regs {
			p.Register(reg.Producer, reg.Config)
		}
		return sourcesRegisteredMsg{count: len(regs), errs: errs}
	}
}
