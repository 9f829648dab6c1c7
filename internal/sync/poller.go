package sync

import (
	"context"
	"fmt"
	"log/slog"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/source"
)

// FetchState represents the current state of a source fetch.
type FetchState int

const (
	FetchIdle FetchState = iota
	FetchRunning
	FetchError
)

func (s FetchState) String() string {
	switch s {
	case FetchRunning:
		return "running"
	case FetchError:
		return "error"
	default:
		return "idle"
	}
}

// FetchStatus holds the fetch state for a single source.
type FetchStatus struct {
	SourceID  string
	State     FetchState
	LastFetch time.Time
	Error     error
}

// FetchResultMsg is a tea.Msg sent when a fetch run completes.
type FetchResultMsg struct {
	RunID      string
	SourceID   string
	SourceType source.SourceType
	Inserted   int
	Duration   time.Duration
	Error      error
	AuthError  *AuthErrorMsg
}

// AuthErrorMsg describes a rejected login.
type AuthErrorMsg struct {
	SourceID string
	Message  string
}

// Inserter stores a batch of fetched notifications. The lifecycle engine
// implements it.
type Inserter interface {
	InsertUnsorted(ctx context.Context, items []model.RawNotification) (int, error)
}

const (
	// fetchTimeout is the maximum time allowed for a single fetch operation.
	fetchTimeout = 30 * time.Second

	defaultPollInterval = 120 * time.Second
)

// Fetch runs one producer with a timeout and hands its output to ins in a
// single batch.
func Fetch(ctx context.Context, ins Inserter, prod source.Producer, logger *slog.Logger) FetchResultMsg {
	res := FetchResultMsg{
		RunID:      uuid.NewString(),
		SourceID:   prod.ID(),
		SourceType: prod.Type(),
	}
	log := logger.With("run_id", res.RunID, "source", res.SourceID)
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	items, err := prod.Fetch(ctx)
	if err == nil {
		res.Inserted, err = ins.InsertUnsorted(ctx, items)
	}
	res.Duration = time.Since(start)

	if err != nil {
		res.Error = err
		if source.IsAuthError(err) {
			res.AuthError = &AuthErrorMsg{
				SourceID: res.SourceID,
				Message: fmt.Sprintf(
					"%s: authentication failed. Update the password with 'notify credential set %s'.",
					res.SourceID, credentialKey(res.SourceID),
				),
			}
		}
		log.Warn("fetch failed", "error", err, "duration", res.Duration)
		return res
	}

	log.Info("fetch completed", "inserted", res.Inserted, "duration", res.Duration)
	return res
}

// sourceEntry holds a registered producer and its configuration.
type sourceEntry struct {
	prod    source.Producer
	cfg     model.SourceConfig
	trigger chan struct{}
	stop    chan struct{}
}

// Poller orchestrates background fetching of registered producers.
type Poller struct {
	ins      Inserter
	log      *slog.Logger
	sources  []*sourceEntry
	statuses map[string]*FetchStatus
	resultCh chan FetchResultMsg
	stopCh   chan struct{}
	wg       gosync.WaitGroup
	mu       gosync.Mutex
	running  bool
}

// New creates a new Poller that stores results through ins.
func New(ins Inserter, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Poller{
		ins:      ins,
		log:      logger.With("component", "poller"),
		statuses: make(map[string]*FetchStatus),
		resultCh: make(chan FetchResultMsg, 16),
		stopCh:   make(chan struct{}),
	}
}

// Register adds a producer and its configuration to the poller. A producer
// registered while the poller runs starts polling right away.
func (p *Poller) Register(prod source.Producer, cfg model.SourceConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry := &sourceEntry{
		prod:    prod,
		cfg:     cfg,
		trigger: make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
	p.sources = append(p.sources, entry)
	p.statuses[prod.ID()] = &FetchStatus{
		SourceID: prod.ID(),
		State:    FetchIdle,
	}

	if p.running {
		p.wg.Add(1)
		go p.pollSource(entry)
	}
}

// Remove stops polling the producer with the given id and forgets its
// status. It reports whether the producer was registered.
func (p *Poller) Remove(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, entry := range p.sources {
		if entry.prod.ID() != id {
			continue
		}
		close(entry.stop)
		p.sources = append(p.sources[:i], p.sources[i+1:]...)
		delete(p.statuses, id)
		return true
	}
	return false
}

// Running reports whether Start has been called and Stop has not.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Len returns the number of registered producers.
func (p *Poller) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sources)
}

// Start returns a tea.Cmd that starts all polling goroutines and
// subscribes to results. The returned command waits on the result
// channel and returns FetchResultMsg messages to the Bubble Tea runtime.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	sources := append([]*sourceEntry(nil), p.sources...)
	p.mu.Unlock()

	for _, entry := range sources {
		p.wg.Add(1)
		go p.pollSource(entry)
	}

	return p.waitForResult()
}

// Stop halts all polling goroutines and waits for in-flight fetches.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	close(p.stopCh)
	p.running = false
	p.mu.Unlock()

	p.wg.Wait()
}

// RefreshAll triggers an immediate fetch of all registered producers.
func (p *Poller) RefreshAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, entry := range p.sources {
		select {
		case entry.trigger <- struct{}{}:
		default:
			// A fetch is already queued for this source.
		}
	}
}

// RefreshSource triggers an immediate fetch of one producer.
func (p *Poller) RefreshSource(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, entry := range p.sources {
		if entry.prod.ID() != id {
			continue
		}
		select {
		case entry.trigger <- struct{}{}:
		default:
		}
		return true
	}
	return false
}

// Statuses returns the current fetch status of all registered producers
// in registration order.
func (p *Poller) Statuses() []FetchStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	statuses := make([]FetchStatus, 0, len(p.sources))
	for _, entry := range p.sources {
		statuses = append(statuses, *p.statuses[entry.prod.ID()])
	}
	return statuses
}

// pollSource runs the polling loop for a single producer.
func (p *Poller) pollSource(entry *sourceEntry) {
	defer p.wg.Done()

	interval := time.Duration(entry.cfg.PollIntervalSec) * time.Second
	if interval <= 0 {
		interval = defaultPollInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Do an initial fetch immediately
	p.fetchAndInsert(entry)

	for {
		select {
		case <-p.stopCh:
			return
		case <-entry.stop:
			return
		case <-ticker.C:
			p.fetchAndInsert(entry)
		case <-entry.trigger:
			p.fetchAndInsert(entry)
		}
	}
}

// fetchAndInsert performs a single fetch, records the status and sends a
// FetchResultMsg on the result channel.
func (p *Poller) fetchAndInsert(entry *sourceEntry) {
	id := entry.prod.ID()
	p.setStatus(id, FetchRunning, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-p.stopCh:
			cancel()
		case <-entry.stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	res := Fetch(ctx, p.ins, entry.prod, p.log)
	if res.Error != nil {
		p.setStatus(id, FetchError, res.Error)
	} else {
		p.setStatus(id, FetchIdle, nil)
	}
	p.sendResult(res)
}

// setStatus updates the fetch status for a source.
func (p *Poller) setStatus(id string, state FetchState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	status, ok := p.statuses[id]
	if !ok {
		return
	}

	status.State = state
	status.Error = err
	if state == FetchIdle && err == nil {
		status.LastFetch = time.Now()
	}
}

// sendResult sends a FetchResultMsg on the result channel without blocking.
func (p *Poller) sendResult(msg FetchResultMsg) {
	select {
	case p.resultCh <- msg:
	default:
		p.log.Warn("dropping fetch result, channel full", "source", msg.SourceID)
	}
}

// waitForResult returns a tea.Cmd that waits for the next result from
// the result channel.
func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		select {
		case result := <-p.resultCh:
			return result
		case <-p.stopCh:
			return nil
		}
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next fetch result.
// This should be called after processing a FetchResultMsg to continue
// listening for future results.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
