// Package progress implements the synthetic progress narrative shown
// while a remote analysis is in flight. The narrative is pre-scripted: a
// fixed checkpoint list is emitted one step per tick, independent of what
// the analysis service is actually doing, and the percentage creeps
// toward (but never reaches) 100 once the script runs out.
package progress

import (
	"sync"
	"time"

	"scamscope/internal/models"
)

// Checkpoint is one step of the scripted narrative
type Checkpoint struct {
	Percent float64
	Message string
}

// basicScript walks through the stages a basic analysis performs
// server-side. Percentages stop at 99; only a real result moves the
// tracker to 100.
var basicScript = []Checkpoint{
	{5, "Looking up WHOIS records"},
	{10, "Checking domain registration details"},
	{16, "Resolving DNS records"},
	{22, "Checking mail server configuration"},
	{28, "Locating server IP and geolocation"},
	{34, "Scanning common ports"},
	{40, "Inspecting SSL certificate"},
	{46, "Validating certificate chain"},
	{52, "Fetching HTTP response headers"},
	{58, "Checking security headers"},
	{64, "Reading robots.txt"},
	{70, "Detecting site technologies"},
	{76, "Collecting page signals"},
	{82, "Scoring with risk model"},
	{88, "Evaluating model probabilities"},
	{93, "Aggregating risk factors"},
	{97, "Preparing report"},
	{99, "Finalizing results"},
}

// detailedScript covers the extra crawl work of a detailed analysis
var detailedScript = []Checkpoint{
	{5, "Looking up WHOIS records"},
	{10, "Checking domain registration details"},
	{16, "Resolving DNS records"},
	{22, "Locating server IP and geolocation"},
	{28, "Scanning common ports"},
	{34, "Inspecting SSL certificate"},
	{40, "Fetching HTTP response headers"},
	{46, "Reading robots.txt"},
	{52, "Crawling site pages"},
	{58, "Categorizing discovered pages"},
	{64, "Looking for contact and legal pages"},
	{70, "Scanning for payment keywords"},
	{76, "Detecting site technologies"},
	{82, "Scoring with risk model"},
	{88, "Evaluating model probabilities"},
	{93, "Aggregating risk factors"},
	{97, "Preparing report"},
	{99, "Finalizing results"},
}

// creepStep is added per tick once the script is exhausted
const creepStep = 0.5

// Update is a single emission: the current percentage plus an optional
// new narrative message (creep ticks bump the percentage only).
type Update struct {
	Percent float64 `json:"percent"`
	Message string  `json:"message,omitempty"`
}

// State is a point-in-time snapshot of a run's progress
type State struct {
	Percent  float64  `json:"percent"`
	Messages []string `json:"messages"`
}

// Tracker owns the progress state of one orchestration run. It is created
// fresh per run and discarded afterwards; the state is UI feedback only
// and never persisted. Emissions are delivered to the OnUpdate callback
// in order, with monotonically non-decreasing percentages.
type Tracker struct {
	mu       sync.Mutex
	percent  float64
	messages []string
	script   []Checkpoint
	next     int
	done     bool

	onUpdate func(Update)

	stopOnce sync.Once
	stopCh   chan struct{}
}

// Option configures a Tracker
type Option func(*Tracker)

// WithOnUpdate registers a callback invoked for every emission. The
// callback runs on the ticker goroutine (or the terminal caller) and must
// not block.
func WithOnUpdate(fn func(Update)) Option {
	return func(t *Tracker) { t.onUpdate = fn }
}

// NewTracker creates a tracker scripted for the given mode
func NewTracker(mode models.CheckMode, opts ...Option) *Tracker {
	script := basicScript
	if mode == models.CheckModeDetailed {
		script = detailedScript
	}

	t := &Tracker{
		script: script,
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Start launches the ticker that advances the narrative every interval.
// The returned stop function cancels the ticker and is safe to call more
// than once; after stop returns no further ticks are emitted.
func (t *Tracker) Start(interval time.Duration) (stop func()) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-t.stopCh:
				return
			case <-ticker.C:
				t.tick()
			}
		}
	}()

	return func() {
		t.stopOnce.Do(func() { close(t.stopCh) })
	}
}

// tick advances one step: the next checkpoint while the script lasts,
// then percentage creep capped just below completion
func (t *Tracker) tick() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return
	}

	var u Update
	if t.next < len(t.script) {
		cp := t.script[t.next]
		t.next++
		t.percent = cp.Percent
		t.messages = append(t.messages, cp.Message)
		u = Update{Percent: t.percent, Message: cp.Message}
	} else {
		t.percent = min(99, t.percent+creepStep)
		u = Update{Percent: t.percent}
	}

	t.emit(u)
}

// CacheHit records the short-circuit narrative for a fresh cached report
// and settles the tracker at 100.
func (t *Tracker) CacheHit() {
	t.terminal(100, "Found a recent report for this site", "Analysis complete")
}

// Complete settles the tracker at 100 after a successful remote analysis
func (t *Tracker) Complete() {
	t.terminal(100, "Analysis complete")
}

// Fail records the failure reason and settles the tracker. The percentage
// is left where the narrative got to; it never reaches 100 on failure.
func (t *Tracker) Fail(reason string) {
	t.terminal(-1, "Analysis failed: "+reason)
}

// terminal appends the final messages and freezes the tracker. percent < 0
// keeps the current percentage.
func (t *Tracker) terminal(percent float64, msgs ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.done {
		return
	}
	t.done = true

	if percent >= 0 {
		t.percent = percent
	}

	for _, m := range msgs {
		t.messages = append(t.messages, m)
		t.emit(Update{Percent: t.percent, Message: m})
	}
}

func (t *Tracker) emit(u Update) {
	if t.onUpdate != nil {
		t.onUpdate(u)
	}
}

// Snapshot returns a copy of the current progress state
func (t *Tracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()

	msgs := make([]string, len(t.messages))
	copy(msgs, t.messages)

	return State{Percent: t.percent, Messages: msgs}
}
