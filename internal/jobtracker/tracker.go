package jobtracker

import (
	"context"
	"log"
	"sync"
	"time"
)

// JobInfo is one entry of the active job list served to polling clients.
type JobInfo struct {
	ID       string `json:"id"`
	Progress int    `json:"progress"`
}

// JobLister serves the current list of active jobs. Absence of a
// tracked id signals completion or eviction.
type JobLister interface {
	ActiveJobs(ctx context.Context) ([]JobInfo, error)
}

// Notifier receives the one-shot completion notice and the optional
// follow-up navigation.
type Notifier interface {
	Notice(message string)
	Navigate(url string)
}

// Params configure one tracking session.
type Params struct {
	JobID  string
	Notice string
	URL    string
}

const (
	maxPollDelay  = 60 * time.Second
	pollDelayStep = 500 * time.Millisecond
)

// Tracker polls the job list at adaptive intervals until the tracked
// job disappears, then raises a one-shot completion notice. The longer
// the observed job info stays unchanged, the longer the wait before the
// next poll, up to a one-minute ceiling; backoff against polling
// overhead, not against failures.
type Tracker struct {
	lister   JobLister
	notifier Notifier

	// inContext reports whether the current view matches the context
	// in which follow-up navigation is expected.
	inContext func() bool

	mu           sync.Mutex
	timer        *time.Timer
	observed     bool
	lastProgress int
	unchanged    int
	done         bool
}

func New(lister JobLister, notifier Notifier, inContext func() bool) *Tracker {
	if inContext == nil {
		inContext = func() bool { return true }
	}
	return &Tracker{lister: lister, notifier: notifier, inContext: inContext}
}

// Delay returns the wait before the next poll given how many polls the
// displayed job info has remained unchanged.
func Delay(unchanged int) time.Duration {
	d := time.Duration(unchanged) * pollDelayStep
	if d > maxPollDelay {
		return maxPollDelay
	}
	return d
}

// Track starts or continues tracking. With delay the next poll is
// scheduled after the adaptive interval; otherwise it runs immediately.
// A forced restart cancels any in-flight delayed poll first.
func (t *Tracker) Track(delay, force bool, params Params) {
	t.mu.Lock()
	if force {
		if t.timer != nil {
			t.timer.Stop()
			t.timer = nil
		}
		t.observed = false
		t.unchanged = 0
		t.done = false
	}
	if t.done {
		t.mu.Unlock()
		return
	}

	if delay {
		wait := Delay(t.unchanged)
		t.timer = time.AfterFunc(wait, func() { t.poll(params) })
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()

	t.poll(params)
}

// Stop cancels a pending delayed poll.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Tracker) poll(params Params) {
	jobs, err := t.lister.ActiveJobs(context.Background())
	if err != nil {
		log.Printf("[JOBS] poll failed: %v", err)

		// A transient failure must not orphan the session; retry on
		// the adaptive schedule with state intact.
		t.mu.Lock()
		t.timer = nil
		t.unchanged++
		done := t.done
		t.mu.Unlock()

		if !done {
			t.Track(true, false, params)
		}
		return
	}

	t.mu.Lock()
	t.timer = nil

	var tracked *JobInfo
	for i := range jobs {
		if jobs[i].ID == params.JobID {
			tracked = &jobs[i]
			break
		}
	}

	if tracked != nil {
		if t.observed && tracked.Progress == t.lastProgress {
			t.unchanged++
		} else {
			t.unchanged = 1
		}
		t.observed = true
		t.lastProgress = tracked.Progress
		t.mu.Unlock()

		log.Printf("[JOBS] job %s progress: %d", params.JobID, tracked.Progress)
		t.Track(true, false, params)
		return
	}

	// The job is gone from a list we previously saw it on, or the list
	// is empty. Only an observed job earns a completion notice; if
	// polling started after the job already finished, stay silent.
	fireNotice := t.observed && !t.done
	if fireNotice {
		t.done = true
	}
	t.mu.Unlock()

	if fireNotice {
		t.notifier.Notice(params.Notice)
		if params.URL != "" && t.inContext() {
			t.notifier.Navigate(params.URL)
		}
	}
}
