// Package engine drives the simulation's periodic jobs. Each job runs on its
// own cadence; a panicking pass is logged and the job keeps its schedule.
package engine

import (
	"log/slog"
	"sync"
	"time"
)

// Job is a named periodic pass over world state.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func()
}

// Engine runs registered jobs until stopped.
type Engine struct {
	log  *slog.Logger
	jobs []Job

	mu      sync.Mutex
	stop    chan struct{}
	wg      sync.WaitGroup
	running bool
}

// New creates an engine with no jobs registered.
func New(log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{log: log}
}

// Add registers a job. Must be called before Start.
func (e *Engine) Add(name string, interval time.Duration, run func()) {
	e.jobs = append(e.jobs, Job{Name: name, Interval: interval, Run: run})
}

// Start launches one goroutine per job. No-op when already running.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return
	}
	e.running = true
	e.stop = make(chan struct{})

	for _, j := range e.jobs {
		e.wg.Add(1)
		go e.loop(j, e.stop)
	}
	e.log.Info("engine started", "jobs", len(e.jobs))
}

// Stop halts all jobs and waits for in-flight passes to finish.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	close(e.stop)
	e.mu.Unlock()

	e.wg.Wait()
	e.log.Info("engine stopped")
}

func (e *Engine) loop(j Job, stop <-chan struct{}) {
	defer e.wg.Done()
	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			e.runJob(j)
		}
	}
}

// runJob executes one pass behind a recover boundary so a bad pass never
// takes the scheduler down.
func (e *Engine) runJob(j Job) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("job panicked", "job", j.Name, "panic", r)
		}
	}()
	j.Run()
}
