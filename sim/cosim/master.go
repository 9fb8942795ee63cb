// Package cosim drives one or more lookahead controllers the way an
// event-driven co-simulation master does: every participant is synchronized
// at the earlier of its next step and its predicted event time, and external
// stimuli may change inputs at arbitrary times in between.
package cosim

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/lookahead-sim/lookahead-sim/sim"
	"github.com/lookahead-sim/lookahead-sim/sim/record"
)

// Participant is one controller scheduled by the master.
type Participant struct {
	Name       string
	Controller *sim.Controller
	Stimulus   Stimulus // optional

	now  sim.SimTime
	next sim.SimTime
	gen  uint64
	last sim.SyncResult

	syncs  int
	inputs int
}

// Now returns the participant's last synchronization time.
func (p *Participant) Now() sim.SimTime { return p.now }

// NextSyncTime is the latest time the participant may be advanced to without
// missing a predicted event.
func (p *Participant) NextSyncTime() sim.SimTime { return p.next }

// Last returns the result of the latest synchronization.
func (p *Participant) Last() sim.SyncResult { return p.last }

// Stats summarizes a master run.
type Stats struct {
	Events      int // events executed
	Syncs       int // synchronizations from sync events
	InputEvents int // synchronizations carrying stimulus inputs
	Stale       int // events dropped because the participant was rescheduled
	Clamped     int // synchronizations that stopped short at a state event
}

// Master is the event-driven co-simulation loop.
type Master struct {
	step     sim.SimTime
	stop     sim.SimTime
	heap     *EventHeap
	recorder record.Recorder

	participants []*Participant
	nextEventID  uint64
	clock        sim.SimTime
	stats        Stats
	hasRun       bool
}

// NewMaster creates a master that synchronizes every participant at least
// every step time units. rec may be nil.
func NewMaster(step sim.SimTime, rec record.Recorder) (*Master, error) {
	if !(step > 0) || math.IsInf(step, 0) {
		return nil, fmt.Errorf("master step must be positive and finite, got %g", step)
	}
	return &Master{
		step:     step,
		heap:     NewEventHeap(),
		recorder: rec,
	}, nil
}

// Add registers an initialized controller. The step must fit in the
// controller's horizon so that every scheduled target is a legal Sync.
func (m *Master) Add(name string, c *sim.Controller, stim Stimulus) (*Participant, error) {
	if m.hasRun {
		return nil, errors.New("cannot add participants after Run")
	}
	if s := c.State(); s != sim.StateInitialized && s != sim.StateRunning {
		return nil, fmt.Errorf("participant %s: controller is %s", name, s)
	}
	if m.step > c.Lookahead().Horizon {
		return nil, fmt.Errorf("participant %s: master step %g exceeds horizon %g", name, m.step, c.Lookahead().Horizon)
	}
	p := &Participant{
		Name:       name,
		Controller: c,
		Stimulus:   stim,
		now:        c.Time(),
		next:       c.Time() + m.step,
	}
	if pred := c.Prediction(); pred != nil {
		p.next = pred.NextSyncTime()
	}
	p.last = sim.SyncResult{Time: p.now, NextSyncTime: p.next, Outputs: c.Outputs()}
	m.participants = append(m.participants, p)
	return p, nil
}

// Participants returns the registered participants in registration order.
func (m *Master) Participants() []*Participant { return m.participants }

// Clock returns the time of the last executed event.
func (m *Master) Clock() sim.SimTime { return m.clock }

// Stats returns the counters of the run so far.
func (m *Master) Stats() Stats { return m.stats }

// Run synchronizes every participant up to stop. It stops at the first
// synchronization error; warnings and discards are recorded and logged.
func (m *Master) Run(stop sim.SimTime) error {
	if m.hasRun {
		return errors.New("master already ran")
	}
	m.hasRun = true
	m.stop = stop

	for _, p := range m.participants {
		if err := m.record(p, p.last); err != nil {
			return err
		}
		m.schedule(p)
	}

	for m.heap.Len() > 0 {
		ev := m.heap.PopNext()
		m.clock = ev.Timestamp()
		if err := ev.Execute(m); err != nil {
			return err
		}
		m.stats.Events++
	}

	if m.recorder != nil {
		return m.recorder.Flush()
	}
	return nil
}

// schedule queues the next synchronization of p and, if its stimulus fires,
// an input event before it. Any event queued earlier for p becomes stale.
func (m *Master) schedule(p *Participant) {
	p.gen++
	if finished(p.now, m.stop) {
		return
	}

	// A next time at or before now means the prediction is exhausted there;
	// the master has to step past it.
	target := p.now + m.step
	if !finished(p.now, p.next) && p.next < target {
		target = p.next
	}
	if target > m.stop {
		target = m.stop
	}

	m.nextEventID++
	m.heap.Schedule(&SyncEvent{
		BaseEvent:   BaseEvent{timestamp: target, eventID: m.nextEventID, eventType: EventTypeSync},
		Participant: p,
		generation:  p.gen,
	})

	if p.Stimulus == nil {
		return
	}
	at, inputs, ok := p.Stimulus.Next(p.now, target, p.Controller.Inputs())
	if !ok || at < p.now || at >= target {
		return
	}
	m.nextEventID++
	m.heap.Schedule(&InputEvent{
		BaseEvent:   BaseEvent{timestamp: at, eventID: m.nextEventID, eventType: EventTypeInput},
		Participant: p,
		Inputs:      inputs,
		generation:  p.gen,
	})
}

func (m *Master) handleSync(e *SyncEvent) error {
	p := e.Participant
	if e.generation != p.gen {
		m.stats.Stale++
		return nil
	}
	m.stats.Syncs++
	return m.sync(p, e.Timestamp(), nil)
}

func (m *Master) handleInput(e *InputEvent) error {
	p := e.Participant
	if e.generation != p.gen {
		m.stats.Stale++
		return nil
	}
	m.stats.InputEvents++
	p.inputs++
	logrus.Debugf("[t=%.4f] %s: input event %v", e.Timestamp(), p.Name, e.Inputs.Names())
	inputs := e.Inputs
	return m.sync(p, e.Timestamp(), &inputs)
}

func (m *Master) sync(p *Participant, target sim.SimTime, inputs *sim.InputSet) error {
	res, err := p.Controller.Sync(p.now, target, inputs)
	if err != nil {
		return fmt.Errorf("participant %s: sync %g -> %g: %w", p.Name, p.now, target, err)
	}
	p.syncs++
	if !finished(res.Time, target) {
		m.stats.Clamped++
		logrus.Debugf("[t=%.4f] %s: state event, stopped at %.6f", p.now, p.Name, res.Time)
	}
	if res.Status != sim.StatusOK {
		logrus.Warnf("[t=%.4f] %s: sync returned %s", res.Time, p.Name, res.Status)
	}
	logrus.Debugf("[t=%.4f] %s: reached %.6f (hit=%v) next=%.6f", p.now, p.Name, res.Time, res.CacheHit, res.NextSyncTime)

	p.now = res.Time
	p.next = res.NextSyncTime
	p.last = res
	if err := m.record(p, res); err != nil {
		return err
	}
	m.schedule(p)
	return nil
}

func (m *Master) record(p *Participant, res sim.SyncResult) error {
	if m.recorder == nil {
		return nil
	}
	err := m.recorder.Record(record.Sample{
		Instance: p.Controller.InstanceID(),
		Time:     res.Time,
		Outputs:  res.Outputs,
		CacheHit: res.CacheHit,
		Status:   res.Status,
	})
	if err != nil {
		return fmt.Errorf("recording %s at t=%g: %w", p.Name, res.Time, err)
	}
	return nil
}

// finished reports whether now has reached stop up to round-off.
func finished(now, stop sim.SimTime) bool {
	return stop-now <= 1e-9*math.Max(1, math.Abs(stop))
}
