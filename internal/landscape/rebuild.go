package landscape

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/runtime-landscape/internal/workerpool"
)

// coordinatorState is the phase of the in-flight rebuild.
type coordinatorState int32

const (
	stateIdle coordinatorState = iota
	stateVerticesQueued
	stateRowsQueued
	stateMerging
)

func (s coordinatorState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateVerticesQueued:
		return "vertices_queued"
	case stateRowsQueued:
		return "rows_queued"
	case stateMerging:
		return "merging"
	default:
		return fmt.Sprintf("coordinatorState(%d)", s)
	}
}

// RebuildStats counts coordinator outcomes since the surface was created.
type RebuildStats struct {
	Started   int
	Published int
	Skipped   int
	Abandoned int
}

// coordinator serializes patch rebuilds. One patch is in flight at a time;
// its rows run on the pool and are merged on the driver goroutine.
type coordinator struct {
	s    *Surface
	log  *zap.Logger
	pool *workerpool.Pool[rowJob]

	state    coordinatorState
	queue    []int
	inflight *rebuild
	stats    RebuildStats

	// wake receives a value when the last row of a rebuild finishes.
	wake chan struct{}
}

func newCoordinator(s *Surface, log *zap.Logger, workers, rows int) *coordinator {
	c := &coordinator{
		s:    s,
		log:  log,
		wake: make(chan struct{}, 1),
	}
	c.pool = workerpool.New(workers, rows, func(j rowJob) {
		j.rb.run(j.row, c.signal)
	})
	return c
}

func (c *coordinator) signal() {
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// queueRebuild starts a rebuild right away when nothing is in flight,
// otherwise appends the patch to the FIFO.
func (c *coordinator) queueRebuild(index int) {
	c.queue = append(c.queue, index)
	if c.state == stateIdle {
		c.startNext()
	}
}

func (c *coordinator) idle() bool {
	return c.state == stateIdle && len(c.queue) == 0
}

// tick advances the state machine. It never blocks on workers.
func (c *coordinator) tick() {
	if c.state == stateRowsQueued && c.inflight.pending.Load() == 0 {
		c.merge()
	}
	if c.state == stateIdle {
		c.startNext()
	}
}

func (c *coordinator) startNext() {
	for len(c.queue) > 0 {
		index := c.queue[0]
		c.queue = c.queue[1:]
		if c.start(index) {
			return
		}
	}
}

// start prepares a patch and hands its rows to the pool. It returns false
// when the patch was skipped.
func (c *coordinator) start(index int) bool {
	p := c.s.patches[index]
	c.state = stateVerticesQueued

	cache, layers, err := c.s.prepare(p)
	if err != nil {
		c.log.Warn("patch skipped, keeping last geometry",
			zap.Int("patch", index), zap.Error(err))
		p.reset()
		c.stats.Skipped++
		c.state = stateIdle
		return false
	}
	p.beginRebuild()

	rows := cache.res[1] + 1
	rb := &rebuild{
		patch:  p,
		cache:  cache,
		layers: layers,
		rows:   make([]rowOutput, rows),
	}
	rb.pending.Store(int32(rows))
	c.inflight = rb
	c.state = stateRowsQueued
	c.stats.Started++

	c.log.Debug("rebuild started",
		zap.Int("patch", index),
		zap.Int("rows", rows),
		zap.Int("layers", len(layers)),
		zap.Int("queued", len(c.queue)))

	for y := 0; y < rows; y++ {
		if err := c.pool.Submit(rowJob{row: y, rb: rb}); err != nil {
			c.log.Warn("row submission failed", zap.Int("patch", index), zap.Error(err))
			c.abandon()
			p.reset()
			return false
		}
	}
	return true
}

func (c *coordinator) merge() {
	c.state = stateMerging
	rb := c.inflight
	g := assemble(rb.cache, rb.rows)
	c.s.publish(rb.patch, rb.cache, g, rb.layers)
	c.stats.Published++

	c.inflight = nil
	c.state = stateIdle
	if rb.patch.finishRebuild() {
		c.queue = append(c.queue, rb.patch.index)
	}
}

// abandon drops the in-flight rebuild. Its rows may still be running; they
// write only into the dropped buffers.
func (c *coordinator) abandon() {
	if c.inflight != nil {
		c.inflight.abandoned.Store(true)
		c.inflight = nil
		c.stats.Abandoned++
	}
	c.state = stateIdle
}

// drop abandons the in-flight rebuild when it belongs to the given patch.
func (c *coordinator) drop(index int) {
	if c.inflight != nil && c.inflight.patch.index == index {
		c.abandon()
	}
}

// cancel abandons the in-flight rebuild and forgets the queue.
func (c *coordinator) cancel() {
	c.abandon()
	c.queue = nil
}

func (c *coordinator) close() {
	c.cancel()
	c.pool.Close()
}
