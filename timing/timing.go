/*
Package timing provides a pardata.Observer that measures how long each
operation takes.

Every completed operation is logged at info level with the fields "op" and
"elapsed", plus "error" if the operation failed, and retained as a
Measurement for later reporting.
*/
package timing

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// A Measurement records one completed operation.
type Measurement struct {
	Op      string
	Elapsed time.Duration
	Err     error
}

/*
An Observer implements pardata.Observer by timing operations.

Nested or concurrent operations with the same name are matched in
last-in-first-out order.

An Observer is safe for concurrent use by multiple goroutines.
*/
type Observer struct {
	log logrus.FieldLogger
	now func() time.Time

	mutex        sync.Mutex
	started      map[string][]time.Time
	measurements []Measurement
}

// New returns an Observer that logs to log. If log is nil, the standard
// logrus logger is used.
func New(log logrus.FieldLogger) *Observer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Observer{
		log:     log,
		now:     time.Now,
		started: make(map[string][]time.Time),
	}
}

// Begin implements the method of the pardata.Observer interface.
func (o *Observer) Begin(op string) {
	now := o.now()
	o.mutex.Lock()
	o.started[op] = append(o.started[op], now)
	o.mutex.Unlock()
}

// End implements the method of the pardata.Observer interface. An End
// without matching Begin is logged as a warning and otherwise ignored.
func (o *Observer) End(op string, err error) {
	now := o.now()
	o.mutex.Lock()
	starts := o.started[op]
	if len(starts) == 0 {
		o.mutex.Unlock()
		o.log.WithField("op", op).Warn("operation ended without beginning")
		return
	}
	start := starts[len(starts)-1]
	if len(starts) == 1 {
		delete(o.started, op)
	} else {
		o.started[op] = starts[:len(starts)-1]
	}
	m := Measurement{Op: op, Elapsed: now.Sub(start), Err: err}
	o.measurements = append(o.measurements, m)
	o.mutex.Unlock()

	entry := o.log.WithFields(logrus.Fields{"op": op, "elapsed": m.Elapsed})
	if err != nil {
		entry.WithError(err).Info("operation failed")
		return
	}
	entry.Info("operation done")
}

// Measurements returns the completed operations in order of completion.
func (o *Observer) Measurements() []Measurement {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	return append([]Measurement(nil), o.measurements...)
}

// Total returns the sum of the elapsed times of all completed operations.
func (o *Observer) Total() (total time.Duration) {
	for _, m := range o.Measurements() {
		total += m.Elapsed
	}
	return
}
