package trace

import (
	"context"
	"sync"
	"time"
)

// StartHeartbeat emits a heartbeat event every interval under the span
// carried by ctx until stop is called or ctx is done. status supplies the
// event detail, e.g. "3/10 units; running a.c, b.c". A batch that stops
// producing unit ends while heartbeats continue names the units it is stuck
// on.
func StartHeartbeat(ctx context.Context, interval time.Duration, status func() string) (stop func()) {
	tracer := FromContext(ctx)
	if tracer.Level() == LevelOff || interval <= 0 {
		return func() {}
	}
	parent := SpanFromContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				ev := Event{
					Time:  time.Now(),
					Kind:  KindHeartbeat,
					Scope: ScopeRun,
					Name:  "heartbeat",
				}
				if parent != nil {
					ev.ParentID = parent.anchor()
				}
				if status != nil {
					ev.Detail = status()
				}
				tracer.Emit(&ev)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
