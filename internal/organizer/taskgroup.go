package organizer

import "sync"

// taskGroup runs functions with at most limit extra goroutines. When every
// slot is taken Go runs fn on the calling goroutine, so units that dispatch
// further units never block waiting for a slot they hold themselves.
type taskGroup struct {
	slots chan struct{}
	wg    sync.WaitGroup
}

func newTaskGroup(limit int) *taskGroup {
	if limit < 1 {
		limit = 1
	}
	return &taskGroup{slots: make(chan struct{}, limit)}
}

// Go schedules fn. Wait does not return before fn and everything it scheduled
// has returned.
func (g *taskGroup) Go(fn func()) {
	g.wg.Add(1)
	select {
	case g.slots <- struct{}{}:
		go func() {
			defer func() {
				<-g.slots
				g.wg.Done()
			}()
			fn()
		}()
	default:
		defer g.wg.Done()
		fn()
	}
}

func (g *taskGroup) Wait() {
	g.wg.Wait()
}
