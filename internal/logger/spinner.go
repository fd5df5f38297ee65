package logger

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sqve/branchlink/internal/styles"
	"github.com/sqve/branchlink/internal/utils"
)

// Spinner renders a loading indicator while a remote operation is in flight.
type Spinner struct {
	message atomic.Value
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

func StartSpinner(message string) *Spinner {
	s := &Spinner{done: make(chan struct{})}
	s.message.Store(message)

	if _, errOut := writers(); isPlain() || !utils.IsInteractive(errOut) {
		_, _ = fmt.Fprintf(errOut, "%s %s\n", styles.Render(&styles.Info, "→"), message)
		s.once.Do(func() { close(s.done) })
		return s
	}

	s.wg.Add(1)
	go s.animate()
	return s
}

func (s *Spinner) animate() {
	defer s.wg.Done()
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	_, errOut := writers()
	i := 0
	for {
		select {
		case <-s.done:
			_, _ = fmt.Fprint(errOut, "\r\033[K")
			return
		case <-ticker.C:
			msg, _ := s.message.Load().(string)
			_, _ = fmt.Fprintf(errOut, "\r%s %s",
				styles.Render(&styles.Info, frames[i]),
				msg)
			i = (i + 1) % len(frames)
		}
	}
}

func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.done) })
	s.wg.Wait()
}
