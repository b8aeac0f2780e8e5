//go:build statsview

package statsview

import (
	"errors"
	"net/http"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Server is a running stats server.
type Server struct {
	mgr  *statsview.ViewManager
	done chan error
}

// Start serves the graphs in a new goroutine until Stop is called.
func Start(cfg Config) (*Server, error) {
	cfg = cfg.withDefaults()
	viewer.SetConfiguration(
		viewer.WithAddr(cfg.Addr),
		viewer.WithInterval(int(cfg.Interval.Milliseconds())),
	)

	s := &Server{
		mgr:  statsview.New(),
		done: make(chan error, 1),
	}
	go func() {
		s.done <- s.mgr.Start()
	}()
	return s, nil
}

// Stop shuts the server down. It returns the error that ended the server
// early, if any.
func (s *Server) Stop() error {
	s.mgr.Stop()
	if err := <-s.done; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func Available() bool { return true }
