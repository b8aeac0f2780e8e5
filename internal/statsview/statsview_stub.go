//go:build !statsview

package statsview

type Server struct{}

func Start(Config) (*Server, error) {
	return nil, ErrUnavailable
}

func (*Server) Stop() error { return nil }

func Available() bool { return false }
