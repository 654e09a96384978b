package fetch

import (
	"context"
)

// HTTPLauncher fetches pages with a plain HTTP GET and no script execution.
// It serves environments where no browser is installed.
type HTTPLauncher struct {
	Options *Options
}

// Launch returns a stateless HTTP session.
func (l *HTTPLauncher) Launch(_ context.Context) (Session, error) {
	return &httpSession{opts: l.Options}, nil
}

type httpSession struct {
	opts *Options
}

func (s *httpSession) Render(ctx context.Context, url string) (string, error) {
	result, err := URL(ctx, url, s.opts)
	if err != nil {
		return "", err
	}
	return result.HTML, nil
}

func (s *httpSession) Close() error {
	return nil
}
