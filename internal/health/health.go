// Package health contains code for health checks.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// nolint:gochecknoglobals
var (
	version = "dev"
	commit  = "undefined"
)

// GetVersion returns service's version and commit.
func GetVersion() string {
	return fmt.Sprintf("%s-%s", version, commit)
}

// Pinger pings an external dependency.
type Pinger interface {
	// Ping returns object with meta information and error.
	Ping(ctx context.Context) (interface{}, error)
	// Name returns name of pinger.
	Name() string
}

type subjectPinger struct {
	f func(ctx context.Context) error
	s string
}

func (p subjectPinger) Ping(ctx context.Context) (interface{}, error) {
	return nil, p.f(ctx)
}

func (p subjectPinger) Name() string {
	return p.s
}

// SubjectPinger wraps a bare ping function, e.g. (sql.DB).PingContext.
func SubjectPinger(s string, f func(ctx context.Context) error) Pinger {
	return subjectPinger{
		f: f,
		s: s,
	}
}

// Handler returns an http handler which runs all pingers concurrently.
func Handler(timeout time.Duration, p ...Pinger) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		gr, ctx := errgroup.WithContext(ctx)

		var mu sync.Mutex
		resp := struct {
			Version string                 `json:"version"`
			Meta    map[string]interface{} `json:"meta"`
			Errors  map[string]string      `json:"errors"`
		}{
			Version: GetVersion(),
			Meta:    map[string]interface{}{},
			Errors:  map[string]string{},
		}

		for i := range p {
			v := p[i]
			gr.Go(func() error {
				m, err := v.Ping(ctx)
				if err != nil {
					logrus.WithError(err).Error("health check failed")
				}

				mu.Lock()
				resp.Meta[v.Name()] = m
				if err != nil {
					resp.Errors[v.Name()] = err.Error()
				}
				mu.Unlock()

				return err
			})
		}

		if err := gr.Wait(); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}

		data, _ := json.Marshal(resp)
		_, _ = w.Write(data)
	}
}
