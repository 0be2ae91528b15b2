// Package example implements example handlers in an outside package.
package example

import (
	"strings"
	"sync"

	"github.com/advdv/bchain"
)

// Log records the order in which handlers ran.
type Log struct {
	mu      sync.Mutex
	entries []string
}

// Entries returns a copy of what was recorded so far.
func (l *Log) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]string(nil), l.entries...)
}

// String joins the entries with a comma.
func (l *Log) String() string {
	return strings.Join(l.Entries(), ",")
}

func (l *Log) add(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, s)
}

// Middleware records name and continues the chain.
func Middleware(logs *Log, name string) bchain.HandlerFunc {
	return func(_ bchain.ResponseWriter, _ *bchain.Request, next bchain.Next) error {
		logs.add(name)
		next(nil)

		return nil
	}
}

// Terminal records name and ends the response with it as the body.
func Terminal(logs *Log, name string) bchain.HandlerFunc {
	return func(w bchain.ResponseWriter, _ *bchain.Request, _ bchain.Next) error {
		logs.add(name)

		return w.Send(name)
	}
}

// Failing records name and aborts the chain with err.
func Failing(logs *Log, name string, err error) bchain.HandlerFunc {
	return func(_ bchain.ResponseWriter, _ *bchain.Request, next bchain.Next) error {
		logs.add(name)
		next(err)

		return nil
	}
}
