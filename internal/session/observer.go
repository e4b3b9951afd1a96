package session

import (
	"fmt"
	"log"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
)

// Observer receives progress messages from the session loop.
type Observer interface {
	Printf(format string, args ...any)
}

// logrObserver adapts a logr.Logger to the Observer interface.
type logrObserver struct {
	log logr.Logger
}

// NewConsoleObserver returns an observer logging to the standard logger.
func NewConsoleObserver() Observer {
	return &logrObserver{
		log: funcr.New(func(prefix, args string) {
			if prefix != "" {
				log.Printf("%s: %s", prefix, args)
				return
			}
			log.Print(args)
		}, funcr.Options{}),
	}
}

// Printf implements Observer.
func (o *logrObserver) Printf(format string, args ...any) {
	o.log.Info(fmt.Sprintf(format, args...))
}

// nopObserver discards all messages. Used in tests.
type nopObserver struct{}

func (nopObserver) Printf(string, ...any) {}
