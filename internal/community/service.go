// Package community exposes the operations of the community backend. Each
// operation runs its relational steps in one store transaction and only
// touches side channels (stored payloads, realtime events) after commit.
package community

import (
	"io"

	"github.com/inkwell-dev/inkwell/internal/auth"
	"github.com/inkwell-dev/inkwell/internal/cascade"
	"github.com/inkwell-dev/inkwell/internal/leaver"
	"github.com/inkwell-dev/inkwell/internal/store"
	"go.uber.org/zap"
)

// FileStore keeps uploaded payloads outside the database
type FileStore interface {
	Save(originalName string, r io.Reader) (string, int64, error)
	Remove(path string) error
}

// Notifier is told about committed changes to a document's thread
type Notifier interface {
	DocumentChanged(documentID uint, message string)
}

type Service struct {
	store    *store.Store
	sentinel leaver.Sentinel
	cascade  *cascade.Orchestrator
	files    FileStore
	tokens   *auth.Issuer
	notifier Notifier
	log      *zap.Logger
}

type Options struct {
	Store    *store.Store
	Sentinel leaver.Sentinel
	Files    FileStore
	Tokens   *auth.Issuer
	Notifier Notifier // optional
	Logger   *zap.Logger
}

func NewService(opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		store:    opts.Store,
		sentinel: opts.Sentinel,
		cascade:  cascade.NewOrchestrator(cascade.UserDeletion, opts.Sentinel, log.Named("cascade")),
		files:    opts.Files,
		tokens:   opts.Tokens,
		notifier: opts.Notifier,
		log:      log,
	}
}

// Sentinel returns the leaver account the service reassigns content to
func (s *Service) Sentinel() leaver.Sentinel {
	return s.sentinel
}

func (s *Service) notify(documentID uint, message string) {
	if s.notifier != nil {
		s.notifier.DocumentChanged(documentID, message)
	}
}

func (s *Service) removePayloads(paths []string) {
	for _, path := range paths {
		if err := s.files.Remove(path); err != nil {
			s.log.Warn("Failed to remove stored file", zap.String("path", path), zap.Error(err))
		}
	}
}
