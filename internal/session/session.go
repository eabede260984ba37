package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/joseph-ayodele/docextract/internal/entity"
	"github.com/joseph-ayodele/docextract/internal/extract"
)

// Session owns a State and serializes submissions against one Extractor.
// At most one submission is in flight; a second one gets ErrBusy.
type Session struct {
	client extract.Extractor
	logger *slog.Logger

	mu    sync.Mutex
	state State
}

func New(client extract.Extractor, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		client: client,
		logger: logger,
		state:  State{Results: []entity.ExtractionResult{}},
	}
}

// State returns a copy of the current state. Changing it does not affect the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.state)
}

func snapshot(st State) State {
	st.Files = append([]extract.Document(nil), st.Files...)
	st.Results = entity.CloneResults(st.Results)
	return st
}

// Results returns the current result list.
func (s *Session) Results() []entity.ExtractionResult {
	return s.State().Results
}

func (s *Session) SelectFiles(docs []extract.Document) {
	s.dispatch(SelectFiles{Files: docs})
}

func (s *Session) SetURL(url string) {
	s.dispatch(SetURL{URL: url})
}

func (s *Session) dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, a)
	return s.state
}

// begin checks the busy flag and the local preconditions, then marks the
// submission as started. Both checks happen under one lock.
func (s *Session) begin(start Action, check func(State) error) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Loading {
		return s.state, ErrBusy
	}
	if err := check(s.state); err != nil {
		return s.state, err
	}
	s.state = Reduce(s.state, start)
	return s.state, nil
}

// SubmitFiles uploads the selected files. One file goes to the single file
// endpoint, two or more to the batch endpoint.
func (s *Session) SubmitFiles(ctx context.Context) ([]entity.ExtractionResult, error) {
	st, err := s.begin(SubmitFile{}, func(st State) error {
		if len(st.Files) == 0 {
			return ErrNoFiles
		}
		return nil
	})
	if err != nil {
		s.logger.Debug("session.submit_files.skipped", "reason", err)
		return nil, err
	}

	start := time.Now()
	var (
		results []entity.ExtractionResult
		msg     string
	)
	if len(st.Files) == 1 {
		msg = MsgFileFailed
		var r entity.ExtractionResult
		r, err = s.client.ExtractFile(ctx, st.Files[0])
		results = []entity.ExtractionResult{r}
	} else {
		msg = MsgFilesFailed
		results, err = s.client.ExtractBatch(ctx, st.Files)
	}
	return s.finish("files", len(st.Files), start, results, msg, err)
}

// SubmitURL asks the service to fetch and extract the pending url.
func (s *Session) SubmitURL(ctx context.Context) ([]entity.ExtractionResult, error) {
	st, err := s.begin(SubmitURL{}, func(st State) error {
		if strings.TrimSpace(st.URL) == "" {
			return ErrBlankURL
		}
		return nil
	})
	if err != nil {
		s.logger.Debug("session.submit_url.skipped", "reason", err)
		return nil, err
	}

	start := time.Now()
	r, err := s.client.ExtractURL(ctx, st.URL)
	return s.finish("url", 1, start, []entity.ExtractionResult{r}, MsgURLFailed, err)
}

func (s *Session) finish(kind string, inputs int, start time.Time, results []entity.ExtractionResult, msg string, err error) ([]entity.ExtractionResult, error) {
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		s.logger.Error("session.submit.failed", "kind", kind, "inputs", inputs, "error", err, "elapsed_ms", elapsed)
		s.dispatch(RequestFailed{Message: msg})
		return nil, &RemoteError{Message: msg, Err: err}
	}
	st := s.dispatch(RequestSucceeded{Results: results})
	s.logger.Info("session.submit.ok", "kind", kind, "inputs", inputs, "results", len(st.Results), "elapsed_ms", elapsed)
	return entity.CloneResults(st.Results), nil
}
