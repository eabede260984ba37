package session

import (
	"github.com/joseph-ayodele/docextract/internal/entity"
	"github.com/joseph-ayodele/docextract/internal/extract"
)

// State is everything a session holds. Results is never mutated in place:
// each successful submission swaps in a fresh slice.
type State struct {
	Files   []extract.Document
	URL     string
	Results []entity.ExtractionResult
	Loading bool
	Error   string
}

// Action is one state transition input.
type Action interface{ isAction() }

type (
	// SelectFiles replaces the pending file selection.
	SelectFiles struct{ Files []extract.Document }
	// SetURL replaces the pending url.
	SetURL struct{ URL string }
	// SubmitFile marks a file submission as started.
	SubmitFile struct{}
	// SubmitURL marks a url submission as started.
	SubmitURL struct{}
	// RequestSucceeded carries the normalized result list.
	RequestSucceeded struct{ Results []entity.ExtractionResult }
	// RequestFailed carries the user facing message.
	RequestFailed struct{ Message string }
)

func (SelectFiles) isAction()      {}
func (SetURL) isAction()           {}
func (SubmitFile) isAction()       {}
func (SubmitURL) isAction()        {}
func (RequestSucceeded) isAction() {}
func (RequestFailed) isAction()    {}

// Reduce returns the state that follows s after a. It never modifies s.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SelectFiles:
		s.Files = append([]extract.Document(nil), a.Files...)
	case SetURL:
		s.URL = a.URL
	case SubmitFile, SubmitURL:
		s.Loading = true
		s.Error = ""
	case RequestSucceeded:
		s.Results = entity.CloneResults(a.Results)
		s.Loading = false
		s.Error = ""
	case RequestFailed:
		s.Loading = false
		s.Error = a.Message
	}
	return s
}
