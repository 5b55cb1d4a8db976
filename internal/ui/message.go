package ui

import (
	"github.com/encorefm/encore/internal/engine"
	"github.com/encorefm/encore/internal/formatter"
)

// recommendationsFetchedMsg carries a refreshed listing for the browse view.
type recommendationsFetchedMsg struct {
	recs []formatter.Recommendation
	err  error
}

// actionDoneMsg reports the outcome of a like or dismiss keypress.
type actionDoneMsg struct {
	action  string
	applied bool
	err     error
}

// progressUpdateMsg wraps an engine progress event for the generate view.
type progressUpdateMsg engine.ProgressUpdate

// generateCompleteMsg signals the end of a generation run.
type generateCompleteMsg struct {
	result *engine.BatchResult
	err    error
}
