package commands

import (
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner is the progress indicator shown while a sample is taken.
type Spinner interface {
	Start()
	Stop()
	UpdateSuffix(suffix string)
}

type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start()                     { rs.s.Start() }
func (rs *realSpinner) Stop()                      { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

// newSpinner draws on w. The spinner stays silent when stdout is not a
// terminal, so piped output is never decorated.
var newSpinner = func(w io.Writer) Spinner {
	return &realSpinner{spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(w))}
}
