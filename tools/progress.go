package tools

import (
	"os"

	"github.com/schollz/progressbar/v3"
)

const (
	DescLoading = "Loading"
)

// NewProgressBar creates a progress bar on stderr so that stdout stays free for
// the summary. A negative total gives a spinner, which is what a tree walk
// needs since the number of items is only known once it is over.
func NewProgressBar(total int, description string) *progressbar.ProgressBar {
	opts := []progressbar.Option{
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
	}

	if total < 0 {
		opts = append(opts,
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetRenderBlankState(true),
		)
	} else {
		opts = append(opts, progressbar.OptionShowIts())
	}

	return progressbar.NewOptions(total, opts...)
}
