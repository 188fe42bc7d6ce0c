package dashboard

import (
	"time"

	"github.com/respinosap/t2-repo/stats"
)

// Options configures how a Dashboard enriches each window.
type Options struct {
	// Holidays adds the Austrian public holidays overlapping the window.
	Holidays bool

	// OutlierOptions flags actual values far from the forecast. nil disables detection.
	OutlierOptions *stats.OutlierOptions

	// DefaultLookback places the default start this far before the last timestamp.
	DefaultLookback time.Duration
}

func NewDefaultOptions() *Options {
	return &Options{
		Holidays:        true,
		OutlierOptions:  stats.NewOutlierOptions(),
		DefaultLookback: 7 * 24 * time.Hour,
	}
}
