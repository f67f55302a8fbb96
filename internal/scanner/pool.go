package scanner

import (
	"context"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// PoolOptions controls RunPool
type PoolOptions struct {
	Workers      int
	ShowProgress bool
	Description  string
}

// RunPool applies fn to every url with at most Workers calls in flight.
// Results keep the order of urls. URLs not started before ctx ends are
// passed to fn anyway so it can report the cancellation.
func RunPool[T any](ctx context.Context, urls []string, opts PoolOptions, fn func(context.Context, string) T) []T {
	numWorkers := opts.Workers
	if numWorkers < 1 {
		numWorkers = 1
	}
	if numWorkers > len(urls) {
		numWorkers = len(urls)
	}

	var bar *progressbar.ProgressBar
	if opts.ShowProgress {
		description := opts.Description
		if description == "" {
			description = "Analyzing websites"
		}
		bar = progressbar.NewOptions(len(urls),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(50),
			progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))
	}

	results := make([]T, len(urls))
	workCh := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workCh {
				results[idx] = fn(ctx, urls[idx])
				if bar != nil {
					bar.Add(1)
				}
			}
		}()
	}

	for idx := range urls {
		workCh <- idx
	}
	close(workCh)

	wg.Wait()
	if bar != nil {
		bar.Finish()
	}
	return results
}
