package main

import (
	"fmt"

	"github.com/awalczyk/billfetch"
	"github.com/awalczyk/billfetch/scrape"
)

// RunCmd executes one scan or direct-URL run.
type RunCmd struct {
	Congress string
	Types    []billfetch.BillType
	Start    int
	End      int
	Formats  []billfetch.Format
	URLs     []string
	Force    bool
}

// Run drives the runner and reports progress and the final tally.
func (c *RunCmd) Run(deps *Dependencies) error {
	progress := func(e scrape.ProgressEvent) {
		switch e.Type {
		case scrape.ProgressFound:
			fmt.Fprintf(deps.Stdout, "found %s\n", e.BillID)
		case scrape.ProgressRecorded:
			fmt.Fprintf(deps.Stdout, "[%d] saved %s\n", e.Recorded, e.BillID)
		}
	}

	var res *scrape.Result
	var err error
	if len(c.URLs) > 0 {
		fmt.Fprintf(deps.Stdout, "Fetching %d URLs\n", len(c.URLs))
		res, err = deps.Runner.RunURLs(deps.Ctx, c.URLs, c.Force, progress)
	} else {
		fmt.Fprintf(deps.Stdout, "Scanning congress %s, bills %d-%d\n", c.Congress, c.Start, c.End)
		res, err = deps.Runner.RunRange(deps.Ctx, c.Congress, c.Types, c.Start, c.End, c.Formats, c.Force, progress)
	}
	if err != nil {
		if res != nil {
			c.report(deps, res)
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", billfetch.ErrorMessage(err))
		return err
	}

	return c.report(deps, res)
}

// report prints the final tally, itemizing every failed locator. A run that
// found nothing at all returns ENOTFOUND so the process exits non-zero,
// distinctly from a successful run.
func (c *RunCmd) report(deps *Dependencies, res *scrape.Result) error {
	for _, f := range res.Failed {
		fmt.Fprintf(deps.Stderr, "failed %s: %s\n", f.URL, f.Reason)
	}

	if len(res.Recorded) == 0 && res.Skipped == 0 {
		return billfetch.Errorf(billfetch.ENOTFOUND, "no bills found")
	}

	fmt.Fprintf(deps.Stdout, "Saved %d bills (%d skipped, %d not found, %d rejected, %d failed)\n",
		len(res.Recorded), res.Skipped, res.NotFound, res.Rejected, len(res.Failed))
	return nil
}
