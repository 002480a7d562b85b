package main

import (
	"context"
	"io"
	"time"

	"github.com/awalczyk/billfetch"
	"github.com/awalczyk/billfetch/scrape"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Congress    string        `short:"c" default:"118" help:"Congress number to scan"`
	Types       []string      `short:"t" name:"type" help:"Bill types to scan (hconres, hjres, hr, hres, s, sconres, sjres, sres; default: all)"`
	Start       int           `default:"1" help:"First bill number to scan"`
	End         int           `default:"9999" help:"Last bill number to scan"`
	Formats     []string      `short:"f" name:"format" help:"Document formats to fetch (pdf, htm, xml; default: pdf)"`
	URLs        []string      `name:"url" help:"Fetch these document URLs directly instead of scanning"`
	Force       bool          `help:"Re-download bills already recorded in the progress ledger"`
	Path        string        `short:"p" default:"." help:"Base path for the downloads directory and ledger"`
	Concurrency int           `default:"1" help:"Concurrent download limit for direct URL fetching"`
	Timeout     time.Duration `default:"30s" help:"HTTP timeout per request"`
	ProbeRPS    float64       `name:"probe-rps" default:"10" help:"Existence checks per second"`
	DownloadRPS float64       `name:"download-rps" default:"2" help:"Downloads per second"`
	BaseURL     string        `name:"base-url" default:"https://www.govinfo.gov" help:"Document repository base URL"`
	NoCatalog   bool          `name:"no-catalog" help:"Disable the sqlite download catalog"`
	Verbose     bool          `short:"v" help:"Enable debug logging"`
}

// Validate checks flag values that Kong's tags cannot express.
func (c *CLI) Validate() error {
	if c.Start < 1 || c.End > 9999 || c.End < c.Start {
		return billfetch.Errorf(billfetch.EINVALID, "bill number range [%d, %d] outside [1, 9999]", c.Start, c.End)
	}
	if _, err := c.billTypes(); err != nil {
		return err
	}
	if _, err := c.formats(); err != nil {
		return err
	}
	return nil
}

// billTypes converts the type flags to domain values. Empty means all types.
func (c *CLI) billTypes() ([]billfetch.BillType, error) {
	types := make([]billfetch.BillType, 0, len(c.Types))
	for _, s := range c.Types {
		t := billfetch.BillType(s)
		if !billfetch.ValidBillType(t) {
			return nil, billfetch.Errorf(billfetch.EINVALID, "unknown bill type %q", s)
		}
		types = append(types, t)
	}
	return types, nil
}

// formats converts the format flags to domain values. Empty means PDF only.
func (c *CLI) formats() ([]billfetch.Format, error) {
	formats := make([]billfetch.Format, 0, len(c.Formats))
	for _, s := range c.Formats {
		f := billfetch.Format(s)
		if !billfetch.ValidFormat(f) {
			return nil, billfetch.Errorf(billfetch.EINVALID, "unknown format %q", s)
		}
		formats = append(formats, f)
	}
	return formats, nil
}

// Dependencies holds the wired services and configuration for command
// execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Runner *scrape.Runner

	// APIKey is read from GOVINFO_API_KEY and held for future use; the
	// public document paths do not require it and it is never attached to
	// requests.
	APIKey string
}
