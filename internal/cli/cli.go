package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pfrederiksen/sis-sections/internal/fetch"
	"github.com/pfrederiksen/sis-sections/internal/linker"
	"github.com/pfrederiksen/sis-sections/internal/logger"
	"github.com/pfrederiksen/sis-sections/internal/parser"
	"github.com/pfrederiksen/sis-sections/internal/section"
	"github.com/pfrederiksen/sis-sections/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess     = 0
	ExitError       = 1
	ExitNewSections = 2
)

var (
	flagSubjects    string
	flagTerm        string
	flagDataDir     string
	flagFormat      string
	flagSort        string
	flagBaseURL     string
	flagConcurrency int
	flagLinkTimeout time.Duration
	flagRefresh     bool
	flagVerbose     bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sis-sections",
		Short: "Scrape normalized course sections from the university catalog",
		Long: `A CLI tool that parses the catalog's plain-text subject listings into
normalized course-section records, repairs the systematic corruption of the
fixed-width rendering, links recitations to their parent lectures, and
reports which sections are new since the previous run.`,
		RunE: runScrape,
	}

	cmd.Flags().StringVar(&flagSubjects, "subjects", "", "Comma-separated subject codes, e.g. COMS,STAT (required)")
	cmd.Flags().StringVar(&flagTerm, "term", "", `Term label, e.g. "Fall 2025" (required)`)
	cmd.Flags().StringVar(&flagDataDir, "data-dir", "~/.local/share/sis-sections", "Data directory for snapshots")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text, json, or csv")
	cmd.Flags().StringVar(&flagSort, "sort", "course", "Sort order: course, time, or title")
	cmd.Flags().StringVar(&flagBaseURL, "base-url", fetch.DefaultBaseURL, "Catalog root URL")
	cmd.Flags().IntVar(&flagConcurrency, "concurrency", linker.DefaultConcurrency, "Bound on concurrent subject and detail-page fetches")
	cmd.Flags().DurationVar(&flagLinkTimeout, "link-timeout", linker.DefaultFetchTimeout, "Per-request timeout for recitation detail fetches")
	cmd.Flags().BoolVar(&flagRefresh, "refresh", false, "Refresh snapshots without reporting new sections")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.MarkFlagRequired("subjects")
	cmd.MarkFlagRequired("term")

	return cmd
}

// subjectResult carries one subject's outcome off the worker pool
type subjectResult struct {
	subject string
	records []*section.Record
	err     error
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, args []string) error {
	subjects := splitSubjects(flagSubjects)
	if len(subjects) == 0 {
		return fmt.Errorf("--subjects is required")
	}
	term := strings.TrimSpace(flagTerm)
	if term == "" {
		return fmt.Errorf("--term is required")
	}

	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON && format != FormatCSV {
		return fmt.Errorf("invalid format: %s (must be 'text', 'json', or 'csv')", flagFormat)
	}
	sortOrder := SortOrder(strings.ToLower(flagSort))
	if sortOrder != SortByCourse && sortOrder != SortByTime && sortOrder != SortByTitle {
		return fmt.Errorf("invalid sort order: %s (must be 'course', 'time', or 'title')", flagSort)
	}

	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	store, err := storage.New(flagDataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	client := fetch.New(flagBaseURL)
	p := parser.New(client.BaseURL())
	l := linker.New(client)
	l.Concurrency = flagConcurrency
	l.FetchTimeout = flagLinkTimeout

	ctx := context.Background()
	results := scrapeSubjects(ctx, client, p, l, subjects, term)

	allSections := make([]*section.Record, 0)
	newSections := make([]*section.Record, 0)
	skipped := make([]string, 0)

	for _, res := range results {
		if res.err != nil {
			// A malformed or unreachable page skips that subject only.
			var malformed *parser.MalformedPageError
			if errors.As(res.err, &malformed) {
				logger.Warn("skipping malformed listing page", logger.Fields{
					"subject": res.subject,
					"term":    term,
				})
			} else {
				logger.Warn("skipping subject", logger.Fields{
					"subject": res.subject,
					"term":    term,
				})
			}
			skipped = append(skipped, res.subject)
			continue
		}

		previous, err := store.LoadSnapshot(res.subject, term)
		if err != nil {
			return fmt.Errorf("loading snapshot: %w", err)
		}
		diff := section.Diff(previous, res.records)

		if err := store.CreateSnapshotFromRecords(res.records, res.subject, term); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}

		allSections = append(allSections, res.records...)
		newSections = append(newSections, diff.NewSections...)
	}

	sortSections(allSections, sortOrder)
	sortSections(newSections, sortOrder)

	result := &OutputResult{
		CheckedAt:       time.Now().UTC(),
		Term:            term,
		Subjects:        subjects,
		SkippedSubjects: skipped,
		Sections:        allSections,
		SectionCount:    len(allSections),
		NewSections:     newSections,
		NewCount:        len(newSections),
		Counters:        logger.CountersSnapshot(),
	}

	if flagRefresh {
		if format == FormatText {
			fmt.Println("Snapshots refreshed successfully.")
			return nil
		}
		result.NewSections = nil
		result.NewCount = 0
	}

	if err := WriteOutput(os.Stdout, result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if !flagRefresh && len(newSections) > 0 {
		os.Exit(ExitNewSections)
	}
	return nil
}

// scrapeSubjects fetches, parses, and links each subject's listing on a
// bounded worker pool. Subjects are independent pages; within one page the
// parser keeps strict line order.
func scrapeSubjects(ctx context.Context, client *fetch.Client, p *parser.Parser, l *linker.Linker, subjects []string, term string) []subjectResult {
	bound := flagConcurrency
	if bound <= 0 {
		bound = linker.DefaultConcurrency
	}
	sem := make(chan struct{}, bound)
	results := make([]subjectResult, len(subjects))

	var wg sync.WaitGroup
	for i, subject := range subjects {
		wg.Add(1)
		go func(i int, subject string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = scrapeOne(ctx, client, p, l, subject, term)
		}(i, subject)
	}
	wg.Wait()

	return results
}

func scrapeOne(ctx context.Context, client *fetch.Client, p *parser.Parser, l *linker.Linker, subject, term string) subjectResult {
	logger.Debug("fetching listing", logger.Fields{"subject": subject, "term": term})

	text, err := client.FetchListing(ctx, subject, term)
	if err != nil {
		return subjectResult{subject: subject, err: fmt.Errorf("fetching listing: %w", err)}
	}

	records, err := p.ParsePage(text, subject, term)
	if err != nil {
		return subjectResult{subject: subject, err: err}
	}

	records = l.LinkRecitations(ctx, records)

	logger.Info("parsed listing", logger.Fields{
		"subject":  subject,
		"term":     term,
		"sections": len(records),
	})
	return subjectResult{subject: subject, records: records}
}

func splitSubjects(s string) []string {
	parts := strings.Split(s, ",")
	subjects := make([]string, 0, len(parts))
	for _, part := range parts {
		if code := strings.ToUpper(strings.TrimSpace(part)); code != "" {
			subjects = append(subjects, code)
		}
	}
	return subjects
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
