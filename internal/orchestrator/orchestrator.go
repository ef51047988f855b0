// Package orchestrator owns the merged in-memory GraphState for a crawl
// root, discovers and invokes per-language crawlers, merges their
// artifacts sequentially, and exposes a small local HTTP surface over the
// result (spec §2, §5, §6).
package orchestrator

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/1homsi/depscope/internal/classify"
	"github.com/1homsi/depscope/internal/logging"
	"github.com/1homsi/depscope/internal/merge"
	"github.com/1homsi/depscope/internal/model"
)

// Orchestrator owns one crawl root's merged graph. It is not itself
// goroutine-safe beyond what GraphState already guarantees: RunCrawl must
// not be called concurrently with itself (spec §5: crawlers run
// sequentially per request), but it is safe to call alongside Classify or
// Snapshot from other goroutines.
type Orchestrator struct {
	Root  string
	State *model.GraphState
}

// New returns an orchestrator for the given crawl root with an empty graph.
func New(root string) *Orchestrator {
	return &Orchestrator{Root: root, State: model.NewGraphState()}
}

// RunCrawl runs crawlers for langs, in the order given, each to
// completion before the next starts (spec §5 "orchestrator runs crawlers
// sequentially per request"). A crawler that cannot be discovered or that
// produces no artifact is logged and skipped; the rest still run (spec §5
// "crash of any crawler is recoverable ... other crawlers must still run").
func (o *Orchestrator) RunCrawl(ctx context.Context, langs []string) error {
	for _, lang := range langs {
		if err := o.runOne(ctx, lang); err != nil {
			logging.Warnf("crawl: %v", err)
		}
	}
	return nil
}

func (o *Orchestrator) runOne(ctx context.Context, lang string) error {
	execPath, err := DiscoverCrawler(lang)
	if err != nil {
		return err
	}

	if err := InvokeCrawler(ctx, lang, execPath, o.Root); err != nil {
		return err
	}

	data, err := ReadArtifact(lang, o.Root)
	if err != nil {
		return fmt.Errorf("crawl %q: %w", lang, err)
	}

	if err := merge.MergeJSON(o.State, data); err != nil {
		return fmt.Errorf("crawl %q: %w", lang, err)
	}

	logging.Infof("crawl %q: merged artifact from %s", lang, o.Root)
	return nil
}

// Classify runs the classification engine over the current merged graph.
func (o *Orchestrator) Classify(profiles []model.Profile, keepRules []*regexp.Regexp) *classify.Result {
	return classify.Classify(o.State, profiles, keepRules)
}

// SupportedLanguages returns the closed set of crawlable language codes, in
// a stable, sorted order.
func SupportedLanguages() []string {
	langs := make([]string, 0, len(crawlerBinaryName))
	for l := range crawlerBinaryName {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

// CompileKeepRules is re-exported for callers assembling keep rules from
// raw JSON/YAML config without importing internal/classify directly.
func CompileKeepRules(raw []interface{}) []*regexp.Regexp {
	return classify.CompileKeepRules(raw)
}
