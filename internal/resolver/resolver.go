package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/ohler55/ojg/oj"
	"github.com/sethvargo/go-retry"

	"datakeep/internal/config"
	"datakeep/internal/entries"
	"datakeep/internal/models"
)

// ErrPlanRequired aborts an explicit resolution request on a non-premium
// project. Opportunistic passes never return it.
var ErrPlanRequired = errors.New("premium plan required for remote source resolution")

const maxResponseBytes = 4 << 20

// Mode controls how plan gating is surfaced.
type Mode int

const (
	// Opportunistic resolution (formatted reads) skips gated sources
	// silently, leaving a notice on the entry.
	Opportunistic Mode = iota
	// Explicit resolution was asked for by the caller and fails the whole
	// request when the plan does not allow it.
	Explicit
)

// Resolver fetches remote source definitions found in an entry tree and
// caches the extracted values next to them.
type Resolver struct {
	client       *http.Client
	fetchTimeout time.Duration
	maxRetries   uint64
}

func New(cfg config.Resolver) *Resolver {
	return &Resolver{
		client:       &http.Client{},
		fetchTimeout: cfg.FetchTimeout,
		maxRetries:   cfg.MaxRetries,
	}
}

// Resolve walks the tree for source definitions and refreshes their cached
// dataReturn fields in place. The tree is expected to be a snapshot owned by
// the caller; fetches fan out concurrently and each goroutine writes only to
// its own definition node. A failing source never aborts its siblings: the
// failure is recorded on the entry and resolution continues.
//
// The plan is re-checked on every pass. Returns the number of source
// definitions seen.
func (r *Resolver) Resolve(ctx context.Context, tree *entries.Tree, plan string, mode Mode) (int, error) {
	var sources []*entries.Source
	tree.Walk(func(_ string, value any) {
		collectSources(value, &sources)
	})
	if len(sources) == 0 {
		return 0, nil
	}

	if plan != models.PlanPremium {
		if mode == Explicit {
			return len(sources), fmt.Errorf("%w: project plan is '%s'", ErrPlanRequired, plan)
		}
		for _, src := range sources {
			src.SetError("remote source skipped: premium plan required")
		}
		return len(sources), nil
	}

	var wg sync.WaitGroup
	for _, src := range sources {
		wg.Add(1)
		go func(src *entries.Source) {
			defer wg.Done()
			r.resolveOne(ctx, src)
		}(src)
	}
	wg.Wait()

	return len(sources), nil
}

func (r *Resolver) resolveOne(ctx context.Context, src *entries.Source) {
	doc, err := r.fetch(ctx, src)
	if err != nil {
		src.SetError(err.Error())
		return
	}

	value, matched, err := entries.Extract(doc, src.Path)
	if err != nil {
		src.SetError(err.Error())
		return
	}
	if !matched {
		// a query with no matches resolves to an explicit null
		src.SetResult(nil)
		return
	}
	src.SetResult(value)
}

// fetch performs the remote call with a per-fetch timeout, retrying network
// errors and 5xx answers with exponential backoff.
func (r *Resolver) fetch(ctx context.Context, src *entries.Source) (any, error) {
	var doc any

	backoff := retry.WithMaxRetries(r.maxRetries, retry.NewExponential(200*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		fetchCtx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, src.URL, nil)
		if err != nil {
			return fmt.Errorf("invalid source url: %w", err)
		}
		if src.Token != "" {
			// credential passed verbatim, no schema assumed
			req.Header.Set("Authorization", src.Token)
		}

		resp, err := r.client.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("fetch failed: %w", err))
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return retry.RetryableError(fmt.Errorf("failed to read remote response: %w", err))
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("remote returned status %d", resp.StatusCode))
		}
		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return fmt.Errorf("remote returned status %d", resp.StatusCode)
		}

		parsed, err := oj.Parse(body)
		if err != nil {
			return fmt.Errorf("remote response is not valid JSON: %w", err)
		}
		doc = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// collectSources gathers every source definition reachable from an entry
// value. Definitions do not nest, so the walk stops at each one found.
func collectSources(value any, out *[]*entries.Source) {
	switch v := value.(type) {
	case *entries.Map:
		if src, ok := entries.ClassifySource(v); ok {
			*out = append(*out, src)
			return
		}
		for pair := v.Oldest(); pair != nil; pair = pair.Next() {
			collectSources(pair.Value, out)
		}
	case []any:
		for _, elem := range v {
			collectSources(elem, out)
		}
	}
}
