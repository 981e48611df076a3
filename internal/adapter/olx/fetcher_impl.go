// Package olx fetches listing pages from the OLX classifieds board. Pages are
// rendered headless because the board populates listing cards client-side.
package olx

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/user/property-monitor/internal/entity"
	"github.com/user/property-monitor/internal/repository"
)

// Fetcher implements repository.Fetcher against the live OLX board.
type Fetcher struct {
	baseURL       string
	timeout       time.Duration
	allocatorPool *sync.Pool
}

// NewFetcher creates a fetcher for the given search URL. maxConcurrency
// pre-warms the browser allocator pool.
func NewFetcher(baseURL string, timeout time.Duration, maxConcurrency int) *Fetcher {
	pool := &sync.Pool{
		New: func() interface{} {
			opts := append(chromedp.DefaultExecAllocatorOptions[:],
				chromedp.Flag("headless", true),
				chromedp.Flag("disable-gpu", true),
				chromedp.Flag("no-sandbox", true),
				chromedp.Flag("disable-dev-shm-usage", true),
			)
			allocCtx, _ := chromedp.NewExecAllocator(context.Background(), opts...)
			return allocCtx
		},
	}
	for i := 0; i < maxConcurrency; i++ {
		allocCtx := pool.Get().(context.Context)
		pool.Put(allocCtx)
	}

	return &Fetcher{
		baseURL:       baseURL,
		timeout:       timeout,
		allocatorPool: pool,
	}
}

// FetchPage renders one result page and extracts its listing cards. Any
// navigation, timeout, or parse failure comes back wrapping ErrTransport.
func (f *Fetcher) FetchPage(ctx context.Context, page int) (*entity.ListingPage, error) {
	pageURL := f.pageURL(page)

	allocCtx := f.allocatorPool.Get().(context.Context)
	defer f.allocatorPool.Put(allocCtx)

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()
	taskCtx, cancel = context.WithTimeout(taskCtx, f.timeout)
	defer cancel()

	var htmlContent string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &htmlContent),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch page %d (%s): %w", repository.ErrTransport, page, pageURL, err)
	}

	listings, hasNext, err := ExtractListings(htmlContent)
	if err != nil {
		return nil, fmt.Errorf("%w: parse page %d: %w", repository.ErrTransport, page, err)
	}

	result := &entity.ListingPage{
		Page:     page,
		URL:      pageURL,
		Listings: listings,
	}
	// An empty page also means the pagination ran out, whatever the
	// pagination widget claims.
	if hasNext && len(listings) > 0 {
		next := page + 1
		result.NextPage = &next
	}
	return result, nil
}

func (f *Fetcher) pageURL(page int) string {
	if page <= 1 {
		return f.baseURL
	}
	return fmt.Sprintf("%s?page=%d", f.baseURL, page)
}
