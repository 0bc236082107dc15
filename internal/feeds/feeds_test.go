package feeds_test

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/DeafMist/intel-feed/internal/fetch"
)

type fakeResponse struct {
	status int
	body   string
	err    error
	hang   bool
	panics bool
}

// fakeFetcher answers by URL. Hanging responses honour opts.Timeout the way
// fetch.Client does.
type fakeFetcher struct {
	responses map[string]fakeResponse
	calls     chan string
}

func newFakeFetcher(responses map[string]fakeResponse) *fakeFetcher {
	return &fakeFetcher{responses: responses, calls: make(chan string, 64)}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string, opts fetch.Options) (*fetch.Response, error) {
	f.calls <- url

	r, ok := f.responses[url]
	if !ok {
		return nil, errors.New("dial tcp: no such host")
	}
	if r.panics {
		panic("boom")
	}
	if r.hang {
		if opts.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
			defer cancel()
		}
		<-ctx.Done()
		return nil, fmt.Errorf("do request: %w", ctx.Err())
	}
	if r.err != nil {
		return nil, r.err
	}

	status := r.status
	if status == 0 {
		status = 200
	}
	res := &fetch.Response{Status: status, Body: []byte(r.body)}
	if !res.OK() {
		return res, &fetch.StatusError{Code: status}
	}
	return res, nil
}

func (f *fakeFetcher) calledURLs() []string {
	close(f.calls)
	var out []string
	for u := range f.calls {
		out = append(out, u)
	}
	return out
}

// rssDoc renders a minimal feed with one item per title, all on date.
func rssDoc(date string, titles ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><rss><channel>`)
	for _, t := range titles {
		fmt.Fprintf(&b, "<item><title>%s</title><link>https://example.com/%s</link><pubDate>%s</pubDate></item>",
			t, strings.ReplaceAll(t, " ", "-"), date)
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}
