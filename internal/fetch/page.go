package fetch

import (
	"context"
	"errors"
	"strings"

	"github.com/jonathan/jobhunt-tracker/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Page is the readable content of one fetched page.
type Page struct {
	URL     string
	Title   string
	Content string
}

// Failure records why a page could not be used.
type Failure struct {
	URL   string
	Error string
}

// ErrNoContent is returned when a page yields no readable text.
var ErrNoContent = errors.New("no text content")

// PageFetcher downloads pages and reduces them to title plus main text.
type PageFetcher struct {
	Options  *Options
	MaxChars int
	// Render is used when the plain fetch yields too little text. Nil disables the fallback.
	Render Renderer
	Log    logging.Logger
}

// NewPageFetcher returns a fetcher with default options and no browser fallback.
func NewPageFetcher(log logging.Logger) *PageFetcher {
	if log == nil {
		log = logging.NewNop()
	}
	return &PageFetcher{
		Options:  DefaultOptions(),
		MaxChars: MaxContentChars,
		Log:      log,
	}
}

// Fetch retrieves one page. The title falls back to the URL.
func (f *PageFetcher) Fetch(ctx context.Context, rawURL string) (Page, error) {
	rawURL = strings.TrimSpace(rawURL)

	opts := f.Options
	if opts == nil {
		opts = DefaultOptions()
	}
	fetchCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	res, err := URL(fetchCtx, rawURL, opts)
	if err != nil {
		return Page{}, err
	}

	html := res.HTML
	text, err := ExtractMainText(html, CompanyPageSelectors())
	if err != nil {
		return Page{}, &Error{URL: rawURL, Message: "failed to parse HTML", Cause: err}
	}

	if f.Render != nil && ShouldUseBrowser(text) {
		rendered, rerr := f.Render(ctx, rawURL)
		if rerr != nil {
			f.Log.Warn("browser fallback failed", logging.String("url", rawURL), logging.Err(rerr))
		} else if renderedText, perr := ExtractMainText(rendered, CompanyPageSelectors()); perr == nil && len(renderedText) > len(text) {
			html, text = rendered, renderedText
		}
	}

	if strings.TrimSpace(text) == "" {
		return Page{}, &Error{URL: rawURL, Message: "empty page", Cause: ErrNoContent}
	}

	maxChars := f.MaxChars
	if maxChars == 0 {
		maxChars = MaxContentChars
	}
	return Page{
		URL:     rawURL,
		Title:   ExtractTitle(html, rawURL),
		Content: Truncate(text, maxChars),
	}, nil
}

// FetchAll fetches every URL concurrently. Results keep input order; one
// failing page never cancels its siblings.
func (f *PageFetcher) FetchAll(ctx context.Context, urls []string) ([]Page, []Failure) {
	pages := make([]Page, len(urls))
	errs := make([]error, len(urls))

	var g errgroup.Group
	for i, u := range urls {
		g.Go(func() error {
			pages[i], errs[i] = f.Fetch(ctx, u)
			return nil
		})
	}
	_ = g.Wait()

	var (
		ok     []Page
		failed []Failure
	)
	for i, u := range urls {
		if errs[i] != nil {
			f.Log.Info("page fetch failed", logging.String("url", u), logging.Err(errs[i]))
			failed = append(failed, Failure{URL: strings.TrimSpace(u), Error: failureMessage(errs[i])})
			continue
		}
		ok = append(ok, pages[i])
	}
	return ok, failed
}

// failureMessage is the short reason reported to clients.
func failureMessage(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		if fe.Cause != nil && errors.Is(fe.Cause, context.DeadlineExceeded) {
			return "timeout"
		}
		return fe.Message
	}
	return err.Error()
}
