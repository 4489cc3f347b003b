package ogimage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/sync/singleflight"
)

// ErrFontUnavailable is returned when a font required for rendering cannot be
// obtained. It is fatal for the generation call that hit it.
var ErrFontUnavailable = errors.New("ogimage: font unavailable")

// Default Inter font files, as TTF.
const (
	InterBoldURL     = "https://cdn.jsdelivr.net/fontsource/fonts/inter@latest/latin-700-normal.ttf"
	InterSemiBoldURL = "https://cdn.jsdelivr.net/fontsource/fonts/inter@latest/latin-600-normal.ttf"
	InterRegularURL  = "https://cdn.jsdelivr.net/fontsource/fonts/inter@latest/latin-400-normal.ttf"
)

const maxFontSize = 8 << 20

// FontSet holds the parsed faces a card is drawn with. Parsed fonts are
// read-only and may be shared between goroutines.
type FontSet struct {
	Bold     *opentype.Font
	SemiBold *opentype.Font
	Regular  *opentype.Font
	Mono     *opentype.Font
}

// FontSource supplies a FontSet.
type FontSource interface {
	Fonts(ctx context.Context) (*FontSet, error)
}

var (
	bundledOnce sync.Once
	bundledSet  *FontSet
	bundledErr  error
)

// BundledFonts returns the Go fonts compiled into the binary.
type BundledFonts struct{}

func (BundledFonts) Fonts(context.Context) (*FontSet, error) {
	bundledOnce.Do(func() {
		bundledSet, bundledErr = parseSet(gobold.TTF, gomedium.TTF, goregular.TTF, gomono.TTF)
	})
	if bundledErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontUnavailable, bundledErr)
	}
	return bundledSet, nil
}

func parseSet(bold, semibold, regular, mono []byte) (*FontSet, error) {
	var fs FontSet
	for _, f := range []struct {
		dst  **opentype.Font
		data []byte
		name string
	}{
		{&fs.Bold, bold, "bold"},
		{&fs.SemiBold, semibold, "semibold"},
		{&fs.Regular, regular, "regular"},
		{&fs.Mono, mono, "mono"},
	} {
		parsed, err := opentype.Parse(f.data)
		if err != nil {
			return nil, fmt.Errorf("parse %s font: %w", f.name, err)
		}
		*f.dst = parsed
	}
	return &fs, nil
}

// RemoteFonts downloads the text faces over HTTP. The monospace wordmark
// face is always the bundled one. Concurrent callers share one download and
// a successful set is kept for the lifetime of the value; failures are not
// cached, so the next call tries again.
type RemoteFonts struct {
	BoldURL     string
	SemiBoldURL string
	RegularURL  string
	Client      *http.Client

	group singleflight.Group
	mu    sync.RWMutex
	set   *FontSet
}

// NewRemoteFonts returns a RemoteFonts for the default Inter faces.
func NewRemoteFonts(timeout time.Duration) *RemoteFonts {
	return &RemoteFonts{
		BoldURL:     InterBoldURL,
		SemiBoldURL: InterSemiBoldURL,
		RegularURL:  InterRegularURL,
		Client:      &http.Client{Timeout: timeout},
	}
}

func (r *RemoteFonts) Fonts(ctx context.Context) (*FontSet, error) {
	r.mu.RLock()
	set := r.set
	r.mu.RUnlock()
	if set != nil {
		return set, nil
	}

	ch := r.group.DoChan("fonts", func() (any, error) {
		// The shared download outlives any single caller's context.
		return r.fetchAll(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrFontUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*FontSet), nil
	}
}

func (r *RemoteFonts) fetchAll(ctx context.Context) (*FontSet, error) {
	bold, err := r.fetch(ctx, r.BoldURL)
	if err != nil {
		return nil, err
	}
	semibold, err := r.fetch(ctx, r.SemiBoldURL)
	if err != nil {
		return nil, err
	}
	regular, err := r.fetch(ctx, r.RegularURL)
	if err != nil {
		return nil, err
	}
	set, err := parseSet(bold, semibold, regular, gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontUnavailable, err)
	}
	r.mu.Lock()
	r.set = set
	r.mu.Unlock()
	return set, nil
}

func (r *RemoteFonts) fetch(ctx context.Context, url string) ([]byte, error) {
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontUnavailable, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: GET %s: %s", ErrFontUnavailable, url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFontSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrFontUnavailable, url, err)
	}
	return data, nil
}
