package ogimage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		title string
		want  []string
	}{
		{"React Native", []string{"React Native"}},
		{"React Native Finland", []string{"React Native Finland"}},
		{"Expo Router in Practice", []string{"Expo Router", "in Practice"}},
		{"Running React Native on Simulator", []string{"Running React Native", "on Simulator"}},
		{"How to make money with your app", []string{"How to make", "money with your", "app"}},
		{"Creating a clock face in React Native with SVG", []string{"Creating a clock", "face in React", "Native with SVG"}},
		{"  spaced   out  ", []string{"spaced out"}},
		{"", []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := SplitTitle(tt.title)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, SplitTitle(tt.title))
		})
	}
}

func TestSplitTitleLineCounts(t *testing.T) {
	assert.Len(t, SplitTitle("two words"), 1)
	assert.Len(t, SplitTitle("one two three four"), 2)
	assert.Len(t, SplitTitle("one two three four five six seven"), 3)
}

func TestGenerateSizeAndDeterminism(t *testing.T) {
	g := New(BundledFonts{})
	cards := []Card{
		{Title: "React Native Finland"},
		{Title: "Expo Router in Practice", Slug: "expo-router", Category: "article"},
		{
			Title:    "Meetup 42",
			Category: "event",
			Event:    &EventInfo{Date: "10.1.2025", Venue: "Futurice", City: "Helsinki"},
		},
		{
			Title:    "Perttu Lähteenlahti",
			Category: "developer",
			Author:   &Author{Name: "Perttu Lähteenlahti", Title: "Developer", Image: solid(120, 80, color.RGBA{200, 30, 30, 255})},
		},
	}
	for _, c := range cards {
		t.Run(c.Title, func(t *testing.T) {
			a, err := g.PNG(context.Background(), c)
			require.NoError(t, err)
			b, err := g.PNG(context.Background(), c)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(a, b), "output differs between calls")

			img, err := png.Decode(bytes.NewReader(a))
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, Width, Height), img.Bounds())
		})
	}
}

func TestGenerateBackground(t *testing.T) {
	img, err := New(BundledFonts{}).Generate(context.Background(), Card{Title: "x"})
	require.NoError(t, err)

	// Away from grid lines and text the gradient runs dark to light.
	tl := img.RGBAAt(21, 621)
	br := img.RGBAAt(1179, 621)
	assert.Less(t, tl.B, br.B)

	// Grid lines are lighter than the cell next to them.
	line := img.RGBAAt(400, 601)
	cell := img.RGBAAt(401, 601)
	assert.Greater(t, line.R, cell.R)
}

func TestAuthorTakesPrecedenceOverEvent(t *testing.T) {
	g := New(BundledFonts{})
	author := &Author{Name: "Anna", Title: "Designer"}
	both, err := g.PNG(context.Background(), Card{Title: "x", Author: author, Event: &EventInfo{Date: "today"}})
	require.NoError(t, err)
	only, err := g.PNG(context.Background(), Card{Title: "x", Author: author})
	require.NoError(t, err)
	assert.Equal(t, only, both)
}

func TestSlugDoesNotAffectOutput(t *testing.T) {
	g := New(BundledFonts{})
	a, err := g.PNG(context.Background(), Card{Title: "Hermes", Slug: "hermes"})
	require.NoError(t, err)
	b, err := g.PNG(context.Background(), Card{Title: "Hermes"})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRemoteFontsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusBadGateway)
	}))
	defer srv.Close()

	fonts := &RemoteFonts{BoldURL: srv.URL, SemiBoldURL: srv.URL, RegularURL: srv.URL, Client: srv.Client()}
	_, err := New(fonts).Generate(context.Background(), Card{Title: "x"})
	assert.ErrorIs(t, err, ErrFontUnavailable)
}

func TestRemoteFontsInvalidData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not a font"))
	}))
	defer srv.Close()

	fonts := &RemoteFonts{BoldURL: srv.URL, SemiBoldURL: srv.URL, RegularURL: srv.URL, Client: srv.Client()}
	_, err := fonts.Fonts(context.Background())
	assert.ErrorIs(t, err, ErrFontUnavailable)
}

func TestRemoteFontsCachesSuccess(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(goregular.TTF)
	}))
	defer srv.Close()

	fonts := &RemoteFonts{
		BoldURL:     srv.URL + "/700",
		SemiBoldURL: srv.URL + "/600",
		RegularURL:  srv.URL + "/400",
		Client:      srv.Client(),
	}
	g := New(fonts)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.Generate(context.Background(), Card{Title: "Concurrent"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	first := hits.Load()
	assert.LessOrEqual(t, first, int32(3*8))

	_, err := g.Generate(context.Background(), Card{Title: "Again"})
	require.NoError(t, err)
	assert.Equal(t, first, hits.Load())
}

func TestRemoteFontsRetriesAfterFailure(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		w.Write(goregular.TTF)
	}))
	defer srv.Close()

	fonts := &RemoteFonts{BoldURL: srv.URL, SemiBoldURL: srv.URL, RegularURL: srv.URL, Client: srv.Client()}
	_, err := fonts.Fonts(context.Background())
	require.ErrorIs(t, err, ErrFontUnavailable)

	fail.Store(false)
	set, err := fonts.Fonts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, set.Mono)
}

func TestGenerateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(BundledFonts{}).Generate(ctx, Card{Title: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCoverSquare(t *testing.T) {
	out := coverSquare(solid(300, 100, color.RGBA{0, 0, 255, 255}), 72)
	assert.Equal(t, image.Rect(0, 0, 72, 72), out.Bounds())
	c := out.RGBAAt(36, 36)
	assert.Zero(t, c.R)
	assert.InDelta(t, 255, int(c.B), 1)
}

func solid(w, h int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
