package crosspost

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauthierbraillon/crosspost/internal/httpx"
	"github.com/gauthierbraillon/crosspost/internal/instagram"
	"github.com/gauthierbraillon/crosspost/internal/linkedin"
)

type fakeLinkedIn struct {
	calls  []linkedin.Post
	author []string
	err    error
}

func (f *fakeLinkedIn) PublishPost(_ context.Context, post linkedin.Post, authorURN string) (map[string]any, error) {
	f.calls = append(f.calls, post)
	f.author = append(f.author, authorURN)
	if f.err != nil {
		return nil, f.err
	}
	return map[string]any{"id": "urn:li:share:1"}, nil
}

type fakeInstagram struct {
	singles   []instagram.ImagePost
	carousels []instagram.CarouselPost
	texts     []instagram.TextPost
	err       error
}

func (f *fakeInstagram) PostSingleImage(_ context.Context, post instagram.ImagePost) (map[string]any, error) {
	f.singles = append(f.singles, post)
	if f.err != nil {
		return nil, f.err
	}
	return map[string]any{"id": "media-1"}, nil
}

func (f *fakeInstagram) PostCarousel(_ context.Context, post instagram.CarouselPost) (map[string]any, error) {
	f.carousels = append(f.carousels, post)
	if f.err != nil {
		return nil, f.err
	}
	return map[string]any{"id": "media-2"}, nil
}

func (f *fakeInstagram) PostText(_ context.Context, post instagram.TextPost) error {
	f.texts = append(f.texts, post)
	return httpx.Validation("Instagram post", "Instagram requires an image.")
}

func both(images ...string) Request {
	return Request{
		Content:      "hello",
		Destinations: []Destination{DestinationInstagram, DestinationLinkedIn},
		LinkedIn:     &LinkedInTarget{AccessToken: "li-tok", AuthorURN: "urn:li:person:1"},
		Instagram:    &InstagramTarget{AccessToken: "ig-tok", IGUserID: "ig1", ImageURLs: images},
	}
}

func imageURLs(n int) []string {
	urls := make([]string, n)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://cdn.example/%d.jpg", i)
	}
	return urls
}

func TestPublish_LinkedInThenInstagram(t *testing.T) {
	li, ig := &fakeLinkedIn{}, &fakeInstagram{}

	report, err := NewPublisher(li, ig).Publish(context.Background(), both("https://cdn.example/a.jpg"))

	require.NoError(t, err)
	require.Len(t, report.Outcomes, 2)
	assert.Equal(t, DestinationLinkedIn, report.Outcomes[0].Destination)
	assert.Equal(t, DestinationInstagram, report.Outcomes[1].Destination)
	assert.True(t, report.Published())

	require.Len(t, li.calls, 1)
	assert.Equal(t, linkedin.Post{AccessToken: "li-tok", Content: "hello"}, li.calls[0])
	assert.Equal(t, "urn:li:person:1", li.author[0])

	require.Len(t, ig.singles, 1)
	assert.Equal(t, "hello", ig.singles[0].Caption)
	assert.Equal(t, "https://cdn.example/a.jpg", ig.singles[0].ImageURL)
	assert.Empty(t, ig.carousels)
}

func TestPublish_ManyImagesUseCarousel(t *testing.T) {
	ig := &fakeInstagram{}
	req := both("https://cdn.example/a.jpg", "https://cdn.example/b.jpg")
	req.Destinations = []Destination{DestinationInstagram}

	report, err := NewPublisher(&fakeLinkedIn{}, ig).Publish(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, ig.carousels, 1)
	assert.Equal(t, []string{"https://cdn.example/a.jpg", "https://cdn.example/b.jpg"}, ig.carousels[0].ImageURLs)
	assert.Equal(t, "media-2", report.Outcomes[0].Result["id"])
}

func TestPublish_NoImagesFallsBackToTextShim(t *testing.T) {
	li, ig := &fakeLinkedIn{}, &fakeInstagram{}

	report, err := NewPublisher(li, ig).Publish(context.Background(), both())

	require.Error(t, err)
	assert.True(t, httpx.IsValidation(err))
	require.Len(t, ig.texts, 1)
	assert.Equal(t, StatusPublished, report.Outcomes[0].Status, "LinkedIn is not rolled back")
	assert.Equal(t, StatusFailed, report.Outcomes[1].Status)
	assert.False(t, report.Published())
}

func TestPublish_StopsAtFirstFailure(t *testing.T) {
	upstream := errors.New("LinkedIn post failed: 503 Service Unavailable")
	li, ig := &fakeLinkedIn{err: upstream}, &fakeInstagram{}

	report, err := NewPublisher(li, ig).Publish(context.Background(), both("https://cdn.example/a.jpg"))

	require.ErrorIs(t, err, upstream)
	require.Len(t, report.Outcomes, 2)
	assert.Equal(t, StatusFailed, report.Outcomes[0].Status)
	assert.Equal(t, upstream.Error(), report.Outcomes[0].Error)
	assert.Equal(t, StatusSkipped, report.Outcomes[1].Status)
	assert.Empty(t, ig.singles, "Instagram must not be attempted")
}

func TestPublish_ValidationMakesNoCalls(t *testing.T) {
	tests := []struct {
		name string
		req  func() Request
	}{
		{"no destinations", func() Request { r := both("x"); r.Destinations = nil; return r }},
		{"unknown destination", func() Request { r := both("x"); r.Destinations = []Destination{"myspace"}; return r }},
		{"missing instagram token", func() Request { r := both("x"); r.Instagram.AccessToken = ""; return r }},
		{"missing linkedin target", func() Request { r := both("x"); r.LinkedIn = nil; return r }},
		{"empty linkedin text", func() Request { r := both("x"); r.Content = "  "; return r }},
		{"nothing at all", func() Request { r := both(); r.Content = ""; return r }},
		{"images without instagram account", func() Request { r := both("x"); r.Instagram.IGUserID = ""; return r }},
		{"too many images", func() Request { return both(imageURLs(instagram.MaxCarouselItems + 1)...) }},
		{"malformed linkedin author", func() Request { r := both("x"); r.LinkedIn.AuthorURN = "urn:li:organization:9"; return r }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			li, ig := &fakeLinkedIn{}, &fakeInstagram{}

			report, err := NewPublisher(li, ig).Publish(context.Background(), tt.req())

			require.Error(t, err)
			assert.True(t, httpx.IsValidation(err))
			assert.Nil(t, report)
			assert.Empty(t, li.calls)
			assert.Empty(t, ig.singles)
			assert.Empty(t, ig.texts)
			assert.Empty(t, ig.carousels)
		})
	}
}

func TestPublish_InstagramImagesWithoutText(t *testing.T) {
	ig := &fakeInstagram{}
	req := both("https://cdn.example/a.jpg")
	req.Content = ""
	req.Destinations = []Destination{DestinationInstagram}

	_, err := NewPublisher(&fakeLinkedIn{}, ig).Publish(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, ig.singles, 1)
	assert.Empty(t, ig.singles[0].Caption)
}

func TestPublish_OversizedCarouselLeavesLinkedInUntouched(t *testing.T) {
	var graphCalls atomic.Int32
	graph := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		graphCalls.Add(1)
		_, _ = w.Write([]byte(`{"id":"c1"}`))
	}))
	t.Cleanup(graph.Close)

	li := &fakeLinkedIn{}
	ig := instagram.NewClient(instagram.WithBaseURL(graph.URL))

	report, err := NewPublisher(li, ig).Publish(context.Background(), both(imageURLs(11)...))

	require.Error(t, err)
	assert.True(t, httpx.IsValidation(err))
	assert.Equal(t, "Carousel accepts at most 10 image URLs.", err.Error())
	assert.Nil(t, report)
	assert.Empty(t, li.calls)
	assert.Zero(t, graphCalls.Load())
}

func TestPublish_AcceptsExplicitPersonAuthor(t *testing.T) {
	li := &fakeLinkedIn{}
	req := both("https://cdn.example/a.jpg")
	req.Destinations = []Destination{DestinationLinkedIn}
	req.LinkedIn.AuthorURN = "urn:li:person:abc"

	_, err := NewPublisher(li, &fakeInstagram{}).Publish(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, []string{"urn:li:person:abc"}, li.author)
}
