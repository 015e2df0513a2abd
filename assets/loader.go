// Package assets fetches textures by URL or file path in the background.
// Callers get placeholder textures immediately; Batch.Resolve swaps the
// real pixels in on the frame goroutine once they arrive.
package assets

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"
	"time"

	"fresnel-scene/scene"
)

// Loader fetches and decodes single images.
type Loader struct {
	Client      *http.Client
	Timeout     time.Duration
	Concurrency int
}

func NewLoader(timeout time.Duration, concurrency int) *Loader {
	return &Loader{
		Client:      &http.Client{},
		Timeout:     timeout,
		Concurrency: concurrency,
	}
}

// Fetch loads location: http(s) URLs over the network, anything else from
// the filesystem.
func (l *Loader) Fetch(ctx context.Context, location string) (*scene.Texture, error) {
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}
	name := path.Base(location)
	if isURL(location) {
		return l.fetchURL(ctx, name, location)
	}
	f, err := os.Open(location)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return scene.DecodeTexture(name, f)
}

func (l *Loader) fetchURL(ctx context.Context, name, url string) (*scene.Texture, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return scene.DecodeTexture(name, resp.Body)
}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
