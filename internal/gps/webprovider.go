package gps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sensorcore/devicetracker/internal/dtlog"
	"github.com/sensorcore/devicetracker/internal/frame"
)

// webFixResponse is the JSON body a web GPS endpoint is expected to return.
type webFixResponse struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Alt     float64 `json:"alt"`
	Speed   float64 `json:"speed"`
	Heading float64 `json:"heading"`
	FixType int     `json:"fix_type"`
}

// WebProvider fetches a fix from an HTTP endpoint on every Poll. Unlike the
// serial and gpsd providers it has no background reader: a GET is cheap
// enough, and the caller already supplies a ctx to bound it. This is a GPS
// input source (not the core's own transport surface, which spec §1 scopes
// out), so net/http is used directly rather than pulled in for the core.
type WebProvider struct {
	name   string
	url    string
	client *http.Client
}

// NewWebProvider builds a provider that GETs url for a fix on each Poll.
func NewWebProvider(name, url string) *WebProvider {
	return &WebProvider{name: name, url: url, client: &http.Client{Timeout: 5 * time.Second}}
}

// WebBuilder is the Builder registered under the "web" driver kind (spec
// §6.5). Options: url=<endpoint>.
func WebBuilder(name string, opts map[string]string) (Provider, error) {
	url, ok := opts["url"]
	if !ok || url == "" {
		return nil, fmt.Errorf("gps web: missing required option 'url'")
	}
	return NewWebProvider(name, url), nil
}

func (p *WebProvider) Poll(ctx context.Context) frame.GPSFix {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		dtlog.Logf("gps: web provider %q request build failed: %v", p.name, err)
		return frame.GPSFix{}
	}
	resp, err := p.client.Do(req)
	if err != nil {
		dtlog.Logf("gps: web provider %q fetch failed: %v", p.name, err)
		return frame.GPSFix{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		dtlog.Logf("gps: web provider %q status %d", p.name, resp.StatusCode)
		return frame.GPSFix{}
	}

	var body webFixResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		dtlog.Logf("gps: web provider %q decode failed: %v", p.name, err)
		return frame.GPSFix{}
	}
	if body.FixType < 2 {
		return frame.GPSFix{}
	}

	return frame.GPSFix{
		Lat: body.Lat, Lon: body.Lon, Alt: body.Alt,
		Speed: body.Speed, Heading: body.Heading,
		FixType: body.FixType, Provider: p.name, Valid: true,
	}
}

func (p *WebProvider) Name() string { return p.name }

func (p *WebProvider) Close() error { return nil }
