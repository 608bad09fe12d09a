// Package zone tracks the zone a team is heading to and handles the QR
// codes placed at each zone.
package zone

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/skip2/go-qrcode"

	"github.com/qrseekers/qrseekers/internal/qrseekers"
)

const (
	payloadPrefix   = "qrseekers:zone:"
	unknownLocation = "Unknown Location"
	defaultQRSize   = 256
)

var ErrInvalidPayload = errors.New("not a QRseekers zone code")

// Loader fetches a zone by id.
type Loader interface {
	LoadZone(ctx context.Context, zoneID string) (qrseekers.Zone, error)
}

// View is what the zone screen shows.
type View struct {
	ZoneID  string `json:"zoneId,omitempty"`
	Name    string `json:"name"`
	Hint    string `json:"hint,omitempty"`
	MapsURI string `json:"mapsUri"`
}

// Tracker holds the current zone.
type Tracker struct {
	loader Loader

	mu      sync.RWMutex
	current *qrseekers.Zone
}

func NewTracker(loader Loader) *Tracker {
	return &Tracker{loader: loader}
}

func (t *Tracker) Current() (qrseekers.Zone, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.current == nil {
		return qrseekers.Zone{}, false
	}
	return *t.current, true
}

func (t *Tracker) SetCurrent(z qrseekers.Zone) {
	t.mu.Lock()
	t.current = &z
	t.mu.Unlock()
}

func (t *Tracker) Clear() {
	t.mu.Lock()
	t.current = nil
	t.mu.Unlock()
}

func (t *Tracker) View() View {
	z, ok := t.Current()
	if !ok || z.Name == "" {
		return View{ZoneID: z.ID, Name: unknownLocation, MapsURI: MapsURI(unknownLocation)}
	}
	return View{ZoneID: z.ID, Name: z.Name, Hint: z.Hint, MapsURI: MapsURI(z.Name)}
}

// Scan resolves a scanned code to its zone and makes it current.
func (t *Tracker) Scan(ctx context.Context, payload string) (qrseekers.Zone, error) {
	zoneID, err := ParsePayload(payload)
	if err != nil {
		return qrseekers.Zone{}, err
	}
	z, err := t.loader.LoadZone(ctx, zoneID)
	if err != nil {
		return qrseekers.Zone{}, fmt.Errorf("loading zone %s: %w", zoneID, err)
	}
	t.SetCurrent(z)
	return z, nil
}

// MapsURI builds a geo: URI searching for name, which map apps open.
func MapsURI(name string) string {
	return "geo:0,0?q=" + strings.ReplaceAll(url.QueryEscape(name), "+", "%20")
}

func Payload(zoneID string) string {
	return payloadPrefix + zoneID
}

func ParsePayload(payload string) (string, error) {
	id, ok := strings.CutPrefix(strings.TrimSpace(payload), payloadPrefix)
	if !ok || id == "" || strings.ContainsAny(id, " /?#") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPayload, payload)
	}
	return id, nil
}

// QRCode renders the zone's code as a PNG of size×size pixels.
func QRCode(zoneID string, size int) ([]byte, error) {
	if zoneID == "" {
		return nil, errors.New("zone id is required")
	}
	if size <= 0 {
		size = defaultQRSize
	}
	png, err := qrcode.Encode(Payload(zoneID), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encoding qr code: %w", err)
	}
	return png, nil
}
