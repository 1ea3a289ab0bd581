package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"flipquest/internal/models"
)

const DefaultBaseURL = "https://nominatim.openstreetmap.org"

var ErrNoResults = errors.New("no geocoding results")

// Geocoder resolves property addresses to coordinates with Nominatim. Results
// are cached for the life of the process.
type Geocoder struct {
	logger      *logrus.Logger
	baseURL     string
	cache       map[string]models.Location
	cacheLock   sync.RWMutex
	client      *http.Client
	minInterval time.Duration
	callLock    sync.Mutex
	lastCall    time.Time
}

func NewGeocoder(logger *logrus.Logger, baseURL string) *Geocoder {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Geocoder{
		logger:  logger,
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   make(map[string]models.Location),
		client:  &http.Client{Timeout: 10 * time.Second},
		// Nominatim allows one request per second
		minInterval: time.Second,
	}
}

type nominatimResponse []struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode looks up a single address
func (g *Geocoder) Geocode(ctx context.Context, address string) (models.Location, error) {
	key := strings.ToLower(strings.TrimSpace(address))

	g.cacheLock.RLock()
	if loc, ok := g.cache[key]; ok {
		g.cacheLock.RUnlock()
		g.logger.WithField("address", address).Debug("Found coordinates in cache")
		return loc, nil
	}
	g.cacheLock.RUnlock()

	if err := g.wait(ctx); err != nil {
		return models.Location{}, err
	}

	params := url.Values{
		"q":      []string{address},
		"format": []string{"json"},
		"limit":  []string{"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return models.Location{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "FlipQuest Renovation Simulator/1.0")

	resp, err := g.client.Do(req)
	if err != nil {
		return models.Location{}, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Location{}, fmt.Errorf("geocoding request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Location{}, fmt.Errorf("failed to read response: %w", err)
	}

	var result nominatimResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return models.Location{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(result) == 0 {
		return models.Location{}, fmt.Errorf("%w: %s", ErrNoResults, address)
	}

	lat, err := strconv.ParseFloat(result[0].Lat, 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("invalid latitude %q: %w", result[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(result[0].Lon, 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("invalid longitude %q: %w", result[0].Lon, err)
	}
	loc := models.Location{Latitude: lat, Longitude: lon}

	g.logger.WithFields(logrus.Fields{
		"address":   address,
		"latitude":  lat,
		"longitude": lon,
	}).Info("Successfully geocoded address")

	g.cacheLock.Lock()
	g.cache[key] = loc
	g.cacheLock.Unlock()

	return loc, nil
}

func (g *Geocoder) wait(ctx context.Context) error {
	g.callLock.Lock()
	defer g.callLock.Unlock()

	if g.minInterval <= 0 || g.lastCall.IsZero() {
		g.lastCall = time.Now()
		return nil
	}

	remaining := g.minInterval - time.Since(g.lastCall)
	if remaining > 0 {
		timer := time.NewTimer(remaining)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	g.lastCall = time.Now()
	return nil
}

// FillMissing geocodes every property without a location in place and
// returns how many were filled. Lookup failures are logged and skipped.
func (g *Geocoder) FillMissing(ctx context.Context, properties []models.Property) (int, error) {
	filled := 0
	for i := range properties {
		p := &properties[i]
		if p.Location != nil {
			continue
		}

		loc, err := g.Geocode(ctx, p.Address)
		if err != nil {
			if ctx.Err() != nil {
				return filled, ctx.Err()
			}
			g.logger.WithError(err).WithField("property_id", p.ID).Warn("Failed to geocode property")
			continue
		}
		p.Location = &loc
		filled++
	}
	return filled, nil
}
