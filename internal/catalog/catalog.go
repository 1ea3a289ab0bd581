package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"sort"

	"github.com/sirupsen/logrus"

	"flipquest/internal/models"
)

//go:embed properties.json
var defaultCatalog []byte

var (
	ErrEmptyCatalog    = errors.New("catalog has no properties")
	ErrInvalidProperty = errors.New("invalid property")
)

// Store is where the catalog is read from at startup
type Store interface {
	GetAllProperties() ([]models.Property, error)
}

// Catalog is the read-only set of candidate properties
type Catalog struct {
	properties []models.Property
	byID       map[int64]int
	rng        *rand.Rand
	logger     *logrus.Logger
}

// Parse decodes and validates a JSON list of properties
func Parse(data []byte) ([]models.Property, error) {
	var raw []struct {
		models.Property
		Rooms map[string]models.Room `json:"rooms"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	properties := make([]models.Property, 0, len(raw))
	seen := make(map[int64]bool, len(raw))
	for _, r := range raw {
		p := r.Property
		p.Rooms = make(map[models.RoomType]models.Room, len(r.Rooms))
		for key, room := range r.Rooms {
			rt, err := models.ParseRoomType(key)
			if err != nil {
				return nil, fmt.Errorf("property %d: %w", p.ID, err)
			}
			p.Rooms[rt] = room
		}

		if seen[p.ID] {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrInvalidProperty, p.ID)
		}
		seen[p.ID] = true

		if err := validate(&p); err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}

	if len(properties) == 0 {
		return nil, ErrEmptyCatalog
	}
	return properties, nil
}

func validate(p *models.Property) error {
	if p.Address == "" {
		return fmt.Errorf("%w %d: missing address", ErrInvalidProperty, p.ID)
	}
	if len(p.Rooms) == 0 {
		return fmt.Errorf("%w %d: no rooms", ErrInvalidProperty, p.ID)
	}
	for rt, room := range p.Rooms {
		if len(room.RepairOptions) == 0 {
			return fmt.Errorf("%w %d: %s has no upgrade options", ErrInvalidProperty, p.ID, rt)
		}
		for _, u := range room.RepairOptions {
			if u.Cost < 0 || u.TimeAdded < 0 {
				return fmt.Errorf("%w %d: %s upgrade %q has negative cost or time", ErrInvalidProperty, p.ID, rt, u.Name)
			}
		}
	}
	return nil
}

// LoadFile reads a catalog file, or the embedded catalog when path is empty
func LoadFile(path string) ([]models.Property, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// New loads every property from the store once. The catalog never changes
// afterwards.
func New(store Store, rng *rand.Rand, logger *logrus.Logger) (*Catalog, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if rng == nil {
		rng = NewRand(0)
	}

	properties, err := store.GetAllProperties()
	if err != nil {
		return nil, err
	}
	if len(properties) == 0 {
		return nil, ErrEmptyCatalog
	}

	sort.Slice(properties, func(i, j int) bool { return properties[i].ID < properties[j].ID })
	byID := make(map[int64]int, len(properties))
	for i, p := range properties {
		byID[p.ID] = i
	}

	logger.WithField("properties", len(properties)).Info("Catalog loaded")
	return &Catalog{
		properties: properties,
		byID:       byID,
		rng:        rng,
		logger:     logger,
	}, nil
}

func (c *Catalog) Len() int {
	return len(c.properties)
}

// All returns the catalog in id order
func (c *Catalog) All() []models.Property {
	out := make([]models.Property, len(c.properties))
	copy(out, c.properties)
	return out
}

func (c *Catalog) Get(id int64) (*models.Property, bool) {
	i, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	p := c.properties[i]
	return &p, true
}

// Random picks a property uniformly at random
func (c *Catalog) Random() *models.Property {
	p := c.properties[c.rng.IntN(len(c.properties))]
	c.logger.WithFields(logrus.Fields{
		"property_id": p.ID,
		"address":     p.Address,
	}).Debug("Picked random property")
	return &p
}
