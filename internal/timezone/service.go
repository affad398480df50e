package timezone

import (
	"fmt"
	"sync"

	"github.com/ringsaturn/tzf"
)

// Service resolves the IANA timezone for a coordinate pair, so forecast
// times can be requested and displayed in the place's local time.
type Service interface {
	GetTimezone(latitude, longitude float64) (string, error)
}

type service struct {
	finder tzf.F
	mu     sync.RWMutex
}

var (
	instance *service
	once     sync.Once
)

// NewService creates or returns the singleton timezone service.
// Singleton because the tzf finder loads timezone polygon data into
// memory once per process.
func NewService() (Service, error) {
	var err error
	once.Do(func() {
		finder, findErr := tzf.NewDefaultFinder()
		if findErr != nil {
			err = fmt.Errorf("failed to initialize timezone finder: %w", findErr)
			return
		}
		instance = &service{finder: finder}
	})
	if err != nil {
		return nil, err
	}
	if instance == nil {
		return nil, fmt.Errorf("timezone finder initialization previously failed")
	}
	return instance, nil
}

// GetTimezone returns an IANA zone name like "America/New_York".
func (s *service) GetTimezone(latitude, longitude float64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	zone := s.finder.GetTimezoneName(longitude, latitude)
	if zone == "" {
		return "", fmt.Errorf("could not determine timezone for coordinates lat=%f, lon=%f", latitude, longitude)
	}
	return zone, nil
}
