// Package geocode offers typed geocoding operations on top of the core
// client: free-text address search and reverse lookup by coordinates. It is
// the kind of per-service collaborator the core was designed for, so it also
// documents the intended calling pattern.
package geocode

import (
	"context"
	"strconv"

	georef "github.com/gaborage/go-georef"
	"github.com/gaborage/go-georef/logger"
	"github.com/gaborage/go-georef/node"
	"github.com/gaborage/go-georef/parse"
	"github.com/gaborage/go-georef/retry"
)

const (
	opFind    = "geocode.find"
	opReverse = "geocode.reverse"

	// listField holds the candidate list inside the root wrapper. A single
	// match collapses to a bare object; node.Elements absorbs that.
	listField = "georeferencias"

	// legacyListField is emitted by older endpoints for reverse lookups
	legacyListField = "direcciones"
)

// Candidate is one georeferenced address match. String fields are "" when the
// service omitted them; coordinates are always present or the whole candidate
// is rejected.
type Candidate struct {
	ID           string
	Address      string
	Municipality string
	Province     string
	PostalCode   string
	Latitude     float64
	Longitude    float64
}

// Service wraps a core client with the geocoding operations.
type Service struct {
	client *georef.Client
	log    logger.Logger
}

// NewService creates a geocoding service. A nil log falls back to no-op.
func NewService(client *georef.Client, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{client: client, log: log}
}

// Find geocodes a free-text address. A no-results answer from the service is
// an empty slice, not an error.
func (s *Service) Find(ctx context.Context, address string) ([]Candidate, error) {
	if address == "" {
		return nil, georef.NewValidationError("address", "address is required")
	}

	params := georef.Params{}
	params.Set("direccion", address)

	root, err := s.client.Execute(ctx, opFind, params)
	if err != nil {
		if georef.IsNoResults(err) {
			s.log.Debug().Str("address", address).Msg("no geocoding candidates")
			return []Candidate{}, nil
		}
		return nil, err
	}

	found, err := candidates(root.Child(listField))
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("address", address).Int("candidates", len(found)).Msg("geocoding candidates")
	return found, nil
}

// Reverse resolves the address nearest to the given coordinates. The service
// answers reverse lookups in two shapes depending on endpoint vintage, so the
// current one is tried first and the legacy one is the fallback; the first
// present candidate wins.
func (s *Service) Reverse(ctx context.Context, lat, lon float64) (*Candidate, error) {
	result, ok, err := retry.First(ctx,
		s.reverseStrategy(listField, georef.Params{
			"latitud":  formatCoord(lat),
			"longitud": formatCoord(lon),
		}),
		s.reverseStrategy(legacyListField, georef.Params{
			"ycoor": formatCoord(lat),
			"xcoor": formatCoord(lon),
		}),
	)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &result, nil
}

// reverseStrategy builds one way of asking the reverse question. No-results
// and an empty list both count as absence so the chain can move on.
func (s *Service) reverseStrategy(field string, params georef.Params) retry.Strategy[Candidate] {
	return func(ctx context.Context) (Candidate, bool, error) {
		root, err := s.client.Execute(ctx, opReverse, params)
		if err != nil {
			if georef.IsNoResults(err) {
				return Candidate{}, false, nil
			}
			return Candidate{}, false, err
		}

		list := root.Child(field)
		if list.Len() == 0 {
			return Candidate{}, false, nil
		}
		c, err := candidateFromNode(list.At(0))
		if err != nil {
			return Candidate{}, false, err
		}
		return c, true, nil
	}
}

// candidates maps a list node into Candidate models, rejecting the whole
// response when any element lacks usable coordinates.
func candidates(list *node.Node) ([]Candidate, error) {
	out := make([]Candidate, 0, list.Len())
	for _, el := range list.Elements() {
		c, err := candidateFromNode(el)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func candidateFromNode(n *node.Node) (Candidate, error) {
	lat, err := requiredCoordinate(n, "latitud", "latitude")
	if err != nil {
		return Candidate{}, err
	}
	lon, err := requiredCoordinate(n, "longitud", "longitude")
	if err != nil {
		return Candidate{}, err
	}

	c := Candidate{Latitude: lat, Longitude: lon}
	c.ID, _ = n.Attribute("id")
	if addr := n.Child("direccion"); addr != nil {
		c.Address, _ = addr.Value()
	}
	c.Municipality, _ = n.Attribute("municipio")
	c.Province, _ = n.Attribute("provincia")
	c.PostalCode, _ = n.Attribute("codpostal")
	return c, nil
}

func requiredCoordinate(n *node.Node, field, axis string) (float64, error) {
	raw, _ := n.Attribute(field)
	v, err := parse.Coordinate(raw, axis)
	if err != nil {
		return 0, georef.NewValidationError(field, err.Error())
	}
	return v, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
