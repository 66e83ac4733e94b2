package provider

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mark47B/campground-availability/app/domain/entity"
)

var jsonNull = []byte("null")

func requireKey(env map[string]json.RawMessage, key string) (json.RawMessage, error) {
	raw, ok := env[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q key", entity.ErrMalformedResponse, key)
	}
	return raw, nil
}

func decodeMonth(env map[string]json.RawMessage, month entity.MonthSpec) (*entity.MonthlyAvailability, error) {
	raw, err := requireKey(env, "campsites")
	if err != nil {
		return nil, err
	}
	if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return nil, fmt.Errorf("%w: campsites is null", entity.ErrMalformedResponse)
	}

	var campsites map[string]entity.CampsiteAvailability
	if err := json.Unmarshal(raw, &campsites); err != nil {
		return nil, fmt.Errorf("%w: campsites: %w", entity.ErrMalformedResponse, err)
	}

	for id, cs := range campsites {
		if cs.CampsiteID == "" {
			cs.CampsiteID = id
		}
		if cs.Availabilities == nil {
			cs.Availabilities = entity.DateStatusMap{}
		}
		for key := range cs.Availabilities {
			if _, err := entity.ParseDateKey(key); err != nil {
				return nil, fmt.Errorf("campsite %s: %w", id, err)
			}
		}
		campsites[id] = cs
	}

	return &entity.MonthlyAvailability{Month: month, Campsites: campsites}, nil
}

func decodeCampground(env map[string]json.RawMessage) (*entity.Campground, error) {
	raw, err := requireKey(env, "campground")
	if err != nil {
		return nil, err
	}
	if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return nil, entity.ErrNotFound
	}

	var cg entity.Campground
	if err := json.Unmarshal(raw, &cg); err != nil {
		return nil, fmt.Errorf("%w: campground: %w", entity.ErrMalformedResponse, err)
	}
	if cg.ID == "" {
		return nil, entity.ErrNotFound
	}
	return &cg, nil
}

func decodeCampsite(env map[string]json.RawMessage, campsiteID string) (*entity.Campsite, error) {
	raw, err := requireKey(env, "campsite")
	if err != nil {
		return nil, err
	}
	if bytes.Equal(bytes.TrimSpace(raw), jsonNull) {
		return nil, fmt.Errorf("%w: campsite is null", entity.ErrMalformedResponse)
	}

	var cs entity.Campsite
	if err := json.Unmarshal(raw, &cs); err != nil {
		return nil, fmt.Errorf("%w: campsite: %w", entity.ErrMalformedResponse, err)
	}
	if cs.ID == "" {
		cs.ID = campsiteID
	}
	return &cs, nil
}
