package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anyulbade/payment-wallet-service/internal/model"
	"github.com/anyulbade/payment-wallet-service/seeddata"
)

const defaultRegion = "default"

// RegionRails holds the payment rails allowed per country code.
// Countries without an entry fall back to the "default" list.
type RegionRails struct {
	byRegion map[string][]model.RailType
}

func ParseRegionRails(data []byte) (*RegionRails, error) {
	var raw map[string][]model.RailType
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse region rails: %w", err)
	}
	if _, ok := raw[defaultRegion]; !ok {
		return nil, fmt.Errorf("region rails: missing %q entry", defaultRegion)
	}
	byRegion := make(map[string][]model.RailType, len(raw))
	for region, rails := range raw {
		for _, r := range rails {
			if r == model.RailWallet {
				return nil, fmt.Errorf("region %s: rail %q is internal", region, r)
			}
		}
		byRegion[strings.ToUpper(region)] = rails
	}
	byRegion[defaultRegion] = raw[defaultRegion]
	return &RegionRails{byRegion: byRegion}, nil
}

func DefaultRegionRails() *RegionRails {
	r, err := ParseRegionRails(seeddata.RegionRailsJSON)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *RegionRails) Allowed(countryCode string) []model.RailType {
	if rails, ok := r.byRegion[strings.ToUpper(countryCode)]; ok {
		return rails
	}
	return r.byRegion[defaultRegion]
}

func (r *RegionRails) IsAllowed(countryCode string, rail model.RailType) bool {
	for _, allowed := range r.Allowed(countryCode) {
		if allowed == rail {
			return true
		}
	}
	return false
}
