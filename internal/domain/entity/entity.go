package entity

import (
	"fmt"
	"net/netip"
	"strings"
)

// EntityType represents the kind of observable being enriched
type EntityType string

const (
	// EntityTypeIPv4 is a single IPv4 address
	EntityTypeIPv4 EntityType = "IPv4"
	// EntityTypeIPv6 is a single IPv6 address
	EntityTypeIPv6 EntityType = "IPv6"
	// EntityTypeIPv4CIDR is an IPv4 network block
	EntityTypeIPv4CIDR EntityType = "IPv4CIDR"
)

// SupportedTypes lists every entity type the integration can look up
var SupportedTypes = []EntityType{EntityTypeIPv4, EntityTypeIPv6, EntityTypeIPv4CIDR}

// ignoredIPs never generate an outbound request
var ignoredIPs = map[string]struct{}{
	"127.0.0.1":       {},
	"255.255.255.255": {},
	"0.0.0.0":         {},
}

// Entity is an observable submitted for enrichment. It is immutable input owned by the caller.
type Entity struct {
	Value       string     `json:"value"`
	Type        EntityType `json:"type"`
	IsPrivateIP bool       `json:"isPrivateIP"`
}

// IsCIDR reports whether the entity is looked up through the search endpoint
func (e Entity) IsCIDR() bool {
	return e.Type == EntityTypeIPv4CIDR
}

// IsEligible reports whether the entity should be sent to Shodan at all
func (e Entity) IsEligible() bool {
	if e.IsPrivateIP {
		return false
	}
	_, ignored := ignoredIPs[e.Value]
	return !ignored
}

// IsValid validates the value object
func (e Entity) IsValid() bool {
	if e.Value == "" {
		return false
	}
	switch e.Type {
	case EntityTypeIPv4, EntityTypeIPv6, EntityTypeIPv4CIDR:
		return true
	}
	return false
}

// ParseEntity classifies a raw observable and derives IsPrivateIP for callers that
// do not get entities from a host runtime (CLI, bare HTTP requests).
func ParseEntity(value string) (Entity, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Entity{}, fmt.Errorf("empty entity value")
	}

	if strings.Contains(value, "/") {
		prefix, err := netip.ParsePrefix(value)
		if err != nil {
			return Entity{}, fmt.Errorf("invalid CIDR %q: %w", value, err)
		}
		if !prefix.Addr().Is4() {
			return Entity{}, fmt.Errorf("unsupported CIDR %q: only IPv4 networks can be searched", value)
		}
		return Entity{
			Value:       prefix.String(),
			Type:        EntityTypeIPv4CIDR,
			IsPrivateIP: isPrivate(prefix.Addr()),
		}, nil
	}

	addr, err := netip.ParseAddr(value)
	if err != nil {
		return Entity{}, fmt.Errorf("invalid IP address %q: %w", value, err)
	}
	entityType := EntityTypeIPv6
	if addr.Is4() || addr.Is4In6() {
		addr = addr.Unmap()
		entityType = EntityTypeIPv4
	}
	return Entity{
		Value:       addr.String(),
		Type:        entityType,
		IsPrivateIP: isPrivate(addr),
	}, nil
}

func isPrivate(addr netip.Addr) bool {
	return addr.IsPrivate() ||
		addr.IsLoopback() ||
		addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() ||
		addr.IsUnspecified()
}
