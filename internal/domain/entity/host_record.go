package entity

// RecordVariant identifies which Shodan response shape a HostRecord was parsed from
type RecordVariant int

const (
	// VariantHost is a single-address /shodan/host/{ip} response
	VariantHost RecordVariant = iota
	// VariantNetwork is an assembled /shodan/host/search response with at least one match
	VariantNetwork
	// VariantEmptyNetwork is a search response that reported zero matches
	VariantEmptyNetwork
)

func (v RecordVariant) String() string {
	switch v {
	case VariantHost:
		return "host"
	case VariantNetwork:
		return "network"
	case VariantEmptyNetwork:
		return "empty_network"
	}
	return "unknown"
}

// HostRecord is the normalized form of one successful Shodan response.
// Summaries are computed from the typed fields; Details is handed to the caller untouched.
type HostRecord struct {
	Variant   RecordVariant
	Ports     []int
	Tags      []string
	TotalVuln *int
	Details   map[string]any
}
