// Package summary derives the short, human-scannable tags shown in the notification
// window for one Shodan result.
package summary

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
)

const (
	maxListedPorts    = 10
	maxListedReserved = 10
	maxListedAPITags  = 5
	// highest port still counted as reserved when splitting large port sets
	reservedPortCeiling = 1024
)

const (
	NoOpenPortsTag = "No Open Ports"
	NoTagsTag      = "No Tags"
)

// Tags computes the summary for a record: port tags, then up to five of Shodan's own
// tags, then the vulnerability total. An empty list falls back to "No Tags".
func Tags(record *entity.HostRecord) []string {
	if record == nil {
		return []string{NoTagsTag}
	}

	tags := PortTags(record.Ports)
	tags = append(tags, APITags(record.Tags)...)

	if record.TotalVuln != nil {
		tags = append(tags, fmt.Sprintf("Vulnerabilities: %d", *record.TotalVuln))
	}

	if len(tags) == 0 {
		return []string{NoTagsTag}
	}
	return tags
}

// PortTags summarizes open ports in ascending order.
//
// Up to ten ports are listed in a single tag. Larger sets are split into reserved ports
// (listing the first ten, then "+N more") and a count of ephemeral ports above 1024:
//
//	Reserved Ports: 1, 2, 3, 4, 25, 80, 443, 500, 600, 601, +5 more
//	679 ephemeral ports
func PortTags(ports []int) []string {
	if len(ports) == 0 {
		return []string{NoOpenPortsTag}
	}

	sorted := append([]int(nil), ports...)
	sort.Ints(sorted)

	if len(sorted) <= maxListedPorts {
		return []string{"Ports: " + joinPorts(sorted)}
	}

	split := sort.Search(len(sorted), func(i int) bool { return sorted[i] > reservedPortCeiling })
	reserved, ephemeral := sorted[:split], sorted[split:]

	var tags []string
	if len(reserved) > 0 {
		listed := reserved
		if len(listed) > maxListedReserved {
			listed = listed[:maxListedReserved]
		}
		tag := "Reserved Ports: " + joinPorts(listed)
		if extra := len(reserved) - len(listed); extra > 0 {
			tag += fmt.Sprintf(", +%d more", extra)
		}
		tags = append(tags, tag)
	}
	if len(ephemeral) > 0 {
		tags = append(tags, fmt.Sprintf("%d ephemeral ports", len(ephemeral)))
	}
	return tags
}

// APITags keeps the first five tags Shodan attached to the host, in their original order
func APITags(apiTags []string) []string {
	if len(apiTags) == 0 {
		return nil
	}
	if len(apiTags) <= maxListedAPITags {
		return append([]string(nil), apiTags...)
	}
	tags := append([]string(nil), apiTags[:maxListedAPITags]...)
	return append(tags, fmt.Sprintf("+%d more tags", len(apiTags)-maxListedAPITags))
}

func joinPorts(ports []int) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ", ")
}
