package shodan

import (
	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
)

// assembleNetwork folds the matches of a CIDR search into the per-host shape used for
// single-address lookups, so the same summary applies to both.
//
// Location fields of the first match stand in for the whole network. Array fields
// (hostnames, domains, tags...) are concatenated across matches, ports are de-duplicated
// in first-seen order and the raw matches are kept under "data".
func assembleNetwork(search *searchResponse) *entity.HostRecord {
	if *search.Total == 0 {
		return &entity.HostRecord{
			Variant: entity.VariantEmptyNetwork,
			Details: map[string]any{"tags": []string{entity.NoResultsFoundTag}},
		}
	}

	details := make(map[string]any)
	if len(search.Matches) > 0 {
		if location, ok := search.Matches[0]["location"].(map[string]any); ok {
			for k, v := range location {
				details[k] = v
			}
		}
	}

	ports := make([]int, 0)
	seenPorts := make(map[int]struct{})
	data := make([]any, 0, len(search.Matches))
	var tags []string

	for _, match := range search.Matches {
		data = append(data, match)

		if port, ok := toPort(match["port"]); ok {
			if _, seen := seenPorts[port]; !seen {
				seenPorts[port] = struct{}{}
				ports = append(ports, port)
			}
		}

		for key, value := range match {
			values, ok := value.([]any)
			if !ok || key == "data" || key == "ports" {
				continue
			}
			merged, _ := details[key].([]any)
			details[key] = append(merged, values...)

			if key == "tags" {
				for _, tag := range values {
					if s, ok := tag.(string); ok {
						tags = append(tags, s)
					}
				}
			}
		}
	}

	if len(ports) == 0 {
		for _, bucket := range search.Facets["port"] {
			if port, ok := toPort(bucket.Value); ok {
				if _, seen := seenPorts[port]; !seen {
					seenPorts[port] = struct{}{}
					ports = append(ports, port)
				}
			}
		}
	}

	details["ports"] = ports
	details["data"] = data
	details["total"] = *search.Total

	record := &entity.HostRecord{
		Variant: entity.VariantNetwork,
		Ports:   ports,
		Tags:    tags,
		Details: details,
	}

	if search.Facets != nil {
		details["facets"] = search.Facets
		if vulns, ok := search.Facets["vuln"]; ok {
			totalVuln := len(vulns)
			details["totalVuln"] = totalVuln
			record.TotalVuln = &totalVuln
		}
	}

	return record
}
