package integration

import "github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"

// OptionSpec describes one user option shown in the integration settings
type OptionSpec struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     any    `json:"default"`
	Type        string `json:"type"`
	UserCanEdit bool   `json:"userCanEdit"`
	AdminOnly   bool   `json:"adminOnly"`
}

// LoggingSpec is the log level the host starts the integration with
type LoggingSpec struct {
	Level string `json:"level"`
}

// DescriptorSpec is the static metadata the host runtime reads at load time
type DescriptorSpec struct {
	Name         string              `json:"name"`
	Acronym      string              `json:"acronym"`
	Description  string              `json:"description"`
	DefaultColor string              `json:"defaultColor"`
	EntityTypes  []entity.EntityType `json:"entityTypes"`
	OnDemandOnly bool                `json:"onDemandOnly"`
	Logging      LoggingSpec         `json:"logging"`
	Options      []OptionSpec        `json:"options"`
}

// Descriptor returns the integration metadata, with the configured log level
func Descriptor(logLevel string) DescriptorSpec {
	if logLevel == "" {
		logLevel = "info"
	}
	return DescriptorSpec{
		Name:         "Shodan",
		Acronym:      "SHO",
		Description:  "IP Lookup Integration for Shodan",
		DefaultColor: "light-pink",
		EntityTypes:  entity.SupportedTypes,
		OnDemandOnly: true,
		Logging:      LoggingSpec{Level: logLevel},
		Options: []OptionSpec{
			{
				Key:         APIKeyOption,
				Name:        "Shodan API Key",
				Description: "Your Shodan API Key.",
				Default:     "",
				Type:        "password",
				UserCanEdit: false,
				AdminOnly:   true,
			},
		},
	}
}
