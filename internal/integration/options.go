package integration

// APIKeyOption is the key of the only user option
const APIKeyOption = "apiKey"

// UserOption is one option value as submitted from the settings page
type UserOption struct {
	Value any `json:"value"`
}

// OptionError names an option that failed validation
type OptionError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// ValidateOptions checks the settings a user is about to save.
// An empty list means the options are valid.
func ValidateOptions(options map[string]UserOption) []OptionError {
	errs := []OptionError{}

	apiKey, ok := options[APIKeyOption].Value.(string)
	if !ok || apiKey == "" {
		errs = append(errs, OptionError{
			Key:     APIKeyOption,
			Message: "You must provide a Shodan API key",
		})
	}

	return errs
}
