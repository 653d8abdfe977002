package domain

import "strings"

// ValidationResult reports which required fields are missing from a set of
// wizard inputs. Errors is keyed by field name.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

// ValidateFields checks that every required field of the config has a
// non-empty value. Only presence is validated; type and format checks belong
// to the input widgets.
func ValidateFields(config ProductConfig, values map[string]string) ValidationResult {
	var errs map[string]string
	for _, field := range config.Fields {
		if !field.Required {
			continue
		}
		if strings.TrimSpace(values[field.Name]) != "" {
			continue
		}
		if errs == nil {
			errs = make(map[string]string)
		}
		errs[field.Name] = field.Label + " is required"
	}
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
