package session

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// ValidationError reports every intake field that failed validation, keyed by
// its wire name
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid intake: " + strings.Join(parts, "; ")
}

// Validate checks the intake answers against the accepted values
func (r IntakeRecord) Validate() error {
	fields := map[string]string{}

	if strings.TrimSpace(r.PhoneModel) == "" {
		fields["modelo_celular"] = "required"
	}
	if !slices.Contains(OperatingSystems, r.OperatingSystem) {
		fields["sistema_operacional"] = fmt.Sprintf("must be one of %v", OperatingSystems)
	}
	if strings.TrimSpace(r.OSVersion) == "" {
		fields["versao_so"] = "required"
	}
	if !slices.Contains(OriginStates, r.OriginState) {
		fields["estado_origem"] = "must be a state code"
	}
	if !slices.Contains(Sexes, r.Sex) {
		fields["sexo"] = fmt.Sprintf("must be one of %v", Sexes)
	}
	if r.Age < MinAge || r.Age > MaxAge {
		fields["idade"] = fmt.Sprintf("must be between %d and %d", MinAge, MaxAge)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
