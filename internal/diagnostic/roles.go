package diagnostic

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"cineze/internal/providers/textgen"
)

// RoleID names one generation role.
type RoleID string

const (
	RoleBusinessHealth  RoleID = "business_health"
	RoleDigitalPresence RoleID = "digital_presence"
	RoleAcquisition     RoleID = "acquisition_conversion"
	RolePositioning     RoleID = "positioning"
	RoleRetention       RoleID = "retention_growth"
	RoleSynthesizer     RoleID = "synthesizer"
)

const specialistCount = 5

// SpecialistOrder is the fixed slot order of specialist results.
var SpecialistOrder = [specialistCount]RoleID{
	RoleBusinessHealth,
	RoleDigitalPresence,
	RoleAcquisition,
	RolePositioning,
	RoleRetention,
}

//go:embed roles.yaml
var defaultRolesYAML []byte

// Role binds an instruction to a model and its sampling parameters.
type Role struct {
	ID              RoleID  `yaml:"id"`
	Label           string  `yaml:"label"`
	Model           string  `yaml:"model"`
	Temperature     float32 `yaml:"temperature"`
	MaxOutputTokens int32   `yaml:"max_output_tokens"`
	Instruction     string  `yaml:"instruction"`
}

// TierModels names the specialist and synthesizer models of one provider.
type TierModels struct {
	Specialist  string `yaml:"specialist"`
	Synthesizer string `yaml:"synthesizer"`
}

// Roles is the validated catalog: five specialists in slot order plus the
// synthesizer. SpecialistModel and SynthesizerModel hold the tiers in effect.
type Roles struct {
	Models           map[string]TierModels `yaml:"models"`
	SpecialistModel  string                `yaml:"-"`
	SynthesizerModel string                `yaml:"-"`
	Specialists      []Role                `yaml:"specialists"`
	Synthesizer      Role                  `yaml:"synthesizer"`
}

// DefaultRoles returns the embedded catalog bound to the Gemini tiers.
func DefaultRoles() (*Roles, error) {
	return LoadRoles(defaultRolesYAML)
}

// LoadRoles parses and validates a YAML role catalog. A role without its
// own model inherits the Gemini model for its tier.
func LoadRoles(data []byte) (*Roles, error) {
	var r Roles
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse roles: %w", err)
	}
	tiers := r.Models[textgen.ProviderGemini]
	r.SpecialistModel = tiers.Specialist
	r.SynthesizerModel = tiers.Synthesizer
	for i := range r.Specialists {
		if r.Specialists[i].Model == "" {
			r.Specialists[i].Model = r.SpecialistModel
		}
	}
	if r.Synthesizer.Model == "" {
		r.Synthesizer.Model = r.SynthesizerModel
	}
	if r.Synthesizer.ID == "" {
		r.Synthesizer.ID = RoleSynthesizer
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// WithModels returns a copy with the tier models replaced. Empty values
// keep the current model.
func (r *Roles) WithModels(specialist, synthesizer string) *Roles {
	out := *r
	out.Specialists = append([]Role(nil), r.Specialists...)
	if specialist = strings.TrimSpace(specialist); specialist != "" {
		out.SpecialistModel = specialist
		for i := range out.Specialists {
			out.Specialists[i].Model = specialist
		}
	}
	if synthesizer = strings.TrimSpace(synthesizer); synthesizer != "" {
		out.SynthesizerModel = synthesizer
		out.Synthesizer.Model = synthesizer
	}
	return &out
}

// ForProvider binds the catalog to a provider's tier models, then applies
// the non-empty overrides. Every resulting model must be one the provider
// serves as named, and the two tiers must differ.
func (r *Roles) ForProvider(provider, specialist, synthesizer string) (*Roles, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		provider = textgen.ProviderGemini
	}
	tiers, ok := r.Models[provider]
	if !ok {
		return nil, fmt.Errorf("roles: no models for provider %q", provider)
	}
	out := r.WithModels(tiers.Specialist, tiers.Synthesizer).WithModels(specialist, synthesizer)
	spec, ok := textgen.ResolveModel(provider, out.SpecialistModel)
	if !ok {
		return nil, fmt.Errorf("roles: %s does not serve specialist model %q", provider, out.SpecialistModel)
	}
	synth, ok := textgen.ResolveModel(provider, out.SynthesizerModel)
	if !ok {
		return nil, fmt.Errorf("roles: %s does not serve synthesizer model %q", provider, out.SynthesizerModel)
	}
	if spec == synth {
		return nil, fmt.Errorf("roles: specialist and synthesizer both resolve to %q", spec)
	}
	return out, nil
}

// Specialist returns the role bound to a slot id.
func (r *Roles) Specialist(id RoleID) (Role, bool) {
	for _, role := range r.Specialists {
		if role.ID == id {
			return role, true
		}
	}
	return Role{}, false
}

func (r *Roles) validate() error {
	if len(r.Specialists) != specialistCount {
		return fmt.Errorf("roles: want %d specialists, got %d", specialistCount, len(r.Specialists))
	}
	var errs []error
	for provider, tiers := range r.Models {
		if strings.TrimSpace(tiers.Specialist) == "" || strings.TrimSpace(tiers.Synthesizer) == "" {
			errs = append(errs, fmt.Errorf("roles: provider %s needs both tier models", provider))
		}
	}
	for i, role := range r.Specialists {
		if role.ID != SpecialistOrder[i] {
			errs = append(errs, fmt.Errorf("roles: slot %d is %q, want %q", i, role.ID, SpecialistOrder[i]))
		}
		errs = append(errs, role.validate())
		if r.Synthesizer.Temperature >= role.Temperature {
			errs = append(errs, fmt.Errorf("roles: synthesizer temperature %.2f must be below %s (%.2f)", r.Synthesizer.Temperature, role.ID, role.Temperature))
		}
		if r.Synthesizer.MaxOutputTokens <= role.MaxOutputTokens {
			errs = append(errs, fmt.Errorf("roles: synthesizer budget %d must exceed %s (%d)", r.Synthesizer.MaxOutputTokens, role.ID, role.MaxOutputTokens))
		}
	}
	if r.Synthesizer.ID != RoleSynthesizer {
		errs = append(errs, fmt.Errorf("roles: synthesizer id is %q", r.Synthesizer.ID))
	}
	errs = append(errs, r.Synthesizer.validate())
	return errors.Join(errs...)
}

func (role Role) validate() error {
	switch {
	case strings.TrimSpace(role.Instruction) == "":
		return fmt.Errorf("roles: %s has no instruction", role.ID)
	case strings.TrimSpace(role.Model) == "":
		return fmt.Errorf("roles: %s has no model", role.ID)
	case strings.TrimSpace(role.Label) == "":
		return fmt.Errorf("roles: %s has no label", role.ID)
	case role.Temperature < 0 || role.Temperature > 2:
		return fmt.Errorf("roles: %s temperature %.2f out of range", role.ID, role.Temperature)
	case role.MaxOutputTokens <= 0:
		return fmt.Errorf("roles: %s has no output budget", role.ID)
	}
	return nil
}
