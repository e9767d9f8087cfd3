// Package manifest reads the plugin.yaml file that describes a plugin and
// turns it into the descriptor the host is shown.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Dessix/mumble-plugin-go/domain/entities"
)

// validate is a package-level singleton; building a validator is expensive.
var validate = validator.New()

// Feature names accepted in the features list.
const (
	FeaturePositional = "positional"
	FeatureAudio      = "audio"
)

// Manifest is the on-disk description of a plugin.
type Manifest struct {
	Name        string   `json:"name" yaml:"name" validate:"required,max=128" jsonschema:"description=Display name shown in the plugin list"`
	Author      string   `json:"author" yaml:"author" validate:"required,max=128"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" validate:"max=1024"`
	Version     string   `json:"version" yaml:"version" validate:"required,version" jsonschema:"description=Plugin version as major.minor.patch,example=1.0.0"`
	APIVersion  string   `json:"api_version,omitempty" yaml:"api_version,omitempty" validate:"omitempty,version"`
	Features    []string `json:"features,omitempty" yaml:"features,omitempty" validate:"unique,dive,oneof=positional audio"`
	Library     string   `json:"library,omitempty" yaml:"library,omitempty" validate:"omitempty,excludesall=/"`
}

func init() {
	if err := validate.RegisterValidation("version", func(fl validator.FieldLevel) bool {
		_, err := entities.ParseVersion(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
}

// Parse decodes YAML manifest bytes. Unknown keys are rejected so typos do
// not silently fall back to defaults.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &m, nil
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data)
}

// Validate checks the manifest's field constraints.
func (m *Manifest) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("manifest validation failed: %w", err)
	}
	return nil
}

// Descriptor validates the manifest and converts it to a descriptor.
func (m *Manifest) Descriptor() (entities.Descriptor, error) {
	if err := m.Validate(); err != nil {
		return entities.Descriptor{}, err
	}
	desc := entities.Descriptor{
		Name:        m.Name,
		Author:      m.Author,
		Description: m.Description,
	}

	var err error
	if desc.Version, err = entities.ParseVersion(m.Version); err != nil {
		return entities.Descriptor{}, err
	}
	if m.APIVersion != "" {
		if desc.APIVersion, err = entities.ParseVersion(m.APIVersion); err != nil {
			return entities.Descriptor{}, err
		}
	}
	for _, f := range m.Features {
		switch f {
		case FeaturePositional:
			desc.Features |= entities.FeaturePositional
		case FeatureAudio:
			desc.Features |= entities.FeatureAudio
		}
	}
	return desc.WithDefaults(), nil
}

// Schema returns the JSON schema of the manifest format.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		ExpandedStruct: true,
	}
	schema := reflector.Reflect(&Manifest{})

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return out, nil
}

// Encode renders m as YAML.
func Encode(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FromDescriptor builds the manifest describing desc.
func FromDescriptor(desc entities.Descriptor) *Manifest {
	desc = desc.WithDefaults()
	m := &Manifest{
		Name:        desc.Name,
		Author:      desc.Author,
		Description: desc.Description,
		Version:     desc.Version.String(),
		APIVersion:  desc.APIVersion.String(),
	}
	if desc.Features&entities.FeaturePositional != 0 {
		m.Features = append(m.Features, FeaturePositional)
	}
	if desc.Features&entities.FeatureAudio != 0 {
		m.Features = append(m.Features, FeatureAudio)
	}
	return m
}
