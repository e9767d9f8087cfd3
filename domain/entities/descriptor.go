package entities

// Descriptor is the metadata a plugin declares to the host.
type Descriptor struct {
	Name        string   `json:"name" yaml:"name" validate:"required,max=128"`
	Author      string   `json:"author" yaml:"author" validate:"required,max=128"`
	Description string   `json:"description" yaml:"description" validate:"max=1024"`
	Version     Version  `json:"version" yaml:"version"`
	APIVersion  Version  `json:"api_version" yaml:"api_version"`
	Features    Features `json:"features,omitempty" yaml:"features,omitempty"`
}

// WithDefaults fills the version fields the plugin left unset.
func (d Descriptor) WithDefaults() Descriptor {
	if d.Version.IsZero() {
		d.Version = DefaultPluginVersion
	}
	if d.APIVersion.IsZero() {
		d.APIVersion = APIVersion
	}
	return d
}
