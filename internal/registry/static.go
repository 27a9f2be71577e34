package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"admission-workers/internal/models"
)

// StaticRegistry is an in-memory registry, loaded from a JSON file for
// offline checks.
type StaticRegistry struct {
	entries map[string]models.CertificateTypeDescriptor
}

func NewStaticRegistry(descriptors ...models.CertificateTypeDescriptor) *StaticRegistry {
	r := &StaticRegistry{entries: make(map[string]models.CertificateTypeDescriptor, len(descriptors))}
	for _, d := range descriptors {
		r.entries[normalize(d.Name)] = d
	}
	return r
}

// LoadStaticRegistry reads a JSON array of {"name", "lqfLevel"} objects.
func LoadStaticRegistry(path string) (*StaticRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}
	var descriptors []models.CertificateTypeDescriptor
	if err := json.Unmarshal(data, &descriptors); err != nil {
		return nil, fmt.Errorf("parse registry file: %w", err)
	}
	return NewStaticRegistry(descriptors...), nil
}

func (r *StaticRegistry) LookupByName(_ context.Context, name string) (*models.CertificateTypeDescriptor, error) {
	d, ok := r.entries[normalize(name)]
	if !ok {
		return nil, nil
	}
	return &d, nil
}
