// Package seed reads catalog content files used to populate a fresh
// database.
package seed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lorrc/ventsite/internal/core/domain"
	"github.com/lorrc/ventsite/internal/core/ports"
)

// File is the on-disk layout of a content file.
type File struct {
	Services []ServiceEntry `yaml:"services"`
	Works    []WorkEntry    `yaml:"works"`
}

type ServiceEntry struct {
	Name        string      `yaml:"name"`
	Description Description `yaml:"description"`
	Image       string      `yaml:"image"`
}

type WorkEntry struct {
	Title       string   `yaml:"title"`
	Images      []string `yaml:"images"`
	Square      string   `yaml:"square"`
	Quantity    string   `yaml:"quantity"`
	Time        string   `yaml:"time"`
	SuccessWork []string `yaml:"successWork"`
}

// Description is either plain text or a list of bullet points. Lists are
// stored the way the site editors store them: as JSON array text.
type Description struct {
	Text  string
	Items []string
}

func (d *Description) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&d.Text)
	case yaml.SequenceNode:
		return node.Decode(&d.Items)
	default:
		return fmt.Errorf("line %d: description must be text or a list", node.Line)
	}
}

func (d Description) stored() (string, error) {
	if d.Items == nil {
		return d.Text, nil
	}
	raw, err := json.Marshal(d.Items)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// LoadFile reads a content file from disk.
func LoadFile(path string) (ports.ContentBundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return ports.ContentBundle{}, fmt.Errorf("open content file: %w", err)
	}
	defer f.Close()

	bundle, err := Load(f)
	if err != nil {
		return ports.ContentBundle{}, fmt.Errorf("%s: %w", path, err)
	}
	return bundle, nil
}

// Load decodes a content file. Unknown keys are rejected so typos do not
// silently drop fields.
func Load(r io.Reader) (ports.ContentBundle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return ports.ContentBundle{}, fmt.Errorf("read content: %w", err)
	}

	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return ports.ContentBundle{}, errEmpty
		}
		return ports.ContentBundle{}, fmt.Errorf("decode content: %w", err)
	}

	return file.Bundle()
}

var errEmpty = errors.New("content file is empty")

// Bundle converts the file into domain values.
func (f File) Bundle() (ports.ContentBundle, error) {
	bundle := ports.ContentBundle{
		Services: make([]*domain.Service, 0, len(f.Services)),
		Works:    make([]*domain.Work, 0, len(f.Works)),
	}

	for i, s := range f.Services {
		desc, err := s.Description.stored()
		if err != nil {
			return ports.ContentBundle{}, fmt.Errorf("service %d: %w", i, err)
		}
		bundle.Services = append(bundle.Services, &domain.Service{
			Name:        s.Name,
			Description: desc,
			Image:       s.Image,
		})
	}

	for _, w := range f.Works {
		bundle.Works = append(bundle.Works, &domain.Work{
			Title:       w.Title,
			Images:      nonNil(w.Images),
			Square:      w.Square,
			Quantity:    w.Quantity,
			Time:        w.Time,
			SuccessWork: nonNil(w.SuccessWork),
		})
	}

	return bundle, nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
