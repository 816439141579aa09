package journey

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed assets/content.yaml
var defaultContent []byte

// SceneContent is the narrative copy of one section. Strings are passed
// through to the overlay untouched.
type SceneContent struct {
	ID       string  `yaml:"id"`
	Title    string  `yaml:"title"`
	Subtitle string  `yaml:"subtitle"`
	Screens  float64 `yaml:"screens"`
}

// Content is the page's narrative configuration.
type Content struct {
	Title string `yaml:"title"`
	// Seed fixes auxiliary data generation. Zero picks a seed per load.
	Seed   uint64         `yaml:"seed"`
	Scenes []SceneContent `yaml:"scenes"`
}

// DefaultContent returns the embedded narrative.
func DefaultContent() *Content {
	c, err := LoadContent(defaultContent)
	if err != nil {
		panic("journey: embedded content is invalid: " + err.Error())
	}
	return c
}

// LoadContent decodes and validates a YAML narrative.
func LoadContent(data []byte) (*Content, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var c Content
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("journey: decoding content: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadContentFile reads a YAML narrative from disk.
func LoadContentFile(path string) (*Content, error) {
	if path == "" {
		return nil, errors.New("journey: missing content file")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("journey: reading content: %w", err)
	}
	c, err := LoadContent(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func (c *Content) validate() error {
	if len(c.Scenes) == 0 {
		return errors.New("journey: content has no scenes")
	}
	seen := make(map[string]bool, len(c.Scenes))
	for i, s := range c.Scenes {
		if s.ID == "" {
			return fmt.Errorf("journey: scene %d has no id", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("journey: duplicate scene id %q", s.ID)
		}
		if s.Screens < 0 {
			return fmt.Errorf("journey: scene %q has negative height", s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

// Sections returns the page section specs in narrative order.
func (c *Content) Sections() []SectionSpec {
	specs := make([]SectionSpec, len(c.Scenes))
	for i, s := range c.Scenes {
		specs[i] = SectionSpec{
			ID:       s.ID,
			CanvasID: CanvasID(s.ID),
			Title:    s.Title,
			Subtitle: s.Subtitle,
			Screens:  s.Screens,
		}
	}
	return specs
}

// Page lays out the content for a w×h viewport. newSurface, when non-nil,
// is called once per section to attach its canvas.
func (c *Content) Page(w, h, deviceScale float64, newSurface func(w, h, deviceScale float64) Surface) *Page {
	page := NewPage(c.Sections(), w, h, deviceScale)
	if newSurface != nil {
		for _, s := range page.Sections() {
			page.AttachSurface(s.CanvasID, newSurface(w, h, deviceScale))
		}
	}
	return page
}
