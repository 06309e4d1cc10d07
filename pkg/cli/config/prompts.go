package config

import (
	_ "embed"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/secmon-lab/doubleblind/pkg/domain/model"
	"github.com/urfave/cli/v3"
)

//go:embed default_prompts.toml
var defaultPrompts []byte

// PromptCatalog is the TOML prompt catalog loaded by the seed command
type PromptCatalog struct {
	Prompts []PromptEntry `toml:"prompt"`
}

// PromptEntry is one prompt of the catalog
type PromptEntry struct {
	Order int    `toml:"order"`
	Title string `toml:"title"`
	Text  string `toml:"text"`
}

// Validate checks orders and texts
func (c *PromptCatalog) Validate() error {
	if len(c.Prompts) == 0 {
		return goerr.Wrap(ErrInvalidConfig, "catalog has no prompts")
	}

	seen := make(map[int]struct{}, len(c.Prompts))
	for i, p := range c.Prompts {
		if p.Order < 1 {
			return goerr.Wrap(ErrInvalidOrder, "invalid prompt", goerr.V(PromptIndexKey, i), goerr.V(OrderKey, p.Order))
		}
		if strings.TrimSpace(p.Text) == "" {
			return goerr.Wrap(ErrMissingText, "invalid prompt", goerr.V(PromptIndexKey, i), goerr.V(OrderKey, p.Order))
		}
		if _, dup := seen[p.Order]; dup {
			return goerr.Wrap(ErrDuplicateOrder, "invalid prompt", goerr.V(OrderKey, p.Order))
		}
		seen[p.Order] = struct{}{}
	}
	return nil
}

// ToModel converts entries into prompts without IDs; seeding assigns them
func (c *PromptCatalog) ToModel() []*model.Prompt {
	prompts := make([]*model.Prompt, 0, len(c.Prompts))
	for _, p := range c.Prompts {
		prompts = append(prompts, &model.Prompt{
			Title: strings.TrimSpace(p.Title),
			Text:  strings.TrimSpace(p.Text),
			Order: p.Order,
		})
	}
	return prompts
}

// ParsePromptCatalog decodes and validates a TOML catalog
func ParsePromptCatalog(data []byte) (*PromptCatalog, error) {
	var catalog PromptCatalog
	if err := toml.Unmarshal(data, &catalog); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrInvalidConfig, err), "failed to parse prompt catalog")
	}
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// DefaultPromptCatalog returns the embedded catalog
func DefaultPromptCatalog() *PromptCatalog {
	catalog, err := ParsePromptCatalog(defaultPrompts)
	if err != nil {
		panic(err)
	}
	return catalog
}

// Prompts holds the flag selecting the catalog file
type Prompts struct {
	path string
}

func (x *Prompts) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "prompts",
			Usage:       "Path to a TOML prompt catalog (default: built-in catalog)",
			Category:    "Prompts",
			Sources:     cli.EnvVars("DOUBLEBLIND_PROMPTS"),
			Destination: &x.path,
		},
	}
}

// Configure loads the configured catalog, or the built-in one when no path is set
func (x *Prompts) Configure() (*PromptCatalog, error) {
	if x.path == "" {
		return DefaultPromptCatalog(), nil
	}
	return LoadPromptCatalog(x.path)
}

// LoadPromptCatalog reads a catalog file
func LoadPromptCatalog(path string) (*PromptCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "prompt catalog not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read prompt catalog", goerr.V(ConfigPathKey, path))
	}

	catalog, err := ParsePromptCatalog(data)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid prompt catalog", goerr.V(ConfigPathKey, path))
	}
	return catalog, nil
}
