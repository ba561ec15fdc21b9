package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/notelab/braindump/pkg/domain/types"
	"github.com/notelab/braindump/pkg/service/classifier"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Vocabulary holds the optional TOML file that overrides the built-in
// category and domain descriptions used to steer classification.
type Vocabulary struct {
	path string
}

// vocabularyFile is the TOML layout of a vocabulary override file
type vocabularyFile struct {
	Categories []vocabularyTerm `toml:"category"`
	Domains    []vocabularyTerm `toml:"domain"`
}

type vocabularyTerm struct {
	ID          string `toml:"id"`
	Description string `toml:"description"`
}

func (x *Vocabulary) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "vocabulary",
			Category:    "llm",
			Usage:       "TOML file overriding category/domain descriptions for classification",
			Sources:     cli.EnvVars("BRAINDUMP_VOCABULARY"),
			Destination: &x.path,
		},
	}
}

// Configure loads and validates the vocabulary file. Without a path it
// returns an empty vocabulary, which keeps the built-in descriptions.
func (x *Vocabulary) Configure() (*classifier.Vocabulary, error) {
	vocab := &classifier.Vocabulary{
		Categories: make(map[types.Category]string),
		Domains:    make(map[types.Domain]string),
	}
	if x.path == "" {
		return vocab, nil
	}

	data, err := os.ReadFile(x.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrVocabularyNotFound, "vocabulary file does not exist", goerr.V("path", x.path))
		}
		return nil, goerr.Wrap(err, "failed to read vocabulary file", goerr.V("path", x.path))
	}

	var file vocabularyFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, goerr.Wrap(err, "failed to parse vocabulary file", goerr.V("path", x.path))
	}

	for _, term := range file.Categories {
		c := types.Category(term.ID)
		if !c.IsValid() {
			return nil, goerr.Wrap(ErrUnknownCategory, "vocabulary lists a category outside the fixed set",
				goerr.V("path", x.path), goerr.V("category", term.ID))
		}
		if term.Description == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "category description is required",
				goerr.V("path", x.path), goerr.V("category", term.ID))
		}
		vocab.Categories[c] = term.Description
	}

	for _, term := range file.Domains {
		d := types.Domain(term.ID)
		if !d.IsValid() {
			return nil, goerr.Wrap(ErrUnknownDomain, "vocabulary lists a domain outside the fixed set",
				goerr.V("path", x.path), goerr.V("domain", term.ID))
		}
		if term.Description == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "domain description is required",
				goerr.V("path", x.path), goerr.V("domain", term.ID))
		}
		vocab.Domains[d] = term.Description
	}

	return vocab, nil
}
