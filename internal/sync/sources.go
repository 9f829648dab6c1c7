package sync

import (
	"fmt"
	"net/http"

	"github.com/nhle/notify/internal/credential"
	"github.com/nhle/notify/internal/model"
	"github.com/nhle/notify/internal/source"
	"github.com/nhle/notify/internal/source/email"
	"github.com/nhle/notify/internal/source/page"
)

// CredentialFunc looks up a secret by key.
type CredentialFunc func(key string) (string, error)

// Registration pairs a producer with the configuration it was built from.
type Registration struct {
	Producer source.Producer
	Config   model.SourceConfig
}

func credentialKey(sourceID string) string {
	return credential.PasswordKey(sourceID)
}

// BuildProducers creates a producer for every enabled source. Sources
// that cannot be built are skipped and reported in the returned errors.
// A nil lookup reads from the environment and the system keyring.
func BuildProducers(sources []model.SourceConfig, lookup CredentialFunc, client *http.Client) ([]Registration, []error) {
	if lookup == nil {
		lookup = credential.Lookup
	}

	var (
		regs []Registration
		errs []error
	)
	for _, src := range sources {
		if !src.Enabled {
			continue
		}
		prod, err := buildProducer(src, lookup, client)
		if err != nil {
			errs = append(errs, fmt.Errorf("skipping source %q: %w", src.ID, err))
			continue
		}
		regs = append(regs, Registration{Producer: prod, Config: src})
	}
	return regs, errs
}

func buildProducer(src model.SourceConfig, lookup CredentialFunc, client *http.Client) (source.Producer, error) {
	switch src.Type {
	case model.SourceTypePage:
		var password string
		if source.Options(src.Config).String("username", "") != "" {
			pw, err := lookup(credentialKey(src.ID))
			if err != nil {
				return nil, fmt.Errorf("credential not found: %w", err)
			}
			password = pw
		}
		return page.NewProducer(src.ID, page.ConfigFromSource(src, password), client)

	case model.SourceTypeEmail:
		pw, err := lookup(credentialKey(src.ID))
		if err != nil {
			return nil, fmt.Errorf("credential not found: %w", err)
		}
		cfg, err := email.ConfigFromSource(src, pw)
		if err != nil {
			return nil, err
		}
		return email.NewProducer(src.ID, cfg), nil

	default:
		return nil, fmt.Errorf("unknown source type %q", src.Type)
	}
}
