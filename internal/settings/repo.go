package settings

import "context"

// Repo persists the single settings document. Current returns the stored
// document, creating the default one when the collection is empty.
type Repo interface {
	Current(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, s *Settings) error
}

// RepoProvider adapts a Repo into the Provider capability consumed by the
// order handler. Every call reads the document again so a tax change is
// visible to the very next order mutation.
type RepoProvider struct {
	repo Repo
}

func NewRepoProvider(repo Repo) *RepoProvider {
	return &RepoProvider{repo: repo}
}

func (p *RepoProvider) TaxSettings(ctx context.Context) (TaxSettings, error) {
	s, err := p.repo.Current(ctx)
	if err != nil {
		return TaxSettings{}, err
	}
	return s.Tax(), nil
}
