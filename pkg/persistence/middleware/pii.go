package middleware

import (
	"context"
	"regexp"

	"github.com/marcosfrias28/brymar-sub012/pkg/domain"
	"github.com/marcosfrias28/brymar-sub012/pkg/ports"
)

type piiMiddleware struct {
	next     ports.DraftStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks form values whose key
// matches one of the patterns before the draft is persisted. Masking is
// one-way: loaded drafts keep the mask.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.DraftStore) ports.DraftStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, draft *domain.Draft) error {
	// Clone first; the engine keeps using its in-memory copy unmasked.
	cloned := *draft
	cloned.FormData = deepCopyMap(draft.FormData)
	maskMap(cloned.FormData, m.patterns)

	return m.next.Save(ctx, &cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, draftID string) (*domain.Draft, error) {
	return m.next.Load(ctx, draftID)
}

func (m *piiMiddleware) Delete(ctx context.Context, draftID string) error {
	return m.next.Delete(ctx, draftID)
}

func (m *piiMiddleware) List(ctx context.Context, kind domain.Kind, userID string) ([]string, error) {
	return m.next.List(ctx, kind, userID)
}

// Helpers

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if subMap, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(subMap)
		} else {
			out[k] = v
		}
	}
	return out
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = "***"
				break
			}
		}

		if subMap, ok := v.(map[string]any); ok {
			maskMap(subMap, patterns)
		}
	}
}
