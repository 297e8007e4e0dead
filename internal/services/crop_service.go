package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"agrostats/pkg/contracts/domain"
)

// MinCropSimilarity is the Jaro-Winkler score a fuzzy crop match must reach.
const MinCropSimilarity = 0.85

// CropMatch is a resolved crop search.
type CropMatch struct {
	Crop       domain.Crop `json:"crop"`
	Similarity float64     `json:"similarity"`
	Exact      bool        `json:"exact"`
}

// CropService serves the fixed crop list.
type CropService struct {
	crops  []domain.Crop
	folded []cropKeys
	logger *slog.Logger
}

type cropKeys struct {
	name string
	base string
}

// NewCropService creates a crop service over crops.
func NewCropService(crops []domain.Crop, logger *slog.Logger) *CropService {
	s := &CropService{
		crops:  append([]domain.Crop(nil), crops...),
		folded: make([]cropKeys, len(crops)),
		logger: logger.With(slog.String("service", "crop")),
	}
	for i, c := range crops {
		s.folded[i] = cropKeys{name: foldName(c.Name), base: foldName(baseName(c.Name))}
	}
	return s
}

// List returns the crops in declaration order.
func (s *CropService) List() []domain.Crop {
	return append([]domain.Crop(nil), s.crops...)
}

// Names returns the crops keyed by code.
func (s *CropService) Names() map[string]string {
	out := make(map[string]string, len(s.crops))
	for _, c := range s.crops {
		out[c.Code] = c.Name
	}
	return out
}

// Get looks a crop up by code.
func (s *CropService) Get(code string) (domain.Crop, error) {
	for _, c := range s.crops {
		if c.Code == code {
			return c, nil
		}
	}
	return domain.Crop{}, fmt.Errorf("%w: %s", ErrCropNotFound, code)
}

// Search resolves free text to a crop. Codes and names are matched exactly
// ignoring case and accents, with or without the parenthesised qualifier
// ("milho" finds "Milho (em grão)"). Otherwise the closest name wins if its
// Jaro-Winkler similarity is at least MinCropSimilarity.
func (s *CropService) Search(ctx context.Context, query string) (CropMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return CropMatch{}, fmt.Errorf("%w: empty crop query", ErrInvalidInput)
	}

	if c, err := s.Get(query); err == nil {
		return CropMatch{Crop: c, Similarity: 1, Exact: true}, nil
	}

	q := foldName(query)
	best, bestScore := -1, 0.0
	for i, keys := range s.folded {
		if q == keys.name || q == keys.base {
			return CropMatch{Crop: s.crops[i], Similarity: 1, Exact: true}, nil
		}
		for _, candidate := range []string{keys.base, keys.name} {
			if score := matchr.JaroWinkler(q, candidate, false); score > bestScore {
				best, bestScore = i, score
			}
		}
	}

	if best < 0 || bestScore < MinCropSimilarity {
		s.logger.DebugContext(ctx, "crop search missed",
			slog.String("query", query),
			slog.Float64("best_score", bestScore))
		return CropMatch{}, fmt.Errorf("%w: %q", ErrCropNotFound, query)
	}

	return CropMatch{Crop: s.crops[best], Similarity: bestScore}, nil
}

// foldName lowercases s and strips accents and surrounding space.
func foldName(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	folded, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		folded = s
	}
	return cases.Lower(language.Und).String(folded)
}

// baseName drops a trailing parenthesised qualifier.
func baseName(name string) string {
	if i := strings.Index(name, "("); i > 0 {
		return strings.TrimSpace(name[:i])
	}
	return name
}
