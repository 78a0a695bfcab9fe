package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/lorrc/ventsite/internal/core/errors"
)

const (
	MaxServiceNameLength = 255
	MaxWorkTitleLength   = 255
)

// Service is one entry of the public services catalog. Description holds
// a JSON array of bullet points as stored by the content editors.
type Service struct {
	ID          int64
	Name        string
	Description string
	Image       string
	CreatedAt   time.Time
}

// DescriptionItems decodes the bullet list. Text that is not a JSON array
// of strings is returned as a single item; empty text yields no items.
func (s *Service) DescriptionItems() []string {
	raw := strings.TrimSpace(s.Description)
	if raw == "" {
		return []string{}
	}

	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []string{s.Description}
	}
	if items == nil {
		return []string{}
	}
	return items
}

// Validate checks the fields an editor must provide.
func (s *Service) Validate() error {
	errs := apperrors.NewValidationErrors()
	if strings.TrimSpace(s.Name) == "" {
		errs.Add("name", "Service name is required")
	} else if len(s.Name) > MaxServiceNameLength {
		errs.Add("name", "Service name must be 255 characters or less")
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}

// Work is a completed installation shown in the portfolio.
type Work struct {
	ID          int64
	Title       string
	Images      []string
	Square      string
	Quantity    string
	Time        string
	SuccessWork []string
	CreatedAt   time.Time
}

// Slug is the public path segment for the work: the transliterated title
// followed by the numeric id.
func (w *Work) Slug() string {
	base := Slugify(w.Title)
	id := strconv.FormatInt(w.ID, 10)
	if base == "" {
		return id
	}
	return base + "-" + id
}

func (w *Work) Validate() error {
	if strings.TrimSpace(w.Title) == "" {
		return apperrors.ErrTitleRequired
	}
	if len(w.Title) > MaxWorkTitleLength {
		errs := apperrors.NewValidationErrors()
		errs.Add("title", "Title must be 255 characters or less")
		return errs
	}
	return nil
}

// WorkIDFromSlug extracts the id from the last "-" separated segment.
func WorkIDFromSlug(slug string) (int64, error) {
	segment := slug
	if i := strings.LastIndex(slug, "-"); i >= 0 {
		segment = slug[i+1:]
	}
	id, err := strconv.ParseInt(segment, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ErrWorkNotFound
	}
	return id, nil
}

var cyrillicToLatin = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e",
	'ж': "zh", 'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m",
	'н': "n", 'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u",
	'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch", 'ш': "sh", 'щ': "shch",
	'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu", 'я': "ya",
}

// Slugify lowercases, transliterates Cyrillic and joins words with "-".
func Slugify(title string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(title) {
		var part string
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			part = string(r)
		default:
			latin, ok := cyrillicToLatin[r]
			if !ok {
				pendingDash = b.Len() > 0
				continue
			}
			part = latin
		}
		if part == "" {
			continue
		}
		if pendingDash {
			b.WriteByte('-')
			pendingDash = false
		}
		b.WriteString(part)
	}
	return b.String()
}
