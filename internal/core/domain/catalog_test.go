package domain_test

import (
	"testing"

	"github.com/lorrc/ventsite/internal/core/domain"
	apperrors "github.com/lorrc/ventsite/internal/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_DescriptionItems(t *testing.T) {
	tests := []struct {
		name        string
		description string
		expected    []string
	}{
		{"json array", `["Проектирование","Монтаж"]`, []string{"Проектирование", "Монтаж"}},
		{"plain text", "Чистка воздуховодов", []string{"Чистка воздуховодов"}},
		{"empty", "", []string{}},
		{"json null", "null", []string{}},
		{"json object", `{"a":1}`, []string{`{"a":1}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &domain.Service{Description: tt.description}
			assert.Equal(t, tt.expected, s.DescriptionItems())
		})
	}
}

func TestService_Validate(t *testing.T) {
	assert.NoError(t, (&domain.Service{Name: "Монтаж"}).Validate())

	err := (&domain.Service{Name: "  "}).Validate()
	var validationErr *apperrors.ValidationErrors
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Errors, "name")
}

func TestWorkIDFromSlug(t *testing.T) {
	tests := []struct {
		slug    string
		id      int64
		wantErr bool
	}{
		{"montazh-ventilyatsii-42", 42, false},
		{"7", 7, false},
		{"office-0", 0, true},
		{"abc", 0, true},
		{"work-", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			id, err := domain.WorkIDFromSlug(tt.slug)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrWorkNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestWork_Slug(t *testing.T) {
	w := &domain.Work{ID: 42, Title: "Монтаж вентиляции"}
	assert.Equal(t, "montazh-ventilyatsii-42", w.Slug())

	id, err := domain.WorkIDFromSlug(w.Slug())
	require.NoError(t, err)
	assert.Equal(t, w.ID, id)

	assert.Equal(t, "5", (&domain.Work{ID: 5, Title: "!!!"}).Slug())
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "office-bc-2", domain.Slugify("Office  BC #2"))
	assert.Equal(t, "shchit-ventilyatsii", domain.Slugify("Щит вентиляции"))
	assert.Equal(t, "", domain.Slugify("  "))
}

func TestWork_Validate(t *testing.T) {
	assert.NoError(t, (&domain.Work{Title: "Склад"}).Validate())
	assert.ErrorIs(t, (&domain.Work{}).Validate(), apperrors.ErrTitleRequired)
}
