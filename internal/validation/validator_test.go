package validation

import (
	"testing"
	"time"

	"github.com/Abdurahmanit/GroupProject/bookreview-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string   `json:"name" validate:"required,min=2,max=50"`
	Email   string   `json:"email" validate:"required,email"`
	Year    int      `json:"publicationYear" validate:"omitempty,min=1000,notfutureyear"`
	Content string   `json:"content" validate:"required,trimmin=10"`
	Genre   []string `json:"genre" validate:"required,min=1"`
	Bio     *string  `json:"bio" validate:"omitnil,max=5"`
}

func valid() sample {
	return sample{
		Name:    "Jane",
		Email:   "jane@example.com",
		Year:    1999,
		Content: "long enough text",
		Genre:   []string{"Fiction"},
	}
}

func TestStructValid(t *testing.T) {
	s := valid()
	assert.NoError(t, Struct(&s))
}

func TestStructFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *sample)
		field   string
		message string
	}{
		{"short name", func(s *sample) { s.Name = "J" }, "name", "name must be at least 2 characters"},
		{"bad email", func(s *sample) { s.Email = "nope" }, "email", "Please provide a valid email"},
		{"future year", func(s *sample) { s.Year = time.Now().Year() + 1 }, "publicationYear", "publicationYear cannot be in the future"},
		{"padded short content", func(s *sample) { s.Content = "   short    " }, "content", "content must be at least 10 characters"},
		{"empty genre", func(s *sample) { s.Genre = []string{} }, "genre", "genre must contain at least 1 item(s)"},
		{"long bio", func(s *sample) { b := "toolong"; s.Bio = &b }, "bio", "bio cannot be more than 5 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			err := Struct(&s)
			require.Error(t, err)
			de := domain.AsError(err)
			assert.Equal(t, domain.KindValidation, de.Kind)
			assert.Equal(t, tt.message, de.Message)
			assert.Equal(t, tt.message, de.Details[tt.field])
		})
	}
}
