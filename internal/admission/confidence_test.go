package admission

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admission-workers/internal/models"
)

func TestLowConfidenceSubjects(t *testing.T) {
	subjects := []models.Subject{
		{Name: "English", Grade: "B", Confidence: 100},
		{Name: "Mathematics", Grade: "C", Confidence: 98},
		{Name: "Science", Grade: "A", Confidence: 99},
		{Name: "Sesotho", Grade: "D", Confidence: 40},
	}

	assert.Equal(t, []string{"Mathematics", "Sesotho"}, LowConfidenceSubjects(subjects))
	assert.Empty(t, LowConfidenceSubjects(subjects[:1]))
}

func TestReconcileConfidence(t *testing.T) {
	subjects := []models.Subject{
		{Name: "English", Grade: "B", Confidence: 100},
		{Name: "Mathematics", Grade: "C", Confidence: 70},
		{Name: "Geography", Grade: "C", Confidence: 60},
	}

	tests := []struct {
		name       string
		unreadable []string
		missing    []string
	}{
		{
			name:       "all low subjects declared",
			unreadable: []string{"Mathematics", "Geography"},
		},
		{
			name:       "declaration is case and space insensitive",
			unreadable: []string{" mathematics", "GEOGRAPHY"},
		},
		{
			name:       "nothing declared",
			unreadable: nil,
			missing:    []string{"Mathematics", "Geography"},
		},
		{
			name:       "one undeclared",
			unreadable: []string{"Mathematics"},
			missing:    []string{"Geography"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ReconcileConfidence(subjects, tt.unreadable)
			if tt.missing == nil {
				assert.NoError(t, err)
				return
			}

			var decl *MissingUnreadableDeclarationError
			require.True(t, errors.As(err, &decl))
			assert.Equal(t, tt.missing, decl.Subjects)

			issue := decl.Issue()
			assert.Equal(t, KindMissingUnreadableDeclaration, issue.Kind)
			assert.Equal(t, tt.missing, issue.Fields)
			assert.Contains(t, issue.Message, "Please upload a clearer image.")
		})
	}
}

func TestReconcileConfidence_DoesNotPopulateDeclaration(t *testing.T) {
	subjects := []models.Subject{{Name: "Mathematics", Grade: "C", Confidence: 50}}
	var unreadable []string

	err := ReconcileConfidence(subjects, unreadable)

	assert.Error(t, err)
	assert.Nil(t, unreadable)
}
