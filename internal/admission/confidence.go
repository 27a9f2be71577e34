package admission

import (
	"fmt"
	"strings"

	"admission-workers/internal/models"
)

// GradeConfidenceMin is the lowest extractor confidence at which a grade is
// taken as read.
const GradeConfidenceMin = 99

// MissingUnreadableDeclarationError means the extractor scored a subject
// below GradeConfidenceMin but did not list it as unreadable.
type MissingUnreadableDeclarationError struct {
	Subjects []string
}

func (e *MissingUnreadableDeclarationError) Error() string {
	return fmt.Sprintf("subjects below confidence %d not declared unreadable: %s",
		GradeConfidenceMin, strings.Join(e.Subjects, ", "))
}

func (e *MissingUnreadableDeclarationError) Issue() Issue {
	return Issue{
		Kind:    KindMissingUnreadableDeclaration,
		Message: fmt.Sprintf("Unable to read grades for: %s. Please upload a clearer image.", strings.Join(e.Subjects, ", ")),
		Fields:  append([]string(nil), e.Subjects...),
	}
}

// LowConfidenceSubjects lists subjects scored below GradeConfidenceMin in
// document order.
func LowConfidenceSubjects(subjects []models.Subject) []string {
	var names []string
	for _, s := range subjects {
		if s.Confidence < GradeConfidenceMin {
			names = append(names, s.Name)
		}
	}
	return names
}

// ReconcileConfidence checks that every low-confidence subject appears in
// unreadable. It never fills the list in.
func ReconcileConfidence(subjects []models.Subject, unreadable []string) error {
	declared := make(map[string]struct{}, len(unreadable))
	for _, name := range unreadable {
		declared[subjectKey(name)] = struct{}{}
	}

	var missing []string
	for _, name := range LowConfidenceSubjects(subjects) {
		if _, ok := declared[subjectKey(name)]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &MissingUnreadableDeclarationError{Subjects: missing}
	}
	return nil
}

func subjectKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
