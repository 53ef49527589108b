package service

import (
	"context"

	"property-resolver/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockAssessmentSource is a mock implementation of AssessmentSource
type MockAssessmentSource struct {
	mock.Mock
	name string
	kind models.SourceKind
}

func newAssessmentSource(name string, kind models.SourceKind) *MockAssessmentSource {
	return &MockAssessmentSource{name: name, kind: kind}
}

func (m *MockAssessmentSource) Name() string            { return m.name }
func (m *MockAssessmentSource) Kind() models.SourceKind { return m.kind }

// Lookup implements AssessmentSource.
func (m *MockAssessmentSource) Lookup(ctx context.Context, address, city string) (*models.RawRecord, error) {
	args := m.Called(ctx, address, city)
	rec, _ := args.Get(0).(*models.RawRecord)
	return rec, args.Error(1)
}

// MockComparablesSource is a mock implementation of ComparablesSource
type MockComparablesSource struct {
	mock.Mock
	name string
}

func newComparablesSource(name string) *MockComparablesSource {
	return &MockComparablesSource{name: name}
}

func (m *MockComparablesSource) Name() string { return m.name }

// Comparables implements ComparablesSource.
func (m *MockComparablesSource) Comparables(ctx context.Context, city string, limit int) ([]models.RawComparable, error) {
	args := m.Called(ctx, city, limit)
	comps, _ := args.Get(0).([]models.RawComparable)
	return comps, args.Error(1)
}

// waitForDeadline blocks a mocked call until its context expires.
func waitForDeadline(args mock.Arguments) {
	ctx := args.Get(0).(context.Context)
	<-ctx.Done()
}
