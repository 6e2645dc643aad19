package relocate

import (
	"fmt"
	"path/filepath"
)

// Ensure the mocks implement the tool interfaces
var (
	_ Inspector = (*MockInspector)(nil)
	_ Editor    = (*MockEditor)(nil)
	_ Signer    = (*MockSigner)(nil)
)

// MockInspector answers Dependencies from a table keyed by file base name,
// so a copied library reports the same references as its original.
type MockInspector struct {
	References    map[string][]string
	Inspected     []string // tracks every path passed to Dependencies
	ErrorToReturn error
}

// NewMockInspector creates a mock inspector with an empty reference table
func NewMockInspector() *MockInspector {
	return &MockInspector{References: make(map[string][]string)}
}

// Dependencies returns the references registered for path's base name
func (m *MockInspector) Dependencies(path string) ([]string, error) {
	m.Inspected = append(m.Inspected, path)
	if m.ErrorToReturn != nil {
		return nil, m.ErrorToReturn
	}
	return m.References[filepath.Base(path)], nil
}

// Edit is one recorded MockEditor call
type Edit struct {
	ID   bool // true for ChangeID, false for ChangeDependency
	File string
	Old  string
	New  string
}

// MockEditor records load-path edits without touching any file
type MockEditor struct {
	Edits         []Edit
	ErrorToReturn error
}

// ChangeID records an install name change
func (m *MockEditor) ChangeID(file, newID string) (string, error) {
	m.Edits = append(m.Edits, Edit{ID: true, File: file, New: newID})
	return "", m.ErrorToReturn
}

// ChangeDependency records a dependency change
func (m *MockEditor) ChangeDependency(file, oldPath, newPath string) (string, error) {
	m.Edits = append(m.Edits, Edit{File: file, Old: oldPath, New: newPath})
	return "", m.ErrorToReturn
}

// MockSigner records signed and verified paths
type MockSigner struct {
	Signed        []string
	Verified      []string
	ErrorToReturn error
	VerifyError   error // if non-nil, returned by Verify
}

// Sign records path, failing with ErrorToReturn if set
func (m *MockSigner) Sign(path string) (string, error) {
	m.Signed = append(m.Signed, path)
	if m.ErrorToReturn != nil {
		return "", fmt.Errorf("codesign %s: %w", filepath.Base(path), m.ErrorToReturn)
	}
	return "", nil
}

// Verify records path, failing with VerifyError if set
func (m *MockSigner) Verify(path string) (string, error) {
	m.Verified = append(m.Verified, path)
	return "", m.VerifyError
}
