package services

import (
	"encoding/binary"
	"encoding/hex"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

type AnonymityLevel string

const (
	FullyAnonymous    AnonymityLevel = "fully_anonymous"
	RoleVisible       AnonymityLevel = "role_visible"
	DepartmentVisible AnonymityLevel = "department_visible"
)

// ParseAnonymityLevel normalizes s into a known level.
func ParseAnonymityLevel(s string) (AnonymityLevel, error) {
	lvl := AnonymityLevel(strings.ToLower(strings.TrimSpace(s)))
	if !lvl.Valid() {
		return "", ErrUnknownPolicyLevel
	}
	return lvl, nil
}

func (l AnonymityLevel) Valid() bool {
	switch l {
	case FullyAnonymous, RoleVisible, DepartmentVisible:
		return true
	}
	return false
}

// RawReviewerMetadata is what the caller knows about a reviewer at submission
// time. It is never stored; ProjectMetadata reduces it to what the policy allows.
type RawReviewerMetadata struct {
	Name                   string `json:"name,omitempty"`
	Email                  string `json:"email,omitempty"`
	Role                   string `json:"role,omitempty"`
	Department             string `json:"department,omitempty"`
	Tenure                 string `json:"tenure,omitempty"`
	WorkRelationship       string `json:"work_relationship,omitempty"`
	CollaborationFrequency string `json:"collaboration_frequency,omitempty"`
}

// ReviewerMetadata holds the reviewer fields a policy level permits.
// Role is only populated at role_visible and above, Department only at
// department_visible; read them through RoleVisible and DepartmentVisible.
type ReviewerMetadata struct {
	Level                  AnonymityLevel `json:"level,omitempty"`
	WorkRelationship       string         `json:"work_relationship,omitempty"`
	CollaborationFrequency string         `json:"collaboration_frequency,omitempty"`
	Role                   string         `json:"role,omitempty"`
	Department             string         `json:"department,omitempty"`
}

func (m ReviewerMetadata) RoleVisible() (string, bool) {
	if m.Level != RoleVisible && m.Level != DepartmentVisible {
		return "", false
	}
	return m.Role, m.Role != ""
}

func (m ReviewerMetadata) DepartmentVisible() (string, bool) {
	if m.Level != DepartmentVisible {
		return "", false
	}
	return m.Department, m.Department != ""
}

// Empty reports whether no field survived projection.
func (m ReviewerMetadata) Empty() bool {
	return m.WorkRelationship == "" && m.CollaborationFrequency == "" && m.Role == "" && m.Department == ""
}

// ProjectMetadata keeps only the fields level permits. An unknown level gets
// the fully_anonymous field set.
func ProjectMetadata(level AnonymityLevel, raw RawReviewerMetadata) ReviewerMetadata {
	if !level.Valid() {
		level = FullyAnonymous
	}
	out := ReviewerMetadata{
		Level:                  level,
		WorkRelationship:       raw.WorkRelationship,
		CollaborationFrequency: raw.CollaborationFrequency,
	}
	if level == RoleVisible || level == DepartmentVisible {
		out.Role = raw.Role
	}
	if level == DepartmentVisible {
		out.Department = raw.Department
	}
	return out
}

const pseudonymPrefix = "rv_"

// Anonymizer derives reviewer pseudonyms with a server-side key.
type Anonymizer struct {
	key []byte
}

// NewAnonymizer binds the derivation key. Keys longer than blake2b accepts
// are hashed down first.
func NewAnonymizer(key []byte) *Anonymizer {
	k := append([]byte(nil), key...)
	if len(k) > blake2b.Size {
		sum := blake2b.Sum256(k)
		k = sum[:]
	}
	return &Anonymizer{key: k}
}

// DerivePseudonym returns a stable token for one submission event. Without the
// key the token cannot be linked back to reviewerID.
func (a *Anonymizer) DerivePseudonym(reviewerID, requestID string, at time.Time) string {
	h, err := blake2b.New256(a.key)
	if err != nil {
		// unreachable: NewAnonymizer caps the key length
		panic(err)
	}
	for _, part := range []string{reviewerID, requestID, at.UTC().Format(time.RFC3339Nano)} {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(part)))
		h.Write(n[:])
		h.Write([]byte(part))
	}
	sum := h.Sum(nil)
	return pseudonymPrefix + hex.EncodeToString(sum[:16])
}
