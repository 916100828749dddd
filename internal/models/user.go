package models

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReservedUsername is routed as the "current user" path segment and can
// never be registered as a login.
const ReservedUsername = "me"

var usernameAllowed = regexp.MustCompile(`[\w.@+-]`)

type User struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Email        string    `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName    string    `gorm:"size:150;not null" json:"first_name"`
	LastName     string    `gorm:"size:150;not null" json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Avatar       string    `gorm:"size:255" json:"avatar"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UsernameError reports the characters of a candidate login that fall
// outside the allow-list, deduplicated.
type UsernameError struct {
	Forbidden []string
}

func (e *UsernameError) Error() string {
	return fmt.Sprintf("username contains forbidden characters: %s", strings.Join(e.Forbidden, ""))
}

// ValidateUsername checks a candidate login against the [\w.@+-] allow-list
// and the reserved identifier.
func ValidateUsername(username string) error {
	if username == ReservedUsername {
		return fmt.Errorf("username %q is reserved", ReservedUsername)
	}
	forbidden := usernameAllowed.ReplaceAllString(username, "")
	if forbidden == "" {
		return nil
	}
	seen := make(map[rune]bool, len(forbidden))
	var chars []string
	for _, r := range forbidden {
		if !seen[r] {
			seen[r] = true
			chars = append(chars, string(r))
		}
	}
	sort.Strings(chars)
	return &UsernameError{Forbidden: chars}
}
