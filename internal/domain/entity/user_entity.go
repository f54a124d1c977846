package entity

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oksasatya/task-manager-api/internal/domain/apperr"
)

// User is the aggregate root for the user domain
// Password holds a bcrypt hash once the user has been persisted.
type User struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Age         int
	Password    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var (
	nameRe  = regexp.MustCompile(`^[A-Za-z\s-]+$`)
	emailRe = regexp.MustCompile(`^[\w-]+(\.[\w-]+)*@([\w-]+\.)+[a-zA-Z]{2,7}$`)
	phoneRe = regexp.MustCompile(`^\+32\s\d{3}\s\d{2}\s\d{2}\s\d{2}$`)
)

// Normalize applies the trimming and lowercasing the store schema used to do
// as pre-save mutation. Call before Validate.
func (u *User) Normalize() {
	u.FirstName = strings.TrimSpace(u.FirstName)
	u.LastName = strings.TrimSpace(u.LastName)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Password = strings.TrimSpace(u.Password)
}

// Validate checks every field rule and reports the first violated one.
// Password is expected to still be plaintext here.
func (u *User) Validate() error {
	if err := validateName("First name", u.FirstName); err != nil {
		return err
	}
	if err := validateName("Last name", u.LastName); err != nil {
		return err
	}
	if err := validateEmail(u.Email); err != nil {
		return err
	}
	if err := validatePhoneNumber(u.PhoneNumber); err != nil {
		return err
	}
	if err := validateAge(u.Age); err != nil {
		return err
	}
	return validatePlainPassword(u.Password)
}

func validateName(field, v string) error {
	if v == "" {
		return apperr.Validation(field + " is required")
	}
	if utf8.RuneCountInString(v) < 2 {
		return apperr.Validation(field + " must be at least 2 characters")
	}
	if !nameRe.MatchString(v) {
		return apperr.Validation(field + " can only contain letters, spaces and hyphens")
	}
	return nil
}

func validateEmail(v string) error {
	if v == "" {
		return apperr.Validation("Email is required")
	}
	if !emailRe.MatchString(v) {
		return apperr.Validation("Please enter a valid email address")
	}
	return nil
}

func validatePhoneNumber(v string) error {
	if v == "" {
		return apperr.Validation("Phone number is required")
	}
	if !phoneRe.MatchString(v) {
		return apperr.Validation("Phone number must be in format: +32 XXX XX XX XX")
	}
	return nil
}

func validateAge(v int) error {
	if v < 0 {
		return apperr.Validation("Age must be a positive number")
	}
	if v > 120 {
		return apperr.Validation("Age cannot be more than 120 years")
	}
	return nil
}

func validatePlainPassword(v string) error {
	if v == "" {
		return apperr.Validation("Password is required")
	}
	if len(v) < 6 {
		return apperr.Validation("Password must be at least 6 characters")
	}
	return nil
}

// UserPatch carries a partial update; nil fields are left untouched.
// A non-nil Password means the caller supplied a new plaintext password and a
// rehash is due, regardless of whether it equals the old one.
type UserPatch struct {
	FirstName   *string
	LastName    *string
	Email       *string
	PhoneNumber *string
	Age         *int
	Password    *string
}

// Normalize trims present fields the same way User.Normalize does.
func (p *UserPatch) Normalize() {
	if p.FirstName != nil {
		*p.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		*p.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.Email != nil {
		*p.Email = strings.ToLower(strings.TrimSpace(*p.Email))
	}
	if p.Password != nil {
		*p.Password = strings.TrimSpace(*p.Password)
	}
}

// Validate re-checks the rules for each field present in the patch.
func (p *UserPatch) Validate() error {
	if p.FirstName != nil {
		if err := validateName("First name", *p.FirstName); err != nil {
			return err
		}
	}
	if p.LastName != nil {
		if err := validateName("Last name", *p.LastName); err != nil {
			return err
		}
	}
	if p.Email != nil {
		if err := validateEmail(*p.Email); err != nil {
			return err
		}
	}
	if p.PhoneNumber != nil {
		if err := validatePhoneNumber(*p.PhoneNumber); err != nil {
			return err
		}
	}
	if p.Age != nil {
		if err := validateAge(*p.Age); err != nil {
			return err
		}
	}
	if p.Password != nil {
		if err := validatePlainPassword(*p.Password); err != nil {
			return err
		}
	}
	return nil
}

// Empty reports whether the patch changes nothing.
func (p *UserPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil &&
		p.PhoneNumber == nil && p.Age == nil && p.Password == nil
}
