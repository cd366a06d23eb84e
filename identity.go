package accounts

import (
	"time"

	"github.com/google/uuid"
)

// IdentityInput carries the caller-supplied profile fields for a new
// identity. Construction through NewIdentity is the only path into a valid
// Identity value.
type IdentityInput struct {
	Role      Role       `json:"role"`
	Status    Status     `json:"status"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Gender    string     `json:"gender"`
	Birthday  *time.Time `json:"birthday"`
	Phone     string     `json:"phone_number"`
	Address   string     `json:"address"`
	Locale    string     `json:"locale"`
	Currency  string     `json:"currency"`
}

// NewIdentity validates every field of the input and returns the entity, or
// the first violation as a coded error. Normalization (email trim/lowercase)
// happens before format and length checks. No I/O is performed here.
func NewIdentity(in IdentityInput) (*Identity, error) {
	in.Email = NormalizeEmail(in.Email)

	if err := checkRequired("first name", in.FirstName); err != nil {
		return nil, err
	}
	if err := checkLength("first name", in.FirstName, 1, 100); err != nil {
		return nil, err
	}
	if err := checkLength("last name", in.LastName, 1, 100); err != nil {
		return nil, err
	}
	if err := checkEmail("email", in.Email); err != nil {
		return nil, err
	}
	if err := checkEnum("gender", in.Gender, GenderMale, GenderFemale, GenderOther); err != nil {
		return nil, err
	}
	if err := checkBirthday("birthday", in.Birthday, time.Now()); err != nil {
		return nil, err
	}
	if err := checkPhone("phone", in.Phone); err != nil {
		return nil, err
	}
	if err := checkLength("address", in.Address, 1, 255); err != nil {
		return nil, err
	}
	if err := checkLength("locale", in.Locale, 2, 16); err != nil {
		return nil, err
	}
	if err := checkCurrency("currency", in.Currency); err != nil {
		return nil, err
	}
	if in.Role != "" && !IsValidRole(in.Role) {
		return nil, ErrParamEnum("role", RoleUser, RoleClient, RoleManager, RoleAdmin)
	}
	if err := checkEnum("status", in.Status, StatusUnverified, StatusActive, StatusArchived); err != nil {
		return nil, err
	}

	identity := &Identity{
		Role:      in.Role,
		Status:    in.Status,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Gender:    in.Gender,
		Birthday:  in.Birthday,
		Phone:     in.Phone,
		Address:   in.Address,
		Locale:    in.Locale,
		Currency:  in.Currency,
	}

	if identity.Role == "" {
		identity.Role = RoleUser
	}
	identity.EnsureStatus()

	return identity, nil
}

// IdentityPatch is the narrow mutation entity for partial updates. Only
// non-nil fields are validated and applied; unset fields never overwrite
// existing values.
type IdentityPatch struct {
	FirstName  *string    `json:"first_name,omitempty"`
	LastName   *string    `json:"last_name,omitempty"`
	Gender     *string    `json:"gender,omitempty"`
	Birthday   *time.Time `json:"birthday,omitempty"`
	Phone      *string    `json:"phone_number,omitempty"`
	Address    *string    `json:"address,omitempty"`
	Locale     *string    `json:"locale,omitempty"`
	Currency   *string    `json:"currency,omitempty"`
	AvatarPath *string    `json:"avatar_path,omitempty"`
}

// Validate runs the field rules for every set field.
func (p IdentityPatch) Validate() error {
	if p.FirstName != nil {
		if err := checkRequired("first name", *p.FirstName); err != nil {
			return err
		}
		if err := checkLength("first name", *p.FirstName, 1, 100); err != nil {
			return err
		}
	}
	if p.LastName != nil {
		if err := checkLength("last name", *p.LastName, 1, 100); err != nil {
			return err
		}
	}
	if p.Gender != nil {
		if err := checkEnum("gender", *p.Gender, GenderMale, GenderFemale, GenderOther); err != nil {
			return err
		}
	}
	if err := checkBirthday("birthday", p.Birthday, time.Now()); err != nil {
		return err
	}
	if p.Phone != nil {
		if err := checkPhone("phone", *p.Phone); err != nil {
			return err
		}
	}
	if p.Address != nil {
		if err := checkLength("address", *p.Address, 1, 255); err != nil {
			return err
		}
	}
	if p.Locale != nil {
		if err := checkLength("locale", *p.Locale, 2, 16); err != nil {
			return err
		}
	}
	if p.Currency != nil {
		if err := checkCurrency("currency", *p.Currency); err != nil {
			return err
		}
	}
	return nil
}

// Record validates the patch and materializes it as a sparse Identity row
// for an update-by-id write, skipping zero values.
func (p IdentityPatch) Record(id uuid.UUID) (*Identity, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	record := &Identity{ID: id}
	if p.FirstName != nil {
		record.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		record.LastName = *p.LastName
	}
	if p.Gender != nil {
		record.Gender = *p.Gender
	}
	if p.Birthday != nil {
		record.Birthday = p.Birthday
	}
	if p.Phone != nil {
		record.Phone = *p.Phone
	}
	if p.Address != nil {
		record.Address = *p.Address
	}
	if p.Locale != nil {
		record.Locale = *p.Locale
	}
	if p.Currency != nil {
		record.Currency = *p.Currency
	}
	if p.AvatarPath != nil {
		record.AvatarPath = *p.AvatarPath
	}
	return record, nil
}
