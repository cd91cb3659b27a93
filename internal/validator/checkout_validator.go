package validator

import (
	"errors"
	"regexp"
	"strings"

	"mvee-store/internal/usecase"
)

var (
	ErrNameRequired    = errors.New("name is required")
	ErrPhoneRequired   = errors.New("phone is required")
	ErrPhoneInvalid    = errors.New("phone must be 7 to 15 digits")
	ErrAddressRequired = errors.New("address is required")
	ErrAddressTooShort = errors.New("address must be at least 10 characters")
	ErrNotesTooLong    = errors.New("notes must be 500 characters or less")
)

// 区切り文字を除いた後に数字7〜15桁
var phoneRe = regexp.MustCompile(`^[0-9]{7,15}$`)

// 電話番号の区切りとして許す文字
var phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "+", "")

type checkoutValidator struct{}

func NewCheckoutValidator() usecase.CheckoutValidator {
	return &checkoutValidator{}
}

func (v *checkoutValidator) Validate(in usecase.CheckoutInput) error {
	name := strings.TrimSpace(in.CustomerName)
	if name == "" {
		return ErrNameRequired
	}

	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		return ErrPhoneRequired
	}
	if !phoneRe.MatchString(phoneSeparators.Replace(phone)) {
		return ErrPhoneInvalid
	}

	address := strings.TrimSpace(in.Address)
	if address == "" {
		return ErrAddressRequired
	}
	if len([]rune(address)) < 10 {
		return ErrAddressTooShort
	}

	if len([]rune(strings.TrimSpace(in.Notes))) > 500 {
		return ErrNotesTooLong
	}

	return nil
}
