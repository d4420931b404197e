package checkout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fjod/go_pizza/internal/domain"
	"github.com/go-playground/validator/v10"
)

var (
	ErrAddressRequired       = errors.New("delivery address is required")
	ErrScheduledTimeRequired = errors.New("delivery time is required for scheduled orders")
	ErrInvalidScheduledTime  = errors.New("scheduled time must be HH:MM")
	ErrInvalidDetails        = errors.New("invalid delivery details")
)

const scheduledTimeLayout = "15:04"

var validate = validator.New()

// Normalize trims free-text fields and fills in the form defaults: delivery
// as soon as possible, payment by card.
func Normalize(d domain.DeliveryDetails) domain.DeliveryDetails {
	d.Address = strings.TrimSpace(d.Address)
	d.Apartment = strings.TrimSpace(d.Apartment)
	d.Entrance = strings.TrimSpace(d.Entrance)
	d.Floor = strings.TrimSpace(d.Floor)
	d.ScheduledTime = strings.TrimSpace(d.ScheduledTime)
	d.Comment = strings.TrimSpace(d.Comment)
	if d.DeliveryTime == "" {
		d.DeliveryTime = domain.DeliveryASAP
	}
	if d.PaymentMethod == "" {
		d.PaymentMethod = domain.PaymentCard
	}
	if d.DeliveryTime == domain.DeliveryASAP {
		d.ScheduledTime = ""
	}
	return d
}

// Validate checks already normalized details.
func Validate(d domain.DeliveryDetails) error {
	err := validate.Struct(d)
	if err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalidDetails, err)
		}
		for _, fe := range verrs {
			switch fe.Field() {
			case "Address":
				return ErrAddressRequired
			case "ScheduledTime":
				return ErrScheduledTimeRequired
			}
		}
		return fmt.Errorf("%w: %s", ErrInvalidDetails, verrs[0].Field())
	}
	if d.DeliveryTime == domain.DeliveryScheduled {
		if _, err := time.Parse(scheduledTimeLayout, d.ScheduledTime); err != nil {
			return ErrInvalidScheduledTime
		}
	}
	return nil
}

// Prepare normalizes and validates in one step.
func Prepare(d domain.DeliveryDetails) (domain.DeliveryDetails, error) {
	d = Normalize(d)
	if err := Validate(d); err != nil {
		return domain.DeliveryDetails{}, err
	}
	return d, nil
}
