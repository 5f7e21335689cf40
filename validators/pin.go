package validators

import "errors"

var ErrPinInvalid = errors.New("PIN must be 4 digits")

func PinValidator(pin int) error {
	if pin < 1000 || pin > 9999 {
		return ErrPinInvalid
	}

	return nil
}
