package order

import (
	"strconv"
	"strings"

	"restaurante/internal/model"
	"restaurante/internal/textfold"
)

// DefaultPaymentMethod is used when a key matches nothing.
func DefaultPaymentMethod() model.PaymentMethod {
	return model.PaymentMethods[0]
}

// ResolvePaymentMethod maps a free-form key to a payment method. It tries, in order, the
// numeric id, the key, the full description and a description substring, all ignoring
// case and accents. Unknown keys resolve to credit card.
func ResolvePaymentMethod(key string) model.PaymentMethod {
	folded := textfold.Fold(key)
	if folded == "" {
		return DefaultPaymentMethod()
	}

	if id, err := strconv.Atoi(folded); err == nil {
		for _, m := range model.PaymentMethods {
			if m.ID == id {
				return m
			}
		}
	}

	normalizedKey := strings.NewReplacer(" ", "_", "-", "_").Replace(folded)
	for _, m := range model.PaymentMethods {
		if m.Key == normalizedKey || textfold.Fold(m.Description) == folded {
			return m
		}
	}

	for _, m := range model.PaymentMethods {
		if strings.Contains(textfold.Fold(m.Description), folded) {
			return m
		}
	}

	return DefaultPaymentMethod()
}
