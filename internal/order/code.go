package order

import (
	"fmt"
	"math/rand/v2"
)

// randomCode returns a 4-digit, zero-padded display code. Codes are not unique.
func randomCode() string {
	return fmt.Sprintf("%04d", rand.IntN(10000))
}
