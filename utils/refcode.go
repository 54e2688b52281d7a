// utils/refcode.go
package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// Reference codes use a random 4-digit suffix per year. Uniqueness is not
// verified; at this system's creation rate a collision is accepted rather
// than paying a read per create.

func NewTicketNumber(now time.Time) string {
	return fmt.Sprintf("TKT-%d-%04d", now.Year(), rand.Intn(10000))
}

func NewRequestNumber(now time.Time) string {
	return fmt.Sprintf("REQ-%d-%04d", now.Year(), rand.Intn(10000))
}
