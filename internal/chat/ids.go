package chat

import (
	"fmt"
	"strconv"
	"time"

	nanoid "github.com/jaevor/go-nanoid"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// IDGenerator returns message ids made of a nanosecond timestamp and a random
// suffix. Ids sort roughly by creation time; uniqueness is probabilistic.
type IDGenerator func() string

func NewIDGenerator() (IDGenerator, error) {
	suffix, err := nanoid.CustomASCII(idAlphabet, 8)
	if err != nil {
		return nil, fmt.Errorf("failed to create id generator: %w", err)
	}
	return func() string {
		return strconv.FormatInt(time.Now().UnixNano(), 10) + "-" + suffix()
	}, nil
}
