// package shared defines shared helpers
package shared

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// DefaultAlphabet excludes ambiguous characters (0/O, 1/I) and appends the
// special characters accepted by join-code inputs.
const DefaultAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ" + "!@#$%&*?"

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// GenerateCode generates a random join code of the given length drawn from alphabet.
//
// Falls back to [DefaultAlphabet] when alphabet is empty and length 4 when
// length is non-positive. Uses crypto/rand so codes are not guessable.
func GenerateCode(length int, alphabet string) (string, error) {
	if alphabet == "" {
		alphabet = DefaultAlphabet
	}
	if length <= 0 {
		length = 4
	}

	runes := []rune(alphabet)
	max := big.NewInt(int64(len(runes)))
	code := make([]rune, length)

	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		code[i] = runes[n.Int64()]
	}

	return string(code), nil
}

// Slugify converts text to a URL-safe slug: lowercase, runs of non-alphanumeric
// characters collapsed to single hyphens, leading/trailing hyphens trimmed.
//
// Returns "n-a" for input with no usable characters.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugPattern.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "n-a"
	}
	return s
}
