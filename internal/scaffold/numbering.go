package scaffold

import (
	"cmp"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strconv"
)

// Sequencer assigns zero-padded sequence prefixes to migration files.
type Sequencer struct {
	Step  int // increment between numbers
	Width int // zero-padded digit width
}

// DefaultSequencer matches the conventional migrations layout: 6-digit
// prefixes advancing in steps of 5.
func DefaultSequencer() Sequencer {
	return Sequencer{Step: 5, Width: 6}
}

// Next returns the sequence prefix for a new file in dir: the highest
// existing numeric prefix plus the step, or the step itself when the
// directory is empty or absent. Prefixes compare numerically, not
// lexicographically.
func (s Sequencer) Next(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return s.format(s.Step), nil
		}
		return "", fmt.Errorf("reading migrations directory %s: %w", dir, err)
	}

	pattern := regexp.MustCompile(fmt.Sprintf(`^(\d{%d})`, s.Width))

	var numbers []int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matches := pattern.FindStringSubmatch(entry.Name())
		if len(matches) < 2 {
			continue
		}
		n, err := strconv.Atoi(matches[1])
		if err != nil {
			continue
		}
		numbers = append(numbers, n)
	}

	if len(numbers) == 0 {
		return s.format(s.Step), nil
	}

	// Numeric descending; the highest prefix is first.
	slices.SortFunc(numbers, func(a, b int) int { return cmp.Compare(b, a) })

	return s.format(numbers[0] + s.Step), nil
}

func (s Sequencer) format(n int) string {
	return fmt.Sprintf("%0*d", s.Width, n)
}
