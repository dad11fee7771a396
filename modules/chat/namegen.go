package chat

import (
	"fmt"
	"math/rand/v2"

	"github.com/jaevor/go-nanoid"
)

// Word lists for generated display names. The pool size
// (adjectives x surnames x 10^5 suffixes) dwarfs any realistic number of
// concurrent connections.
var nameAdjectives = []string{
	"Amber", "Bold", "Brisk", "Calm", "Clever", "Curious", "Eager",
	"Gentle", "Keen", "Lively", "Lucky", "Merry", "Nimble", "Quiet",
	"Rapid", "Sly", "Steady", "Swift", "Vivid", "Witty",
}

var nameSurnames = []string{
	"Ada", "Babbage", "Bohr", "Curie", "Darwin", "Dijkstra", "Euler",
	"Fermi", "Gauss", "Hamilton", "Hopper", "Kepler", "Lovelace",
	"Mendel", "Newton", "Noether", "Pascal", "Planck", "Ritchie",
	"Tesla", "Turing", "Volta", "Wiles", "Wozniak",
}

// NewNameSource returns a generator of random display names such as
// "CuriousLovelace-48213". Uniqueness is the registry's job; the source only
// guarantees a large enough pool for the allocation loop to terminate.
// The suffix length must stay >= 5: nanoid's byte-buffer refill step is
// (length/5)*8, which is zero below that, and the generator spins forever.
func NewNameSource() (func() string, error) {
	suffix, err := nanoid.CustomASCII("0123456789", 5)
	if err != nil {
		return nil, fmt.Errorf("failed to build name suffix generator: %w", err)
	}
	return func() string {
		adjective := nameAdjectives[rand.IntN(len(nameAdjectives))]
		surname := nameSurnames[rand.IntN(len(nameSurnames))]
		return fmt.Sprintf("%s%s-%s", adjective, surname, suffix())
	}, nil
}
