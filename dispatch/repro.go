package dispatch

import (
	"strings"

	"github.com/alessio/shellescape"
)

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// ReproduceCommand returns a shell command that sends the same request as the harness.
func ReproduceCommand(requestURL string) string {
	var b commandBuilder
	b.add("curl", "-sS", "-i", requestURL)
	return b.String()
}
