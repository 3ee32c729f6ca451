package debug

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type YAML struct{ *yaml.Node }

func (y YAML) String() string {
	d, err := yaml.Marshal(y.Node)
	if err != nil {
		return fmt.Sprintf("[raw *yaml.Node] %v", y.Node)
	}
	return strings.TrimRight(string(d), "\n")
}

// Logf writes to stderr, rendering *yaml.Node arguments as YAML.
func Logf(msg string, args ...any) {
	for i := range args {
		switch x := args[i].(type) {
		case *yaml.Node:
			args[i] = YAML{x}.String()
		case fmt.Stringer:
			args[i] = x.String()
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}
