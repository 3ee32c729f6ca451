// Package query selects attachment configurations with expr-lang
// expressions.
//
// An expression is evaluated once per configuration against an [Env] and
// must yield a bool:
//
//	typeId == "ITEM" && depth > 1
//	isModel && modelName startsWith "wag"
//	prop("item") in ["apple", "pear"]
//	hasPrefix(path, "attachments[1]")
package query

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/signadot/attachtree/attach"

	"gopkg.in/yaml.v3"
)

// Env is the environment an expression sees for one configuration.
type Env struct {
	TypeID     string `expr:"typeId"`
	Path       string `expr:"path"`
	ChildIndex int    `expr:"childIndex"`
	Depth      int    `expr:"depth"`
	IsModel    bool   `expr:"isModel"`
	ModelName  string `expr:"modelName"`
	ChildCount int    `expr:"childCount"`

	// Prop returns the top-level scalar property name of the payload, or "".
	Prop func(name string) string `expr:"prop"`
	// Payload is the payload decoded to plain values, nil if it does not
	// decode to a mapping.
	Payload map[string]any `expr:"payload"`
}

// NewEnv returns the environment of c.
func NewEnv(c *attach.Config) Env {
	env := Env{
		TypeID:     c.TypeID(),
		Path:       c.Path().String(),
		ChildIndex: c.ChildIndex(),
		Depth:      c.Depth(),
		ChildCount: len(c.Children()),
	}
	if m, ok := c.AsModel(); ok {
		env.IsModel = true
		env.ModelName = m.ModelName()
	}
	payload := c.Payload()
	env.Prop = func(name string) string {
		n := attach.Lookup(payload, name)
		if n == nil || n.Kind != yaml.ScalarNode || n.ShortTag() == "!!null" {
			return ""
		}
		return n.Value
	}
	if payload != nil {
		var m map[string]any
		if err := payload.Decode(&m); err == nil {
			env.Payload = m
		}
	}
	return env
}

// Query is a compiled selection expression.
type Query struct {
	src string
	prg *vm.Program
}

// Compile compiles src; it must evaluate to a bool.
func Compile(src string) (*Query, error) {
	prg, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile query %q: %w", src, err)
	}
	return &Query{src: src, prg: prg}, nil
}

// MustCompile is Compile panicking on error.
func MustCompile(src string) *Query {
	q, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return q
}

func (q *Query) String() string {
	return q.src
}

// Match reports whether c satisfies q.
func (q *Query) Match(c *attach.Config) (bool, error) {
	res, err := expr.Run(q.prg, NewEnv(c))
	if err != nil {
		return false, fmt.Errorf("query %q at %s: %w", q.src, c.Path(), err)
	}
	ok, _ := res.(bool)
	return ok, nil
}

// Select returns the configurations at or below root matching q, in
// pre-order. The first evaluation error stops the walk.
func Select(root *attach.Config, q *Query) ([]*attach.Config, error) {
	var (
		res []*attach.Config
		err error
	)
	root.Walk(func(c *attach.Config) bool {
		if err != nil {
			return false
		}
		var ok bool
		ok, err = q.Match(c)
		if ok {
			res = append(res, c)
		}
		return err == nil
	})
	return res, err
}
