package scene

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Value is one typed input of a scene description command.
type Value interface {
	TypeName() string
	Literal() string
}

type Integer int

func (v Integer) TypeName() string { return "integer" }
func (v Integer) Literal() string  { return strconv.Itoa(int(v)) }

type Real float32

func (v Real) TypeName() string { return "real" }
func (v Real) Literal() string  { return formatFloat(float32(v)) }

type String string

func (v String) TypeName() string { return "string" }
func (v String) Literal() string  { return quote(string(v)) }

type Vector3 mgl32.Vec3

func (v Vector3) TypeName() string { return "vector3" }
func (v Vector3) Literal() string {
	return quote(formatFloat(v[0]) + " " + formatFloat(v[1]) + " " + formatFloat(v[2]))
}

// MaterialRef and GeometryRef point at named resources created earlier.
type MaterialRef string

func (v MaterialRef) TypeName() string { return "material" }
func (v MaterialRef) Literal() string  { return "@" + quote(string(v)) }

type GeometryRef string

func (v GeometryRef) TypeName() string { return "geometry" }
func (v GeometryRef) Literal() string  { return "@" + quote(string(v)) }

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `'`) + `"`
}

type Input struct {
	Name  string
	Value Value
}

// Command creates a resource such as `geometry(cuboid)`, optionally named.
type Command struct {
	Category string
	Type     string
	Name     string
	Inputs   []Input
}

func NewCommand(category, typeName, name string) *Command {
	return &Command{Category: category, Type: typeName, Name: name}
}

func (c *Command) Set(name string, value Value) *Command {
	c.Inputs = append(c.Inputs, Input{Name: name, Value: value})
	return c
}

func (c *Command) FullType() string {
	return c.Category + "(" + c.Type + ")"
}

// Text renders the command as a single line, e.g.
//
//	-> geometry(cuboid) @"cube" [vector3 min-vertex "0 0 0"]
func (c *Command) Text() string {
	var builder strings.Builder
	builder.WriteString("-> ")
	builder.WriteString(c.FullType())
	if c.Name != "" {
		builder.WriteString(" @")
		builder.WriteString(quote(c.Name))
	}
	for _, input := range c.Inputs {
		builder.WriteString(" [")
		builder.WriteString(input.Value.TypeName())
		builder.WriteByte(' ')
		builder.WriteString(input.Name)
		builder.WriteByte(' ')
		builder.WriteString(input.Value.Literal())
		builder.WriteByte(']')
	}
	return builder.String()
}

// Console queues commands and writes them out in queue order.
type Console struct {
	queue   []*Command
	written int
}

func NewConsole() *Console {
	return &Console{}
}

func (c *Console) Queue(command *Command) {
	c.queue = append(c.queue, command)
}

func (c *Console) Pending() int {
	return len(c.queue)
}

// Written is the number of commands flushed so far.
func (c *Console) Written() int {
	return c.written
}

func (c *Console) Flush(w io.Writer) error {
	buffered := bufio.NewWriter(w)
	for _, command := range c.queue {
		if _, err := buffered.WriteString(command.Text()); err != nil {
			return errors.Wrapf(err, "writing %s", command.FullType())
		}
		if err := buffered.WriteByte('\n'); err != nil {
			return errors.Wrap(err, "writing scene description")
		}
		c.written++
	}
	c.queue = c.queue[:0]
	return errors.Wrap(buffered.Flush(), "writing scene description")
}
