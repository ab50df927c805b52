package ast

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/kr/pretty"
)

var (
	anchorType  = reflect.TypeOf(Anchor{})
	scratchType = reflect.TypeOf(Scratch{})
	eitherType  = reflect.TypeOf((*Either)(nil)).Elem()
)

// shape is an anchor-free projection of a node, used for comparison and
// dumping. Fields keep declaration order.
type shape struct {
	Kind   string
	Fields []shapeField
}

type shapeField struct {
	Name  string
	Value any
}

// project walks v and drops anchors and tags. Nil and empty slices project
// to the same value.
func project(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Invalid:
		return nil
	case reflect.Interface, reflect.Ptr:
		if v.IsNil() {
			return nil
		}
		return project(v.Elem())
	case reflect.Struct:
		s := shape{Kind: v.Type().Name()}
		for i := 0; i < v.NumField(); i++ {
			f := v.Type().Field(i)
			if !f.IsExported() || f.Type == anchorType || f.Type == scratchType || f.Type == eitherType {
				continue
			}
			s.Fields = append(s.Fields, shapeField{Name: f.Name, Value: project(v.Field(i))})
		}
		return s
	case reflect.Slice:
		if v.Len() == 0 {
			return nil
		}
		items := make([]any, v.Len())
		for i := range items {
			items[i] = project(v.Index(i))
		}
		return items
	default:
		return v.Interface()
	}
}

// projectNode returns the anchor-free projection of n.
func projectNode(n Node) any {
	if isNil(n) {
		return nil
	}
	return project(reflect.ValueOf(n))
}

// Equal reports whether a and b have the same shape: the same node kinds,
// field values and order. Anchors and tags are ignored.
func Equal(a, b Node) bool {
	return reflect.DeepEqual(projectNode(a), projectNode(b))
}

// Diff describes the differences between a and b, ignoring anchors and
// tags. It is empty when Equal(a, b).
func Diff(a, b Node) []string {
	return pretty.Diff(projectNode(a), projectNode(b))
}

// Dump writes an indented, anchor-free description of the tree rooted at n.
// Zero-valued fields are omitted.
func Dump(w io.Writer, n Node) error {
	var sb strings.Builder
	dumpValue(&sb, projectNode(n), 0)
	_, err := io.WriteString(w, sb.String())
	return err
}

// DumpGo writes the anchor-free projection of n as a Go value literal.
func DumpGo(w io.Writer, n Node) error {
	_, err := pretty.Fprintf(w, "%# v\n", projectNode(n))
	return err
}

func dumpValue(sb *strings.Builder, v any, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := v.(type) {
	case nil:
		sb.WriteString("nil\n")
	case shape:
		sb.WriteString(v.Kind + "\n")
		for _, f := range v.Fields {
			if isZeroValue(f.Value) {
				continue
			}
			sb.WriteString(indent + "  " + f.Name + ": ")
			dumpValue(sb, f.Value, depth+1)
		}
	case []any:
		sb.WriteString("\n")
		for _, item := range v {
			sb.WriteString(indent + "  - ")
			dumpValue(sb, item, depth+1)
		}
	case string:
		sb.WriteString(fmt.Sprintf("%q\n", v))
	case rune:
		sb.WriteString(fmt.Sprintf("%q\n", v))
	case fmt.Stringer:
		sb.WriteString(v.String() + "\n")
	default:
		sb.WriteString(fmt.Sprintf("%v\n", v))
	}
}

func isZeroValue(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case int:
		return v == 0
	default:
		return false
	}
}
