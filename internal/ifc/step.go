// Package ifc reads IFC models in the STEP physical file format and
// runs IDS specifications against them. It covers the surface the
// checker consumes — entity types, direct attributes, property sets,
// spatial containment, materials, and classification references — not
// the full IFC schema.
package ifc

import (
	"fmt"
	"strconv"
	"strings"
)

// instance is one parsed STEP entity instance: #12=IFCWALL('guid',...);
type instance struct {
	ID   int
	Type string
	Args []string
}

// parseStep splits the DATA section of a STEP file into instances.
// Instances may span lines; statements terminate with ";".
func parseStep(text string) (map[int]*instance, error) {
	instances := make(map[int]*instance)

	for _, stmt := range splitStatements(text) {
		stmt = strings.TrimSpace(stmt)
		if !strings.HasPrefix(stmt, "#") {
			continue
		}
		eq := strings.Index(stmt, "=")
		if eq < 0 {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(stmt[1:eq]))
		if err != nil {
			continue
		}
		body := strings.TrimSpace(stmt[eq+1:])
		open := strings.Index(body, "(")
		if open < 0 || !strings.HasSuffix(body, ")") {
			continue
		}
		typ := strings.ToUpper(strings.TrimSpace(body[:open]))
		args, err := splitArgs(body[open+1 : len(body)-1])
		if err != nil {
			return nil, fmt.Errorf("instance #%d: %w", id, err)
		}
		instances[id] = &instance{ID: id, Type: typ, Args: args}
	}
	return instances, nil
}

// splitStatements splits on ";" outside string literals.
func splitStatements(text string) []string {
	var stmts []string
	var b strings.Builder
	inString := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == '\'' {
			inString = !inString
		}
		if c == ';' && !inString {
			stmts = append(stmts, b.String())
			b.Reset()
			continue
		}
		b.WriteByte(c)
	}
	if b.Len() > 0 {
		stmts = append(stmts, b.String())
	}
	return stmts
}

// splitArgs splits a STEP argument list at top level, respecting nested
// parentheses and string literals.
func splitArgs(body string) ([]string, error) {
	var args []string
	var b strings.Builder
	depth := 0
	inString := false
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\'':
			inString = !inString
			b.WriteByte(c)
		case inString:
			b.WriteByte(c)
		case c == '(':
			depth++
			b.WriteByte(c)
		case c == ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parentheses in %q", body)
			}
			b.WriteByte(c)
		case c == ',' && depth == 0:
			args = append(args, strings.TrimSpace(b.String()))
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	if depth != 0 || inString {
		return nil, fmt.Errorf("unterminated argument list in %q", body)
	}
	if s := strings.TrimSpace(b.String()); s != "" || len(args) > 0 {
		args = append(args, s)
	}
	return args, nil
}

// argString decodes a STEP string argument; $ and * decode to "".
func argString(arg string) string {
	arg = strings.TrimSpace(arg)
	if len(arg) >= 2 && arg[0] == '\'' && arg[len(arg)-1] == '\'' {
		return strings.ReplaceAll(arg[1:len(arg)-1], "''", "'")
	}
	return ""
}

// argRef decodes a #n instance reference, ok=false otherwise.
func argRef(arg string) (int, bool) {
	arg = strings.TrimSpace(arg)
	if !strings.HasPrefix(arg, "#") {
		return 0, false
	}
	id, err := strconv.Atoi(arg[1:])
	if err != nil {
		return 0, false
	}
	return id, true
}

// argRefList decodes a (#a,#b,...) list of instance references.
func argRefList(arg string) []int {
	arg = strings.TrimSpace(arg)
	if len(arg) < 2 || arg[0] != '(' || arg[len(arg)-1] != ')' {
		return nil
	}
	parts, err := splitArgs(arg[1 : len(arg)-1])
	if err != nil {
		return nil
	}
	var refs []int
	for _, p := range parts {
		if id, ok := argRef(p); ok {
			refs = append(refs, id)
		}
	}
	return refs
}

// argEnum decodes a .TOKEN. enumeration value, "" otherwise.
func argEnum(arg string) string {
	arg = strings.TrimSpace(arg)
	if len(arg) >= 2 && arg[0] == '.' && arg[len(arg)-1] == '.' {
		return arg[1 : len(arg)-1]
	}
	return ""
}

// argWrapped decodes a typed value like IFCLABEL('REI60') or
// IFCINTEGER(3) to its inner textual form.
func argWrapped(arg string) string {
	arg = strings.TrimSpace(arg)
	open := strings.Index(arg, "(")
	if open <= 0 || !strings.HasSuffix(arg, ")") {
		return argString(arg)
	}
	inner := arg[open+1 : len(arg)-1]
	if s := argString(inner); s != "" {
		return s
	}
	if e := argEnum(inner); e != "" {
		return e
	}
	return strings.TrimSpace(inner)
}
