package repo

import (
	"bufio"
	"io"
	"strings"
)

// Stanza is one paragraph of a Packages index. Only the fields the cache
// needs are retained.
type Stanza struct {
	Section     string
	Package     string
	Version     string
	Filename    string
	Description string
}

// StanzaFunc is called for every complete stanza of a Packages index.
type StanzaFunc func(Stanza) error

// ParsePackages streams a Packages index, one blank-line-separated stanza
// per package. Continuation lines (leading space or tab) extend the value
// of the preceding field, which in practice is the long Description.
// Malformed lines are silently ignored.
func ParsePackages(r io.Reader, fn StanzaFunc) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		cur     Stanza
		started bool
		last    *string
	)

	flush := func() error {
		if !started {
			return nil
		}
		st := cur
		cur = Stanza{}
		started = false
		last = nil
		return fn(st)
	}

	for scanner.Scan() {
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return err
			}
			continue
		}

		if line[0] == ' ' || line[0] == '\t' {
			if last != nil {
				*last += "\n" + strings.TrimLeft(line, " \t")
			}
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		started = true

		switch key {
		case "Section":
			cur.Section = value
			last = &cur.Section
		case "Package":
			cur.Package = value
			last = &cur.Package
		case "Version":
			cur.Version = value
			last = &cur.Version
		case "Filename":
			cur.Filename = value
			last = &cur.Filename
		case "Description":
			cur.Description = value
			last = &cur.Description
		default:
			last = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return flush()
}
