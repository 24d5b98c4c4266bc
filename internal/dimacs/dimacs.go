// Package dimacs reads DIMACS CNF instances and installs them into a
// *sat.Solver. It has no knowledge of solving: Parse is specified entirely
// by the shape of the Instance value it produces, and Instantiate is the
// thin adapter that feeds that value into the core engine.
package dimacs

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/gosat-project/gosat/internal/sat"
)

// Instance is the result of parsing a DIMACS CNF file.
type Instance struct {
	// Variables is the number of variables the instance uses: the header's
	// declared count, raised to cover any literal with a higher index
	// (spec.md §6: "variables outside the declared range are allowed").
	Variables int

	// DeclaredClauses is the header's advisory clause count; it is not
	// cross-checked against len(Clauses) unless the caller chooses to.
	DeclaredClauses int

	Clauses [][]sat.Literal
}

// ParseDIMACS reads a DIMACS CNF instance from filename, transparently
// gzip-decompressing it first when the name ends in ".gz" -- grounded on
// the teacher's own internal/dimacs.reader, which supports the same thing
// via an explicit flag rather than a suffix sniff.
func ParseDIMACS(filename string) (*Instance, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %q", filename)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(filename, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "reading gzip header of %q", filename)
		}
		defer gz.Close()
		r = gz
	}

	inst, err := Parse(r)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %q", filename)
	}
	return inst, nil
}

// Parse reads a DIMACS CNF instance from r: comment lines ('c'), one header
// line ('p cnf V C'), then clause lines of whitespace-separated signed
// integers terminated by 0 (spec.md §6).
func Parse(r io.Reader) (*Instance, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	inst := &Instance{}
	headerSeen := false

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == 'c' {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		if fields[0] == "p" {
			if headerSeen {
				return nil, errors.New("duplicate header line")
			}
			nVars, nClauses, err := parseHeader(fields)
			if err != nil {
				return nil, err
			}
			inst.Variables = nVars
			inst.DeclaredClauses = nClauses
			headerSeen = true
			continue
		}

		if !headerSeen {
			return nil, errors.New("clause line appears before header")
		}

		clause, err := parseClauseLine(fields)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing clause %q", line)
		}
		for _, l := range clause {
			if v := int(l.Var()) + 1; v > inst.Variables {
				inst.Variables = v
			}
		}
		inst.Clauses = append(inst.Clauses, clause)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading instance")
	}
	if !headerSeen {
		return nil, errors.New("header line not found")
	}

	return inst, nil
}

func parseHeader(fields []string) (nVars, nClauses int, err error) {
	if len(fields) != 4 || fields[1] != "cnf" {
		return 0, 0, errors.Errorf("malformed header: %q", strings.Join(fields, " "))
	}
	nVars, err = strconv.Atoi(fields[2])
	if err != nil {
		return 0, 0, errors.Wrap(err, "malformed header variable count")
	}
	nClauses, err = strconv.Atoi(fields[3])
	if err != nil {
		return 0, 0, errors.Wrap(err, "malformed header clause count")
	}
	return nVars, nClauses, nil
}

func parseClauseLine(fields []string) ([]sat.Literal, error) {
	lits := make([]sat.Literal, 0, len(fields))
	terminated := false
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid literal %q", f)
		}
		switch {
		case n == 0:
			terminated = true
		case n > 0:
			lits = append(lits, sat.PositiveLiteral(sat.Var(n-1)))
		default:
			lits = append(lits, sat.NegativeLiteral(sat.Var(-n-1)))
		}
	}
	if !terminated {
		return nil, errors.New("missing terminating 0")
	}
	return lits, nil
}

// Instantiate installs inst into s: one AddVariable call per variable the
// instance uses, then one AddClause call per clause.
func Instantiate(s *sat.Solver, inst *Instance) error {
	for s.NumVariables() < inst.Variables {
		s.AddVariable()
	}
	for _, c := range inst.Clauses {
		if err := s.AddClause(c); err != nil {
			return errors.Wrap(err, "installing clause")
		}
	}
	return nil
}
