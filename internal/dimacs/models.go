package dimacs

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseModels reads the ".cnf.models" fixture format: one model per line, each a whitespace-separated list of signed
// 1-based literals terminated by 0.
func ParseModels(filename string) ([][]bool, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %q", filename)
	}
	defer file.Close()

	models := [][]bool{}
	scanner := bufio.NewScanner(file)
	for i := 0; scanner.Scan(); i++ {
		line := scanner.Text()
		if line == "" {
			continue
		}

		literals := strings.Fields(line)
		model := make([]bool, 0, len(literals))

		for _, ls := range literals {
			if ls == "0" {
				continue
			}
			l, err := strconv.Atoi(ls)
			if err != nil {
				return nil, errors.Wrapf(err, "parsing literal %q", ls)
			}
			model = append(model, l > 0)
		}

		models = append(models, model)
	}

	return models, nil
}
