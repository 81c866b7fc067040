// Package taxonomy holds the club's static classification lists: units,
// progress classes, specialty areas and ledger categories. The lists are
// configuration data, loadable from seed files with built-in defaults, never
// business logic.
package taxonomy

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type Lists struct {
	Units             []string
	Classes           []string
	Specialties       []string
	IncomeCategories  []string
	ExpenseCategories []string
}

// Defaults returns the built-in lists.
func Defaults() Lists {
	return Lists{
		Units: []string{
			"Águia Real", "Falcão Peregrino", "Gavião", "Jaguar",
			"Lobo Guará", "Pantera",
		},
		Classes: []string{
			"Amigo", "Companheiro", "Pesquisador", "Pioneiro",
			"Excursionista", "Guia", "Líder", "Líder Master",
			"Líder Master Avançado",
		},
		Specialties: []string{
			"ADRA", "Artes e Habilidades Manuais", "Atividades Agrícolas",
			"Atividades Missionárias e Comunitárias", "Atividades Profissionais",
			"Atividades Recreativas", "Ciência e Saúde", "Estudos da Natureza",
			"Habilidades Domésticas",
		},
		IncomeCategories: []string{
			"dues", "event", "donation", "sale", "other",
		},
		ExpenseCategories: []string{
			"material", "event", "maintenance", "food", "transport", "other",
		},
	}
}

// NewFromFiles loads the lists from seed files under base, one entry per
// line, falling back to the defaults for any missing or empty file.
func NewFromFiles(base string) Lists {
	def := Defaults()
	return Lists{
		Units:             orDefault(readLines(filepath.Join(base, "seed_units.txt")), def.Units),
		Classes:           orDefault(readLines(filepath.Join(base, "seed_classes.txt")), def.Classes),
		Specialties:       orDefault(readLines(filepath.Join(base, "seed_specialties.txt")), def.Specialties),
		IncomeCategories:  orDefault(readLines(filepath.Join(base, "seed_income_categories.txt")), def.IncomeCategories),
		ExpenseCategories: orDefault(readLines(filepath.Join(base, "seed_expense_categories.txt")), def.ExpenseCategories),
	}
}

// Categories returns the category list for the given ledger side.
func (l Lists) Categories(kind string) []string {
	if kind == "expense" {
		return append([]string(nil), l.ExpenseCategories...)
	}
	return append([]string(nil), l.IncomeCategories...)
}

// HasUnit reports whether unit is a known unit name.
func (l Lists) HasUnit(unit string) bool {
	for _, u := range l.Units {
		if u == unit {
			return true
		}
	}
	return false
}

func orDefault(lines, def []string) []string {
	if len(lines) == 0 {
		return def
	}
	return lines
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	seen := map[string]bool{}
	var out []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || seen[line] {
			continue
		}
		seen[line] = true
		out = append(out, line)
	}
	sort.Strings(out)
	return out
}
