package schema

import (
	"fmt"

	"github.com/beesaferoot/casadf-schema/integrity"
)

// CheckRelations compares the constraints declared on the models with the
// referential-action table and returns one message per disagreement.
func CheckRelations(tables []*Table, rules []integrity.Relation) []string {
	var problems []string
	byName := make(map[string]*Table, len(tables))
	declared := make(map[string]ForeignKey)

	for _, t := range tables {
		byName[t.Table] = t
		for _, fk := range t.ForeignKeys() {
			key := fk.Table + "." + fk.Column
			declared[key] = fk
			rel, ok := integrity.Lookup(rules, fk.Table, fk.Column)
			if !ok {
				problems = append(problems, fmt.Sprintf("%s: constraint %s has no rule", key, fk.Name))
				continue
			}
			problems = append(problems, mismatches(fk, rel)...)
		}
	}

	for _, rel := range rules {
		key := rel.Child + "." + rel.Column
		t, ok := byName[rel.Child]
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: table %s is not a model", rel.Name, rel.Child))
			continue
		}
		col, ok := t.Column(rel.Column)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: column %s does not exist", rel.Name, key))
			continue
		}
		if _, ok := declared[key]; !ok {
			problems = append(problems, fmt.Sprintf("%s: %s declares no constraint", rel.Name, key))
		}
		if rel.OnDelete == integrity.SetNull && !col.Nullable() {
			problems = append(problems, fmt.Sprintf("%s: %s is NOT NULL but the rule sets it to null", rel.Name, key))
		}
		if _, ok := byName[rel.Parent]; !ok {
			problems = append(problems, fmt.Sprintf("%s: parent table %s is not a model", rel.Name, rel.Parent))
		}
	}
	return problems
}

// mismatches compares one declared or deployed constraint with its rule.
func mismatches(fk ForeignKey, rel integrity.Relation) []string {
	var problems []string
	key := fk.Table + "." + fk.Column
	if fk.RefTable != rel.Parent || fk.RefColumn != "id" {
		problems = append(problems, fmt.Sprintf("%s: references %s.%s, rule says %s.id", key, fk.RefTable, fk.RefColumn, rel.Parent))
	}
	if fk.OnDelete != string(rel.OnDelete) {
		problems = append(problems, fmt.Sprintf("%s: declares ON DELETE %q, rule says %q", key, fk.OnDelete, rel.OnDelete))
	}
	return problems
}
