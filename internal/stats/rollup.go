package stats

import (
	"fmt"

	"covid-dashboard-backend/internal/models"
	"covid-dashboard-backend/internal/utils"
)

// Age bucket labels. The boundary ages 40 and 60 both belong to the middle
// bucket.
const (
	ageGroupUnder40 = "<40"
	ageGroupMiddle  = "40-60"
	ageGroupOver60  = ">60"
)

// ageGroup buckets an age into its label
func ageGroup(age float64) string {
	switch {
	case age < 40:
		return ageGroupUnder40
	case age <= 60:
		return ageGroupMiddle
	default:
		return ageGroupOver60
	}
}

// rollupRoot is the label of the synthetic root node
const rollupRoot = "Total"

// AgeGenderRollup builds the gender → age group → status hierarchy as a
// flat parent-pointer list, depth first. Only combinations observed in the
// records are emitted; every node's value is the number of records under
// it, so the sum of any node's direct children equals its own value.
func AgeGenderRollup(persons []models.PersonRecord) []RollupNode {
	nodes := make([]RollupNode, 0, 1+2*len(persons))
	nodes = append(nodes, RollupNode{Name: rollupRoot, Parent: "", Value: int64(len(persons))})

	for _, byGender := range groupBy(persons, func(p models.PersonRecord) string { return p.Gender }) {
		gender := byGender.Key
		nodes = append(nodes, RollupNode{Name: gender, Parent: rollupRoot, Value: int64(len(byGender.Items))})

		for _, byAge := range groupBy(byGender.Items, func(p models.PersonRecord) string { return ageGroup(p.Age) }) {
			ageName := gender + "-" + byAge.Key
			nodes = append(nodes, RollupNode{Name: ageName, Parent: gender, Value: int64(len(byAge.Items))})

			for _, byStatus := range groupBy(byAge.Items, func(p models.PersonRecord) string { return p.Status }) {
				nodes = append(nodes, RollupNode{
					Name:   ageName + "-" + byStatus.Key,
					Parent: ageName,
					Value:  int64(len(byStatus.Items)),
				})
			}
		}
	}
	return nodes
}

// ValidateRollup checks rollup consistency: every node that appears as a
// parent must have a value equal to the sum of its direct children's values.
func ValidateRollup(nodes []RollupNode) error {
	values := make(map[string]int64, len(nodes))
	childSums := make(map[string]int64)
	for _, n := range nodes {
		values[n.Name] = n.Value
		if n.Parent != "" {
			childSums[n.Parent] += n.Value
		}
	}
	for name, sum := range childSums {
		if values[name] != sum {
			return utils.NewAppError(utils.ErrorTypeInternal, "ROLLUP_INCONSISTENT",
				fmt.Sprintf("node %q has value %d but children sum to %d", name, values[name], sum), "stats")
		}
	}
	return nil
}
