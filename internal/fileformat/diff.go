package fileformat

// Delta holds the source and target values of one differing key.
type Delta struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Diff returns the keys whose values differ between the source and
// target flat maps. A key missing on either side compares as an empty
// string, not as absent.
func Diff(source, target map[string]string) map[string]Delta {
	diff := map[string]Delta{}

	for key, sourceValue := range source {
		if targetValue := target[key]; sourceValue != targetValue {
			diff[key] = Delta{Source: sourceValue, Target: targetValue}
		}
	}
	for key, targetValue := range target {
		if _, seen := source[key]; seen {
			continue
		}
		if targetValue != "" {
			diff[key] = Delta{Source: "", Target: targetValue}
		}
	}

	return diff
}
