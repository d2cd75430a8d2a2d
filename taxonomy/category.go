package taxonomy

import "fmt"

// Category classifies a tool by the tactic it serves. The value set mirrors
// the standard adversarial tactic taxonomy so that external technique
// references line up with tool signatures without translation.
type Category string

const (
	CategoryReconnaissance      Category = "reconnaissance"
	CategoryInitialAccess       Category = "initial-access"
	CategoryExecution           Category = "execution"
	CategoryPersistence         Category = "persistence"
	CategoryPrivilegeEscalation Category = "privilege-escalation"
	CategoryDefenseEvasion      Category = "defense-evasion"
	CategoryCredentialAccess    Category = "credential-access"
	CategoryDiscovery           Category = "discovery"
	CategoryLateralMovement     Category = "lateral-movement"
	CategoryCollection          Category = "collection"
	CategoryCommandAndControl   Category = "command-and-control"
	CategoryExfiltration        Category = "exfiltration"
	CategoryImpact              Category = "impact"
)

// categories lists every valid category in taxonomy order.
var categories = []Category{
	CategoryReconnaissance,
	CategoryInitialAccess,
	CategoryExecution,
	CategoryPersistence,
	CategoryPrivilegeEscalation,
	CategoryDefenseEvasion,
	CategoryCredentialAccess,
	CategoryDiscovery,
	CategoryLateralMovement,
	CategoryCollection,
	CategoryCommandAndControl,
	CategoryExfiltration,
	CategoryImpact,
}

// Categories returns all valid categories in taxonomy order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// IsValid returns true if the category is a recognized value.
func (c Category) IsValid() bool {
	for _, candidate := range categories {
		if candidate == c {
			return true
		}
	}
	return false
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// ParseCategory parses a string into a Category value.
// Returns an error if the string is not a valid category.
func ParseCategory(s string) (Category, error) {
	category := Category(s)
	if !category.IsValid() {
		return "", fmt.Errorf("invalid category: %q", s)
	}
	return category, nil
}
