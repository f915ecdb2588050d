package categorizer

// RuleStoreInterface loads categorization rules from persistent storage.
// A store returning no rules and no error means the defaults apply.
type RuleStoreInterface interface {
	LoadRules() ([]Rule, error)
}
