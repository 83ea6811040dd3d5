package types

// ChangeSet is the create/keep/delete partition computed by one
// reconciliation run. It is recomputed fresh every run and never stored.
type ChangeSet struct {
	ToCreate []AlarmSpec `json:"to_create"`
	ToKeep   []AlarmSpec `json:"to_keep"`
	ToDelete []string    `json:"to_delete"`
}

// IsEmpty reports whether the change set requires no backend calls.
func (c *ChangeSet) IsEmpty() bool {
	return len(c.ToCreate) == 0 && len(c.ToDelete) == 0
}

// CreateNames returns the names of the alarms to create, in spec order.
func (c *ChangeSet) CreateNames() []string {
	names := make([]string, 0, len(c.ToCreate))
	for _, spec := range c.ToCreate {
		names = append(names, spec.AlarmName)
	}
	return names
}
