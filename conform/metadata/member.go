package metadata

import "github.com/batchatco/go-native-conform/conform/api"

// Member is the part shared by all objects that belong to a dataset:
// a name and a reference back to the owning dataset.
// The member does not own the dataset.
type Member struct {
	name    string
	dataset api.Dataset
}

// Name returns the name of the member.
func (m *Member) Name() string {
	return m.name
}

// Dataset returns the owning dataset, or nil if there is none.
func (m *Member) Dataset() api.Dataset {
	return m.dataset
}
