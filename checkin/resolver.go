package checkin

import (
	"sort"
)

// GroupsFor resolves the group configurations a user belongs to, sorted
// by group id. When groupID is non-empty the result is filtered to that
// id alone (zero or one entries); membership is not checked in that case,
// matching the lookup used for question listings.
func GroupsFor(source ConfigSource, username, groupID string) ([]*GroupConfig, error) {
	all, err := source.ReadGroups()
	if err != nil {
		return nil, err
	}

	matched := []*GroupConfig{}
	for _, gc := range all {
		if groupID != "" {
			if gc.ID == groupID {
				matched = append(matched, gc)
			}
			continue
		}
		if gc.Member(username) != nil {
			matched = append(matched, gc)
		}
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	return matched, nil
}

// AdminGroupsFor filters GroupsFor down to groups where the user is an
// admin.
func AdminGroupsFor(source ConfigSource, username string) ([]*GroupConfig, error) {
	groups, err := GroupsFor(source, username, "")
	if err != nil {
		return nil, err
	}

	accessible := []*GroupConfig{}
	for _, gc := range groups {
		if gc.IsAdmin(username) {
			accessible = append(accessible, gc)
		}
	}
	return accessible, nil
}
